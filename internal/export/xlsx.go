package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/waterscope/floodwatch/pkg/stn"
)

// WriteDictionaryXLSX writes data dictionary entries to an XLSX
// workbook with one sheet and a Field/Definition header row.
func WriteDictionaryXLSX(path, sheetName string, entries []stn.DictionaryEntry) error {
	if sheetName == "" {
		sheetName = "Data Dictionary"
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return eris.Wrapf(err, "export: add sheet %q", sheetName)
	}

	header := sheet.AddRow()
	header.AddCell().Value = "Field"
	header.AddCell().Value = "Definition"

	for _, e := range entries {
		row := sheet.AddRow()
		row.AddCell().Value = e.Field
		row.AddCell().Value = e.Definition
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}
