package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/waterscope/floodwatch/pkg/stn"
)

func TestWriteDictionaryXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.xlsx")
	entries := []stn.DictionaryEntry{
		{Field: "site_no", Definition: "Unique site identifier"},
		{Field: "elev_ft", Definition: "Elevation in feet above datum"},
	}

	require.NoError(t, WriteDictionaryXLSX(path, "HWMs", entries))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "HWMs", sheet.Name)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Field", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Definition", sheet.Rows[0].Cells[1].String())
	assert.Equal(t, "site_no", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "Elevation in feet above datum", sheet.Rows[2].Cells[1].String())
}

func TestWriteDictionaryXLSXDefaultSheetName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.xlsx")
	require.NoError(t, WriteDictionaryXLSX(path, "", nil))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)
	assert.Equal(t, "Data Dictionary", f.Sheets[0].Name)
}
