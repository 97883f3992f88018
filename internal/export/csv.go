package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/waterscope/floodwatch/pkg/stn"
)

// WriteRecordsCSV writes records as CSV with a sorted header row built
// from the union of all record keys.
func WriteRecordsCSV(w io.Writer, recs []stn.Record) error {
	cols := columns(recs)

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return eris.Wrap(err, "export: write CSV header")
	}

	row := make([]string, len(cols))
	for _, rec := range recs {
		for i, col := range cols {
			row[i] = formatValue(rec[col])
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush CSV")
}

// WriteDictionaryCSV writes data dictionary entries as two-column CSV.
func WriteDictionaryCSV(w io.Writer, entries []stn.DictionaryEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Field", "Definition"}); err != nil {
		return eris.Wrap(err, "export: write dictionary header")
	}

	for _, e := range entries {
		if err := cw.Write([]string{e.Field, e.Definition}); err != nil {
			return eris.Wrap(err, "export: write dictionary row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush dictionary CSV")
}
