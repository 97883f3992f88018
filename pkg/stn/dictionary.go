package stn

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/waterscope/floodwatch/pkg/errs"
)

// DictionaryEntry is one field-name-to-definition pair from a data
// dictionary CSV.
type DictionaryEntry struct {
	Field      string `json:"field"`
	Definition string `json:"definition"`
}

// ReassembleDictionary rebuilds dictionary entries from raw two-column
// rows. The provider spills long definitions across subsequent rows with
// an empty field name; such continuation rows are space-joined onto the
// previous entry. Literal CRLF sequences inside a definition become two
// spaces before anything else happens. A continuation row with no
// preceding entry yields a MalformedDictionaryError.
func ReassembleDictionary(rows [][]string) ([]DictionaryEntry, error) {
	var out []DictionaryEntry
	for i, row := range rows {
		var field, def string
		if len(row) > 0 {
			field = row[0]
		}
		if len(row) > 1 {
			def = row[1]
		}
		def = strings.ReplaceAll(def, "\r\n", "  ")

		if field == "" {
			if len(out) == 0 {
				return nil, &errs.MalformedDictionaryError{Row: i}
			}
			out[len(out)-1].Definition += " " + def
			continue
		}
		out = append(out, DictionaryEntry{Field: field, Definition: def})
	}
	return out, nil
}

// ParseDictionary parses a data dictionary CSV body. The upstream files
// sometimes ship without the "Field,Definition" header row; when the
// header is absent the first row is kept as data.
func ParseDictionary(r io.Reader) ([]DictionaryEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "stn: read dictionary csv")
	}
	// csv.Reader folds the provider's in-cell CRLF line endings to plain
	// \n; restore them so the two-space normalization still fires. The
	// upstream files are CRLF-terminated throughout.
	for _, row := range rows {
		for j, cell := range row {
			row[j] = strings.ReplaceAll(cell, "\n", "\r\n")
		}
	}
	if len(rows) > 0 && isDictionaryHeader(rows[0]) {
		rows = rows[1:]
	}
	return ReassembleDictionary(rows)
}

func isDictionaryHeader(row []string) bool {
	return len(row) >= 2 &&
		strings.EqualFold(strings.TrimSpace(row[0]), "Field") &&
		strings.EqualFold(strings.TrimSpace(row[1]), "Definition")
}
