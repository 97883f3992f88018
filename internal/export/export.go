// Package export writes fetched records and data dictionaries to
// interchange formats: CSV, GeoJSON, XLSX, and ESRI shapefiles.
package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/waterscope/floodwatch/pkg/stn"
)

// columns returns the sorted union of keys across all records, so every
// row in a tabular export shares one header regardless of which fields
// the service returned per record.
func columns(recs []stn.Record) []string {
	seen := make(map[string]bool)
	for _, rec := range recs {
		for k := range rec {
			seen[k] = true
		}
	}

	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// formatValue renders a record value as a cell string. Missing and null
// values become the empty string.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
