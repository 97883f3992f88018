package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/waterscope/floodwatch/pkg/stn"
)

// dbfFieldLen is the DBF string field width. Values longer than this
// are truncated; the DBF format caps fields at 254 bytes.
const dbfFieldLen = 254

// WriteShapefile writes geo-referenced records as a point shapefile.
// Attribute columns come from the union of record keys; DBF field
// names are truncated to the format's 10-character limit and
// deduplicated with a numeric suffix when truncation collides.
func WriteShapefile(path string, recs []stn.GeoRecord) error {
	plain := make([]stn.Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Point != nil {
			plain = append(plain, rec.Record)
		}
	}
	cols := columns(plain)

	fields := make([]shp.Field, len(cols))
	used := make(map[string]bool, len(cols))
	for i, col := range cols {
		fields[i] = shp.StringField(dbfFieldName(col, used), dbfFieldLen)
	}

	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "export: create shapefile %s", path)
	}
	if err := w.SetFields(fields); err != nil {
		return eris.Wrapf(err, "export: write attribute table for %s", path)
	}

	row := 0
	for _, rec := range recs {
		if rec.Point == nil {
			continue
		}
		pt := shp.Point{X: rec.Point.X(), Y: rec.Point.Y()}
		w.Write(&pt)
		for i, col := range cols {
			val := formatValue(rec.Record[col])
			if len(val) > dbfFieldLen {
				val = val[:dbfFieldLen]
			}
			if err := w.WriteAttribute(row, i, val); err != nil {
				return eris.Wrapf(err, "export: write attribute %s of record %d", col, row)
			}
		}
		row++
	}

	w.Close()
	return fixDBFName(path)
}

// fixDBFName moves the attribute table to the name readers expect.
// go-shp trims the whole ".shp" suffix when deriving the DBF filename,
// leaving "<base>dbf" next to "<base>.shp".
func fixDBFName(path string) error {
	base := strings.TrimSuffix(path, ".shp")
	misnamed := base + "dbf"
	if _, err := os.Stat(misnamed); err != nil {
		return nil
	}
	if err := os.Rename(misnamed, base+".dbf"); err != nil {
		return eris.Wrapf(err, "export: rename attribute table for %s", path)
	}
	return nil
}

// dbfFieldName shortens a column name to the 10-byte DBF limit,
// resolving duplicates created by truncation.
func dbfFieldName(col string, used map[string]bool) string {
	name := col
	if len(name) > 10 {
		name = name[:10]
	}
	if !used[name] {
		used[name] = true
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf("_%d", n)
		cand := name
		if len(cand)+len(suffix) > 10 {
			cand = cand[:10-len(suffix)]
		}
		cand += suffix
		if !used[cand] {
			used[cand] = true
			return cand
		}
	}
}
