package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterscope/floodwatch/pkg/stn"
)

func TestWriteShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.shp")
	recs := []stn.GeoRecord{
		{Record: stn.Record{"site_no": "07374000", "state": "LA"}, Point: testPoint(-91.19, 30.44)},
		{Record: stn.Record{"site_no": "07374525", "state": "MS"}, Point: testPoint(-90.99, 30.11)},
	}

	require.NoError(t, WriteShapefile(path, recs))

	reader, err := shp.Open(path)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	require.Len(t, fields, 2)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.TrimRight(f.String(), "\x00")
	}
	assert.Equal(t, []string{"site_no", "state"}, names)

	var points []shp.Point
	var sites []string
	for reader.Next() {
		_, shape := reader.Shape()
		pt, ok := shape.(*shp.Point)
		require.True(t, ok)
		points = append(points, *pt)
		sites = append(sites, strings.TrimRight(reader.Attribute(0), "\x00"))
	}

	require.Len(t, points, 2)
	assert.InDelta(t, -91.19, points[0].X, 1e-9)
	assert.InDelta(t, 30.44, points[0].Y, 1e-9)
	assert.Equal(t, []string{"07374000", "07374525"}, sites)
}

func TestWriteShapefileSkipsMissingGeometry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.shp")
	recs := []stn.GeoRecord{
		{Record: stn.Record{"site_no": "07374000"}, Point: testPoint(-91.19, 30.44)},
		{Record: stn.Record{"site_no": "no-location"}},
	}

	require.NoError(t, WriteShapefile(path, recs))

	reader, err := shp.Open(path)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	count := 0
	for reader.Next() {
		count++
	}
	assert.Equal(t, 1, count)
}

func TestWriteShapefileAttributeTableFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sites.shp")
	recs := []stn.GeoRecord{
		{Record: stn.Record{"site_no": "07374000"}, Point: testPoint(-91.19, 30.44)},
	}

	require.NoError(t, WriteShapefile(path, recs))

	// The attribute table must sit at <base>.dbf, not the <base>dbf
	// name go-shp derives internally.
	_, err := os.Stat(filepath.Join(dir, "sites.dbf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "sitesdbf"))
	assert.True(t, os.IsNotExist(err))
}

func TestDBFFieldNameTruncation(t *testing.T) {
	used := make(map[string]bool)

	assert.Equal(t, "site_no", dbfFieldName("site_no", used))
	assert.Equal(t, "last_updat", dbfFieldName("last_updated", used))
	assert.Equal(t, "last_upd_2", dbfFieldName("last_updated_by", used))
}
