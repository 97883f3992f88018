package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/waterscope/floodwatch/pkg/arcgis"
	"github.com/waterscope/floodwatch/pkg/stn"
)

type geojsonDoc struct {
	Type     string `json:"type"`
	Features []struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

func testPoint(x, y float64) *geom.Point {
	pt := geom.NewPointFlat(geom.XY, []float64{x, y})
	pt.SetSRID(4326)
	return pt
}

func TestWriteGeoJSON(t *testing.T) {
	recs := []stn.GeoRecord{
		{Record: stn.Record{"site_no": "07374000"}, Point: testPoint(-91.19, 30.44)},
		{Record: stn.Record{"site_no": "07374525"}, Point: testPoint(-90.99, 30.11)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, recs))

	var doc geojsonDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 2)
	assert.Equal(t, "Feature", doc.Features[0].Type)
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
	assert.JSONEq(t, "[-91.19,30.44]", string(doc.Features[0].Geometry.Coordinates))
	assert.Equal(t, "07374000", doc.Features[0].Properties["site_no"])
}

func TestWriteGeoJSONSkipsMissingGeometry(t *testing.T) {
	recs := []stn.GeoRecord{
		{Record: stn.Record{"site_no": "07374000"}, Point: testPoint(-91.19, 30.44)},
		{Record: stn.Record{"site_no": "no-location"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, recs))

	var doc geojsonDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "07374000", doc.Features[0].Properties["site_no"])
}

func TestWriteFeaturesGeoJSON(t *testing.T) {
	feats := []arcgis.Feature{
		{
			Attributes: map[string]any{"FLD_ZONE": "AE"},
			Geometry:   testPoint(-91.0, 30.0),
		},
		{Attributes: map[string]any{"FLD_ZONE": "X"}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteFeaturesGeoJSON(&buf, feats))

	var doc geojsonDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.Features, 1)
	assert.Equal(t, "AE", doc.Features[0].Properties["FLD_ZONE"])
	assert.Equal(t, "Point", doc.Features[0].Geometry.Type)
}
