package stn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/waterscope/floodwatch/pkg/errs"
)

// fakeTransformer records how it was called and shifts x by a fixed amount.
type fakeTransformer struct {
	calls int
	from  int
	to    int
}

func (f *fakeTransformer) ReprojectPoints(coords []geom.Coord, fromEPSG, toEPSG int) ([]geom.Coord, error) {
	f.calls++
	f.from = fromEPSG
	f.to = toEPSG
	out := make([]geom.Coord, len(coords))
	for i, c := range coords {
		out[i] = geom.Coord{c[0] + 100, c[1]}
	}
	return out, nil
}

func TestAttachGeometry_Identity(t *testing.T) {
	records := []Record{
		{"longitude": -80.1, "latitude": 32.8},
		{"longitude": -81.2, "latitude": 33.9},
	}
	tr := &fakeTransformer{}
	got, err := AttachGeometry(records, "longitude", "latitude", 4326, 0, tr)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Target defaulted to the source CRS, so the transformer must not run.
	assert.Zero(t, tr.calls)
	assert.Equal(t, []float64{-80.1, 32.8}, got[0].Point.FlatCoords())
	assert.Equal(t, 4326, got[0].Point.SRID())
}

func TestAttachGeometry_BatchedReprojection(t *testing.T) {
	records := []Record{
		{"x": 1.0, "y": 2.0},
		{"x": 3.0, "y": 4.0},
		{"x": 5.0, "y": 6.0},
	}
	tr := &fakeTransformer{}
	got, err := AttachGeometry(records, "x", "y", 4326, 3857, tr)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// One call for the whole batch, not one per record.
	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, 4326, tr.from)
	assert.Equal(t, 3857, tr.to)
	assert.Equal(t, []float64{101, 2}, got[0].Point.FlatCoords())
	assert.Equal(t, []float64{105, 6}, got[2].Point.FlatCoords())
	assert.Equal(t, 3857, got[1].Point.SRID())
}

func TestAttachGeometry_MissingField(t *testing.T) {
	records := []Record{
		{"x": 1.0, "y": 2.0},
		{"x": 3.0},
	}
	_, err := AttachGeometry(records, "x", "y", 4326, 0, nil)
	require.Error(t, err)

	var schemaErr *errs.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "y", schemaErr.Field)
	assert.Equal(t, 1, schemaErr.Index)
}

func TestAttachGeometry_NilCoordinateIsMissing(t *testing.T) {
	records := []Record{{"x": nil, "y": 2.0}}
	_, err := AttachGeometry(records, "x", "y", 4326, 0, nil)
	var schemaErr *errs.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "x", schemaErr.Field)
}

func TestAttachGeometry_StringCoordinates(t *testing.T) {
	records := []Record{{"x": "-80.5", "y": "32.25"}}
	got, err := AttachGeometry(records, "x", "y", 4326, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{-80.5, 32.25}, got[0].Point.FlatCoords())
}

func TestAttachGeometry_NoTransformerConfigured(t *testing.T) {
	records := []Record{{"x": 1.0, "y": 2.0}}
	_, err := AttachGeometry(records, "x", "y", 4326, 3857, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no transformer")
}

func TestAttachGeometry_Empty(t *testing.T) {
	got, err := AttachGeometry(nil, "x", "y", 4326, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
