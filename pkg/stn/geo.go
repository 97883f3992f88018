package stn

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/waterscope/floodwatch/pkg/errs"
)

// Transformer reprojects a batch of 2-D coordinates between EPSG codes.
// Implementations must transform the whole batch with a single setup;
// the transform construction, not the per-point math, dominates cost.
type Transformer interface {
	ReprojectPoints(coords []geom.Coord, fromEPSG, toEPSG int) ([]geom.Coord, error)
}

// GeoRecord pairs a normalized record with its point geometry.
type GeoRecord struct {
	Record Record
	Point  *geom.Point
}

// AttachGeometry builds 2-D points from the named x/y fields of each
// record and reprojects the full batch from sourceEPSG to targetEPSG in
// one Transformer call. A targetEPSG of 0 means "same as source", which
// skips the transformer entirely. Output order matches input order 1:1.
// A record missing either coordinate field fails with a SchemaError.
func AttachGeometry(records []Record, xField, yField string, sourceEPSG, targetEPSG int, tr Transformer) ([]GeoRecord, error) {
	if targetEPSG == 0 {
		targetEPSG = sourceEPSG
	}

	coords := make([]geom.Coord, len(records))
	for i, rec := range records {
		x, err := coordinate(rec, xField, i)
		if err != nil {
			return nil, err
		}
		y, err := coordinate(rec, yField, i)
		if err != nil {
			return nil, err
		}
		coords[i] = geom.Coord{x, y}
	}

	if targetEPSG != sourceEPSG {
		if tr == nil {
			return nil, eris.Errorf("stn: reprojection to EPSG:%d requested but no transformer configured", targetEPSG)
		}
		reprojected, err := tr.ReprojectPoints(coords, sourceEPSG, targetEPSG)
		if err != nil {
			return nil, err
		}
		coords = reprojected
	}

	out := make([]GeoRecord, len(records))
	for i, rec := range records {
		pt := geom.NewPointFlat(geom.XY, []float64{coords[i][0], coords[i][1]})
		pt.SetSRID(targetEPSG)
		out[i] = GeoRecord{Record: rec, Point: pt}
	}
	return out, nil
}

// coordinate extracts a numeric field from a record. STN serves
// coordinates as JSON numbers, but a few records carry them as strings.
func coordinate(rec Record, field string, index int) (float64, error) {
	v, ok := rec[field]
	if !ok || v == nil {
		return 0, &errs.SchemaError{Field: field, Index: index}
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, eris.Wrapf(err, "stn: record %d field %q is not numeric", index, field)
		}
		return f, nil
	default:
		return 0, eris.Errorf("stn: record %d field %q has unsupported type %T", index, field, v)
	}
}
