// Package crs implements batch coordinate reprojection between EPSG codes.
package crs

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/wroge/wgs84"
)

// EPSGTransformer reprojects coordinates using the wgs84 EPSG repository.
// It satisfies stn.Transformer. The transform func is built once per
// batch; per-point application is cheap after that.
type EPSGTransformer struct{}

// NewEPSGTransformer returns a ready-to-use transformer.
func NewEPSGTransformer() *EPSGTransformer { return &EPSGTransformer{} }

// ReprojectPoints transforms all coords from fromEPSG to toEPSG in one
// pass. When the codes are equal it returns a copy untouched. Unsupported
// codes and out-of-range coordinates surface as an error rather than NaN
// coordinates leaking into downstream geometry.
func (EPSGTransformer) ReprojectPoints(coords []geom.Coord, fromEPSG, toEPSG int) ([]geom.Coord, error) {
	out := make([]geom.Coord, len(coords))
	if fromEPSG == toEPSG {
		for i, c := range coords {
			out[i] = geom.Coord{c[0], c[1]}
		}
		return out, nil
	}

	transform := wgs84.EPSG().Transform(fromEPSG, toEPSG)
	for i, c := range coords {
		x, y, _ := transform(c[0], c[1], 0)
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			return nil, eris.Errorf("crs: cannot transform point %d from EPSG:%d to EPSG:%d", i, fromEPSG, toEPSG)
		}
		out[i] = geom.Coord{x, y}
	}
	return out, nil
}
