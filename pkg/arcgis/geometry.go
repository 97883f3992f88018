package arcgis

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// esriGeometry covers the esri JSON geometry variants a MapServer layer
// query can return: points carry x/y, polylines carry paths, polygons
// carry rings.
type esriGeometry struct {
	X     *float64      `json:"x"`
	Y     *float64      `json:"y"`
	Paths [][][]float64 `json:"paths"`
	Rings [][][]float64 `json:"rings"`
}

// toGeom converts esri JSON geometry to go-geom with the given SRID.
// Nil geometry (returnGeometry=false, or tables) yields nil.
func (e *esriGeometry) toGeom(srid int) (geom.T, error) {
	if e == nil {
		return nil, nil
	}

	switch {
	case e.X != nil && e.Y != nil:
		pt := geom.NewPointFlat(geom.XY, []float64{*e.X, *e.Y})
		pt.SetSRID(srid)
		return pt, nil

	case len(e.Paths) > 0:
		mls := geom.NewMultiLineString(geom.XY)
		mls.SetSRID(srid)
		for _, path := range e.Paths {
			ls := geom.NewLineStringFlat(geom.XY, flatten(path))
			if err := mls.Push(ls); err != nil {
				return nil, eris.Wrap(err, "arcgis: assemble polyline")
			}
		}
		return mls, nil

	case len(e.Rings) > 0:
		// Esri polygons list exterior and hole rings flat; orientation
		// decides which is which. Keeping each ring as its own polygon
		// within a multipolygon preserves the coordinates without
		// winding analysis, which callers doing area math can apply.
		mp := geom.NewMultiPolygon(geom.XY)
		mp.SetSRID(srid)
		for _, ring := range e.Rings {
			lr := geom.NewLinearRingFlat(geom.XY, flatten(ring))
			poly := geom.NewPolygon(geom.XY)
			if err := poly.Push(lr); err != nil {
				return nil, eris.Wrap(err, "arcgis: assemble ring")
			}
			if err := mp.Push(poly); err != nil {
				return nil, eris.Wrap(err, "arcgis: assemble polygon")
			}
		}
		return mp, nil

	default:
		return nil, nil
	}
}

func flatten(coords [][]float64) []float64 {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	return flat
}
