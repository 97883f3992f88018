package export

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/waterscope/floodwatch/pkg/arcgis"
	"github.com/waterscope/floodwatch/pkg/stn"
)

// WriteGeoJSON writes geo-referenced records as a GeoJSON
// FeatureCollection. Records without a geometry are skipped; their
// attributes are only meaningful alongside a location.
func WriteGeoJSON(w io.Writer, recs []stn.GeoRecord) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(recs))}
	for _, rec := range recs {
		if rec.Point == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   rec.Point,
			Properties: rec.Record,
		})
	}
	return encodeGeoJSON(w, &fc)
}

// WriteFeaturesGeoJSON writes map service features as a GeoJSON
// FeatureCollection. Features without geometry are skipped.
func WriteFeaturesGeoJSON(w io.Writer, feats []arcgis.Feature) error {
	fc := geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(feats))}
	for _, f := range feats {
		if f.Geometry == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   f.Geometry,
			Properties: f.Attributes,
		})
	}
	return encodeGeoJSON(w, &fc)
}

func encodeGeoJSON(w io.Writer, fc *geojson.FeatureCollection) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "export: encode GeoJSON")
	}
	return nil
}
