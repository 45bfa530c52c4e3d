package zoneio

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/metroplan/tdm-cli/internal/model"
)

// WriteGeoJSON writes the categorized zone table as a GeoJSON
// FeatureCollection, one feature per zone with the delineation outputs as
// properties.
func WriteGeoJSON(w io.Writer, zones []model.Zone) error {
	fc := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(zones)),
	}
	for i := range zones {
		z := &zones[i]
		if z.Geometry == nil {
			continue
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:       z.ID,
			Geometry: z.Geometry,
			Properties: map[string]interface{}{
				"zone_id":    z.ID,
				"place_id":   z.PlaceID,
				"employment": z.Employment,
				"category":   int(z.Category),
				"quadrant":   z.Quadrant.String(),
				"p_value":    z.PValue,
			},
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(&fc); err != nil {
		return eris.Wrap(err, "zoneio: encode geojson")
	}
	return nil
}
