package zoneio

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/metroplan/tdm-cli/internal/model"
)

func testPolygon() *geom.Polygon {
	return geom.NewPolygonFlat(geom.XY, []float64{
		0, 0, 1, 0, 1, 1, 0, 1, 0, 0,
	}, []int{10})
}

func TestWriteGeoJSON(t *testing.T) {
	t.Parallel()

	zones := []model.Zone{
		{
			ID:         "z1",
			PlaceID:    "springfield",
			Employment: 120,
			Geometry:   testPolygon(),
			Category:   model.CategoryCore,
			Quadrant:   model.QuadrantHighHigh,
			PValue:     0.01,
		},
		{ID: "z2", Geometry: nil}, // no geometry, skipped
	}

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, zones))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, "z1", f.ID)
	assert.Equal(t, "Polygon", f.Geometry.Type)
	assert.Equal(t, "z1", f.Properties["zone_id"])
	assert.Equal(t, "springfield", f.Properties["place_id"])
	assert.InDelta(t, 120.0, f.Properties["employment"].(float64), 1e-9)
	assert.InDelta(t, 1.0, f.Properties["category"].(float64), 1e-9)
	assert.Equal(t, "HH", f.Properties["quadrant"])
	assert.InDelta(t, 0.01, f.Properties["p_value"].(float64), 1e-9)
}

func TestWriteGeoJSON_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, nil))

	var fc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])
}
