package zoneio

import (
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metroplan/tdm-cli/internal/geometry"
)

func TestShapeToPolygon(t *testing.T) {
	t.Parallel()

	t.Run("single part", func(t *testing.T) {
		t.Parallel()
		shape := &shp.Polygon{
			NumParts:  1,
			NumPoints: 5,
			Parts:     []int32{0},
			Points: []shp.Point{
				{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 0}, {X: 0, Y: 0},
			},
		}
		poly, ok := shapeToPolygon(shape)
		require.True(t, ok)
		assert.Equal(t, 1, poly.NumLinearRings())
		assert.InDelta(t, 4.0, geometry.Area(poly), 1e-9)
	})

	t.Run("second part becomes a hole", func(t *testing.T) {
		t.Parallel()
		shape := &shp.Polygon{
			NumParts:  2,
			NumPoints: 10,
			Parts:     []int32{0, 5},
			Points: []shp.Point{
				// 4x4 exterior
				{X: 0, Y: 0}, {X: 0, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 0}, {X: 0, Y: 0},
				// 1x1 hole
				{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2}, {X: 1, Y: 1},
			},
		}
		poly, ok := shapeToPolygon(shape)
		require.True(t, ok)
		assert.Equal(t, 2, poly.NumLinearRings())
		assert.InDelta(t, 15.0, geometry.Area(poly), 1e-9)
	})

	t.Run("rejects non-polygon shapes", func(t *testing.T) {
		t.Parallel()
		_, ok := shapeToPolygon(&shp.Point{X: 1, Y: 1})
		assert.False(t, ok)
	})

	t.Run("rejects empty polygons", func(t *testing.T) {
		t.Parallel()
		_, ok := shapeToPolygon(&shp.Polygon{})
		assert.False(t, ok)

		var nilPoly *shp.Polygon
		_, ok = shapeToPolygon(nilPoly)
		assert.False(t, ok)
	})
}

func TestReadShapefile_Errors(t *testing.T) {
	t.Parallel()

	t.Run("id field required", func(t *testing.T) {
		t.Parallel()
		_, err := ReadShapefile("whatever.shp", ShapefileOptions{})
		assert.ErrorContains(t, err, "id field")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "missing.shp")
		_, err := ReadShapefile(path, ShapefileOptions{IDField: "MAZ"})
		assert.Error(t, err)
	})
}
