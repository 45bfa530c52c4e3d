package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestTouches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b *geom.Polygon
		want bool
	}{
		{"shared edge", square(0, 0), square(1, 0), true},
		{"shared corner", square(0, 0), square(1, 1), true},
		{"overlapping", square(0, 0), square(0.5, 0.5), true},
		{"contained", squareWithHole(), square(2.5, 2.5), true},
		{"disjoint horizontally", square(0, 0), square(2, 0), false},
		{"disjoint diagonally", square(0, 0), square(2, 2), false},
		{"nil operand", square(0, 0), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Touches(tt.a, tt.b))
			assert.Equal(t, tt.want, Touches(tt.b, tt.a))
		})
	}
}

func TestPointInPolygon(t *testing.T) {
	t.Parallel()

	sq := square(0, 0)
	tests := []struct {
		name string
		c    geom.Coord
		want bool
	}{
		{"interior", geom.Coord{0.5, 0.5}, true},
		{"boundary edge", geom.Coord{0, 0.5}, true},
		{"boundary vertex", geom.Coord{1, 1}, true},
		{"outside", geom.Coord{1.5, 0.5}, false},
		{"outside bbox", geom.Coord{-3, -3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PointInPolygon(sq, tt.c))
		})
	}

	t.Run("point in hole is outside", func(t *testing.T) {
		t.Parallel()
		p := squareWithHole()
		assert.False(t, PointInPolygon(p, geom.Coord{1.5, 1.5}))
		assert.True(t, PointInPolygon(p, geom.Coord{3, 3}))
		// Hole boundary still counts as boundary.
		assert.True(t, PointInPolygon(p, geom.Coord{1, 1.5}))
	})

	t.Run("nil polygon", func(t *testing.T) {
		t.Parallel()
		assert.False(t, PointInPolygon(nil, geom.Coord{0, 0}))
	})
}

func TestDistanceToPolygon(t *testing.T) {
	t.Parallel()

	sq := square(0, 0)

	assert.Zero(t, DistanceToPolygon(geom.Coord{0.5, 0.5}, sq))
	assert.Zero(t, DistanceToPolygon(geom.Coord{1, 0.5}, sq))
	assert.InDelta(t, 1.0, DistanceToPolygon(geom.Coord{2, 0.5}, sq), 1e-9)
	// Nearest feature is the corner (1,1).
	assert.InDelta(t, math.Sqrt2, DistanceToPolygon(geom.Coord{2, 2}, sq), 1e-9)
	assert.True(t, math.IsInf(DistanceToPolygon(geom.Coord{0, 0}, nil), 1))
}

func TestSegmentsIntersect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		p1, p2, p3, p4 geom.Coord
		want           bool
	}{
		{"crossing", geom.Coord{0, 0}, geom.Coord{2, 2}, geom.Coord{0, 2}, geom.Coord{2, 0}, true},
		{"endpoint touch", geom.Coord{0, 0}, geom.Coord{1, 1}, geom.Coord{1, 1}, geom.Coord{2, 0}, true},
		{"collinear overlap", geom.Coord{0, 0}, geom.Coord{2, 0}, geom.Coord{1, 0}, geom.Coord{3, 0}, true},
		{"collinear disjoint", geom.Coord{0, 0}, geom.Coord{1, 0}, geom.Coord{2, 0}, geom.Coord{3, 0}, false},
		{"parallel", geom.Coord{0, 0}, geom.Coord{2, 0}, geom.Coord{0, 1}, geom.Coord{2, 1}, false},
		{"near miss", geom.Coord{0, 0}, geom.Coord{1, 1}, geom.Coord{1.1, 1.1}, geom.Coord{2, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, segmentsIntersect(tt.p1, tt.p2, tt.p3, tt.p4))
		})
	}
}
