// Package geometry implements the planar primitives the delineation pipeline
// needs over go-geom polygons: contiguity, area, perimeter, centroids,
// convex hulls, containment, and point-to-polygon distance.
//
// All math is planar; inputs are expected in a projected coordinate system
// with a linear unit. Geographic (lon/lat) inputs will produce distorted
// distances, which the loader warns about but does not reject.
package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Area returns the unsigned area of a polygon: the exterior ring minus any
// holes. Holes must be wound opposite the exterior, as in any valid
// shapefile or GeoJSON ring set.
func Area(p *geom.Polygon) float64 {
	if p == nil || p.NumLinearRings() == 0 {
		return 0
	}
	return math.Abs(p.Area())
}

// Perimeter returns the total boundary length of a polygon, holes included.
func Perimeter(p *geom.Polygon) float64 {
	if p == nil {
		return 0
	}
	return p.Length()
}

// Centroid returns the area-weighted centroid of a polygon. Holes subtract
// from the weighting. Degenerate (zero-area) polygons fall back to the
// length-weighted centroid of their boundary, or the mean of their exterior
// vertices when the boundary has no length.
func Centroid(p *geom.Polygon) geom.Coord {
	if p == nil || p.NumLinearRings() == 0 {
		return geom.Coord{0, 0}
	}
	// xy.PolygonsCentroid needs at least three ring points besides the
	// closing one.
	if p.LinearRing(0).NumCoords() < 4 {
		return vertexMean(ringCoords(p, 0))
	}
	c := xy.PolygonsCentroid(p)
	if math.IsNaN(c[0]) || math.IsNaN(c[1]) {
		return vertexMean(ringCoords(p, 0))
	}
	return geom.Coord{c[0], c[1]}
}

// ringCoords returns ring i of p as coordinate pairs, without assuming the
// ring is explicitly closed.
func ringCoords(p *geom.Polygon, i int) []geom.Coord {
	return p.LinearRing(i).Coords()
}

func vertexMean(ring []geom.Coord) geom.Coord {
	if len(ring) == 0 {
		return geom.Coord{0, 0}
	}
	var sx, sy float64
	for _, c := range ring {
		sx += c[0]
		sy += c[1]
	}
	n := float64(len(ring))
	return geom.Coord{sx / n, sy / n}
}

// BoundsOverlap reports whether the bounding boxes of a and b overlap or
// touch, with an optional padding distance applied to a's box. Inclusive at
// the edges so shared-boundary polygons prefilter as neighbors.
func BoundsOverlap(a, b *geom.Bounds, pad float64) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Min(0)-pad <= b.Max(0) && b.Min(0) <= a.Max(0)+pad &&
		a.Min(1)-pad <= b.Max(1) && b.Min(1) <= a.Max(1)+pad
}
