package geometry

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// Touches reports whether two polygons touch or intersect: any shared
// boundary point, edge crossing, or full containment counts. This is the
// contiguity predicate used to build zone adjacency.
func Touches(a, b *geom.Polygon) bool {
	if a == nil || b == nil {
		return false
	}
	if !BoundsOverlap(a.Bounds(), b.Bounds(), 0) {
		return false
	}

	// Any vertex of one inside (or on) the other.
	for i := 0; i < a.NumLinearRings(); i++ {
		for _, c := range ringCoords(a, i) {
			if PointInPolygon(b, c) {
				return true
			}
		}
	}
	for i := 0; i < b.NumLinearRings(); i++ {
		for _, c := range ringCoords(b, i) {
			if PointInPolygon(a, c) {
				return true
			}
		}
	}

	// Any edge pair crossing or touching.
	for i := 0; i < a.NumLinearRings(); i++ {
		ra := ringCoords(a, i)
		for j := 0; j < b.NumLinearRings(); j++ {
			rb := ringCoords(b, j)
			if ringsIntersect(ra, rb) {
				return true
			}
		}
	}
	return false
}

func ringsIntersect(ra, rb []geom.Coord) bool {
	na, nb := len(ra), len(rb)
	if na < 2 || nb < 2 {
		return false
	}
	for i := 0; i < na; i++ {
		a1, a2 := ra[i], ra[(i+1)%na]
		for j := 0; j < nb; j++ {
			if segmentsIntersect(a1, a2, rb[j], rb[(j+1)%nb]) {
				return true
			}
		}
	}
	return false
}

// PointInPolygon reports whether c lies inside p (holes excluded) or exactly
// on its boundary, including hole boundaries. Rings may be wound in either
// direction.
func PointInPolygon(p *geom.Polygon, c geom.Coord) bool {
	if p == nil || p.NumLinearRings() == 0 {
		return false
	}
	b := p.Bounds()
	if c[0] < b.Min(0) || c[0] > b.Max(0) || c[1] < b.Min(1) || c[1] > b.Max(1) {
		return false
	}

	layout := p.Layout()
	if !xy.IsPointInRing(layout, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.LocatePointInRing(layout, c, p.LinearRing(i).FlatCoords()) == location.Interior {
			return false
		}
	}
	return true
}

// DistanceToPolygon returns the planar distance from c to polygon p: zero if
// the point is inside or on the boundary, otherwise the distance to the
// nearest edge.
func DistanceToPolygon(c geom.Coord, p *geom.Polygon) float64 {
	if p == nil || p.NumLinearRings() == 0 {
		return math.Inf(1)
	}
	if PointInPolygon(p, c) {
		return 0
	}
	best := math.Inf(1)
	for i := 0; i < p.NumLinearRings(); i++ {
		ring := ringCoords(p, i)
		n := len(ring)
		for j := 0; j < n; j++ {
			d := pointSegmentDistance(c, ring[j], ring[(j+1)%n])
			if d < best {
				best = d
			}
		}
	}
	return best
}

func pointSegmentDistance(c, a, b geom.Coord) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	if dx == 0 && dy == 0 {
		return math.Hypot(c[0]-a[0], c[1]-a[1])
	}
	t := ((c[0]-a[0])*dx + (c[1]-a[1])*dy) / (dx*dx + dy*dy)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return math.Hypot(c[0]-(a[0]+t*dx), c[1]-(a[1]+t*dy))
}

// segmentsIntersect reports whether segments p1p2 and p3p4 share any point,
// including endpoint touches and collinear overlap.
func segmentsIntersect(p1, p2, p3, p4 geom.Coord) bool {
	d1 := orient(p3, p4, p1)
	d2 := orient(p3, p4, p2)
	d3 := orient(p1, p2, p3)
	d4 := orient(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

// orient returns the sign of the cross product (b-a) x (c-a).
func orient(a, b, c geom.Coord) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// onSegment reports whether c lies on the closed segment ab, assuming the
// three points are (near) collinear or checking collinearity itself.
func onSegment(a, b, c geom.Coord) bool {
	if orient(a, b, c) != 0 {
		return false
	}
	return math.Min(a[0], b[0]) <= c[0] && c[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= c[1] && c[1] <= math.Max(a[1], b[1])
}
