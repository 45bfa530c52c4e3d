package geometry

import (
	"sort"

	"github.com/twpayne/go-geom"
)

// ConvexHull returns the convex hull of a point set as a polygon, using the
// Andrew monotone chain. Returns nil when the input has fewer than three
// distinct non-collinear points, which callers treat as "no hull".
func ConvexHull(points []geom.Coord) *geom.Polygon {
	hull := hullRing(points)
	if len(hull) < 3 {
		return nil
	}

	flat := make([]float64, 0, (len(hull)+1)*2)
	for _, c := range hull {
		flat = append(flat, c[0], c[1])
	}
	// Close the ring.
	flat = append(flat, hull[0][0], hull[0][1])
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)})
}

// HullOfPolygons returns the convex hull of every vertex of the given
// polygons. Nil entries are skipped.
func HullOfPolygons(polys []*geom.Polygon) *geom.Polygon {
	var points []geom.Coord
	for _, p := range polys {
		if p == nil || p.NumLinearRings() == 0 {
			continue
		}
		points = append(points, ringCoords(p, 0)...)
	}
	return ConvexHull(points)
}

// hullRing computes the hull vertices in counter-clockwise order without
// closing the ring.
func hullRing(points []geom.Coord) []geom.Coord {
	pts := make([]geom.Coord, 0, len(points))
	seen := make(map[[2]float64]struct{}, len(points))
	for _, c := range points {
		key := [2]float64{c[0], c[1]}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		pts = append(pts, geom.Coord{c[0], c[1]})
	}
	if len(pts) < 3 {
		return nil
	}

	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	var lower []geom.Coord
	for _, p := range pts {
		for len(lower) >= 2 && orient(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []geom.Coord
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && orient(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}
	return hull
}
