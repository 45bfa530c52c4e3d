package geometry

import (
	"math"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// OutlineLength returns the boundary length of the union of a set of
// polygons drawn from a common tessellation. Edges shared by two or more
// polygons are interior to the union and cancel; edges appearing exactly
// once form the outline.
//
// This relies on neighboring zones sharing identical edge vertices, which
// holds for zone systems cut from one source layer. Edges split
// inconsistently between neighbors are counted as boundary, overstating the
// length slightly; the result feeds diagnostics only.
func OutlineLength(polys []*geom.Polygon) float64 {
	counts := make(map[string]int)
	lengths := make(map[string]float64)

	for _, p := range polys {
		if p == nil {
			continue
		}
		for i := 0; i < p.NumLinearRings(); i++ {
			ring := ringCoords(p, i)
			n := len(ring)
			if n < 2 {
				continue
			}
			for j := 0; j < n; j++ {
				a, b := ring[j], ring[(j+1)%n]
				if a[0] == b[0] && a[1] == b[1] {
					continue
				}
				key := segmentKey(a, b)
				counts[key]++
				if counts[key] == 1 {
					lengths[key] = math.Hypot(b[0]-a[0], b[1]-a[1])
				}
			}
		}
	}

	var length float64
	for key, n := range counts {
		if n == 1 {
			length += lengths[key]
		}
	}
	return length
}

// segmentKey canonicalizes a segment so that the two traversal directions
// map to the same key.
func segmentKey(a, b geom.Coord) string {
	ka := coordKey(a)
	kb := coordKey(b)
	if kb < ka {
		ka, kb = kb, ka
	}
	var sb strings.Builder
	sb.WriteString(ka)
	sb.WriteByte('|')
	sb.WriteString(kb)
	return sb.String()
}

func coordKey(c geom.Coord) string {
	return strconv.FormatFloat(c[0], 'g', -1, 64) + "," + strconv.FormatFloat(c[1], 'g', -1, 64)
}
