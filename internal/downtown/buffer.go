package downtown

import (
	"sort"

	"github.com/metroplan/tdm-cli/internal/geometry"
	"github.com/metroplan/tdm-cli/internal/model"
)

// AssignBuffer returns the zones whose centroid falls within distance of any
// Core zone, across the whole dataset. Testing centroid distance to the Core
// geometries is equivalent to testing containment in a Euclidean buffer of
// their union. Core zones themselves are never returned; the caller commits
// the delta as Adjacent.
//
// Runs once, strictly after every place's core has been committed.
func AssignBuffer(zones []model.Zone, distance float64) []int {
	var core []int
	for idx, z := range zones {
		if z.Category == model.CategoryCore {
			core = append(core, idx)
		}
	}
	if len(core) == 0 || distance <= 0 {
		return nil
	}

	var added []int
	for idx := range zones {
		z := &zones[idx]
		if z.Category == model.CategoryCore || z.Geometry == nil {
			continue
		}
		c := geometry.Centroid(z.Geometry)
		for _, ci := range core {
			g := zones[ci].Geometry
			cb := g.Bounds()
			// Cheap reject: centroid farther than distance from the bbox.
			if c[0] < cb.Min(0)-distance || c[0] > cb.Max(0)+distance ||
				c[1] < cb.Min(1)-distance || c[1] > cb.Max(1)+distance {
				continue
			}
			if geometry.DistanceToPolygon(c, g) <= distance {
				added = append(added, idx)
				break
			}
		}
	}
	sort.Ints(added)
	return added
}
