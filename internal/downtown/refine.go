package downtown

import (
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/metroplan/tdm-cli/internal/geometry"
	"github.com/metroplan/tdm-cli/internal/model"
)

// FillHoles returns the place zones that are fully enclosed by the cluster:
// every geometric neighbor (among all place zones) is already a member. The
// pass runs exactly once over a snapshot of the cluster — a zone that becomes
// enclosed only because another hole was filled in the same pass is not
// absorbed until a later invocation. The caller commits the returned delta.
func FillHoles(zones []model.Zone, placeMembers []int, cluster map[int]bool, neighbors map[int][]int) []int {
	var added []int
	for _, idx := range placeMembers {
		if cluster[idx] {
			continue
		}
		ns := neighbors[idx]
		if len(ns) == 0 {
			continue
		}
		enclosed := true
		for _, n := range ns {
			if !cluster[n] {
				enclosed = false
				break
			}
		}
		if enclosed {
			added = append(added, idx)
		}
	}
	sort.Ints(added)
	return added
}

// ExpandHull iteratively absorbs place zones whose centroid falls inside the
// convex hull of the current cluster. Each iteration recomputes the hull from
// scratch, so membership grows monotonically; the loop stops on convergence
// or after maxIter passes, whichever comes first. Degenerate hulls (fewer
// than three distinct points) end expansion immediately. The caller commits
// the returned delta.
func ExpandHull(zones []model.Zone, placeMembers []int, cluster map[int]bool, maxIter int) []int {
	working := make(map[int]bool, len(cluster))
	for idx := range cluster {
		working[idx] = true
	}

	var added []int
	for iter := 0; iter < maxIter; iter++ {
		hull := clusterHull(zones, working)
		if hull == nil {
			break
		}

		var wave []int
		for _, idx := range placeMembers {
			if working[idx] {
				continue
			}
			c := geometry.Centroid(zones[idx].Geometry)
			if geometry.PointInPolygon(hull, c) {
				wave = append(wave, idx)
			}
		}
		if len(wave) == 0 {
			break
		}
		for _, idx := range wave {
			working[idx] = true
		}
		added = append(added, wave...)
	}
	sort.Ints(added)
	return added
}

// clusterHull returns the convex hull over every member polygon vertex, or
// nil when the member set is empty or degenerate.
func clusterHull(zones []model.Zone, cluster map[int]bool) *geom.Polygon {
	polys := make([]*geom.Polygon, 0, len(cluster))
	for idx := range cluster {
		polys = append(polys, zones[idx].Geometry)
	}
	return geometry.HullOfPolygons(polys)
}
