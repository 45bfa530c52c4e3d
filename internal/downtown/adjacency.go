package downtown

import (
	"sort"

	"github.com/metroplan/tdm-cli/internal/geometry"
	"github.com/metroplan/tdm-cli/internal/model"
)

// BuildNeighbors computes contiguity among the given zone indices: two zones
// are neighbors when their polygons touch or intersect. Neighbor lists are
// arena-style (zone index → sorted zone indices) and symmetric.
//
// A plane sweep over bounding boxes keeps the pairwise predicate off most
// pairs; candidate counts per place are small enough that the remainder is
// effectively quadratic and still cheap.
func BuildNeighbors(zones []model.Zone, members []int) map[int][]int {
	neighbors := make(map[int][]int, len(members))
	for _, idx := range members {
		neighbors[idx] = nil
	}

	// Sort by bbox min-x for the sweep.
	order := make([]int, len(members))
	copy(order, members)
	sort.Slice(order, func(i, j int) bool {
		bi := zones[order[i]].Geometry.Bounds()
		bj := zones[order[j]].Geometry.Bounds()
		if bi.Min(0) != bj.Min(0) {
			return bi.Min(0) < bj.Min(0)
		}
		return order[i] < order[j]
	})

	for i, a := range order {
		ba := zones[a].Geometry.Bounds()
		for _, b := range order[i+1:] {
			bb := zones[b].Geometry.Bounds()
			if bb.Min(0) > ba.Max(0) {
				break
			}
			if !geometry.BoundsOverlap(ba, bb, 0) {
				continue
			}
			if geometry.Touches(zones[a].Geometry, zones[b].Geometry) {
				neighbors[a] = append(neighbors[a], b)
				neighbors[b] = append(neighbors[b], a)
			}
		}
	}

	for idx := range neighbors {
		sort.Ints(neighbors[idx])
	}
	return neighbors
}

// localNeighbors remaps a neighbor map onto positions within members, for
// consumers that expect dense 0..n-1 adjacency (the LISA classifier).
func localNeighbors(members []int, neighbors map[int][]int) [][]int {
	pos := make(map[int]int, len(members))
	for i, idx := range members {
		pos[idx] = i
	}
	local := make([][]int, len(members))
	for i, idx := range members {
		for _, n := range neighbors[idx] {
			if j, ok := pos[n]; ok {
				local[i] = append(local[i], j)
			}
		}
	}
	return local
}
