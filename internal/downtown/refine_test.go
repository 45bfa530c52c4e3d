package downtown

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/metroplan/tdm-cli/internal/model"
)

func clusterSet(members ...int) map[int]bool {
	set := make(map[int]bool, len(members))
	for _, idx := range members {
		set[idx] = true
	}
	return set
}

// buildSquares places one unit-square zone per coordinate pair.
func buildSquares(place string, corners [][2]float64) []model.Zone {
	zones := make([]model.Zone, 0, len(corners))
	for i, c := range corners {
		id := fmt.Sprintf("%s-%d", place, i)
		zones = append(zones, squareZone(id, place, c[0], c[1], 1))
	}
	return zones
}

func TestFillHoles(t *testing.T) {
	t.Parallel()

	t.Run("enclosed center absorbed", func(t *testing.T) {
		t.Parallel()
		zones := gridZones("p", 3, 3, flatEmployment(1))
		neighbors := BuildNeighbors(zones, indices(9))
		cluster := clusterSet(0, 1, 2, 3, 5, 6, 7, 8) // all but the center

		added := FillHoles(zones, indices(9), cluster, neighbors)
		assert.Equal(t, []int{4}, added)
	})

	t.Run("row-end zone with all neighbors inside absorbed", func(t *testing.T) {
		t.Parallel()
		// Zone 2's only neighbor is zone 1; enclosure is purely adjacency,
		// so the end of the row counts too.
		zones := gridZones("p", 3, 1, flatEmployment(1))
		neighbors := BuildNeighbors(zones, indices(3))
		cluster := clusterSet(0, 1)

		added := FillHoles(zones, indices(3), cluster, neighbors)
		assert.Equal(t, []int{2}, added)
	})

	t.Run("zone with no neighbors skipped", func(t *testing.T) {
		t.Parallel()
		zones := buildSquares("p", [][2]float64{{0, 0}, {10, 10}})
		neighbors := BuildNeighbors(zones, indices(2))
		cluster := clusterSet(0)

		added := FillHoles(zones, indices(2), cluster, neighbors)
		assert.Empty(t, added)
	})

	t.Run("multi-zone hole is not absorbed in one pass", func(t *testing.T) {
		t.Parallel()
		// 4x3 grid with a two-zone interior hole. Each hole zone has the
		// other as an unassigned neighbor, so neither is enclosed, and a
		// repeat pass over the same snapshot changes nothing.
		zones := gridZones("p", 4, 3, flatEmployment(1))
		neighbors := BuildNeighbors(zones, indices(12))
		hole1, hole2 := 1*4+1, 1*4+2
		var members []int
		for i := 0; i < 12; i++ {
			if i != hole1 && i != hole2 {
				members = append(members, i)
			}
		}
		cluster := clusterSet(members...)

		added := FillHoles(zones, indices(12), cluster, neighbors)
		assert.Empty(t, added)

		again := FillHoles(zones, indices(12), cluster, neighbors)
		assert.Empty(t, again)
	})

	t.Run("delta excludes existing members", func(t *testing.T) {
		t.Parallel()
		zones := gridZones("p", 3, 3, flatEmployment(1))
		neighbors := BuildNeighbors(zones, indices(9))
		cluster := clusterSet(0, 1, 2, 3, 5, 6, 7, 8)

		added := FillHoles(zones, indices(9), cluster, neighbors)
		for _, idx := range added {
			assert.False(t, cluster[idx])
		}
	})
}

func TestExpandHull(t *testing.T) {
	t.Parallel()

	t.Run("zone inside the hull absorbed", func(t *testing.T) {
		t.Parallel()
		// Two squares with a gap: the hull spans the gap, so the middle
		// zone's centroid falls inside and it is absorbed. The zone above
		// stays out.
		zones := buildSquares("p", [][2]float64{{0, 0}, {2, 0}, {1, 0}, {0, 2}})
		cluster := clusterSet(0, 1)

		added := ExpandHull(zones, indices(4), cluster, 5)
		assert.Equal(t, []int{2}, added)
	})

	t.Run("converges when nothing new falls inside", func(t *testing.T) {
		t.Parallel()
		zones := buildSquares("p", [][2]float64{{0, 0}, {2, 0}, {1, 0}})
		cluster := clusterSet(0, 1, 2)

		added := ExpandHull(zones, indices(3), cluster, 10)
		assert.Empty(t, added)
	})

	t.Run("zero iterations adds nothing", func(t *testing.T) {
		t.Parallel()
		zones := buildSquares("p", [][2]float64{{0, 0}, {2, 0}, {1, 0}})
		cluster := clusterSet(0, 1)

		assert.Empty(t, ExpandHull(zones, indices(3), cluster, 0))
	})

	t.Run("empty cluster has no hull", func(t *testing.T) {
		t.Parallel()
		zones := buildSquares("p", [][2]float64{{0, 0}, {5, 5}})

		assert.Empty(t, ExpandHull(zones, indices(2), clusterSet(), 5))
	})

	t.Run("input set untouched", func(t *testing.T) {
		t.Parallel()
		zones := buildSquares("p", [][2]float64{{0, 0}, {2, 0}, {1, 0}, {0, 2}})
		cluster := clusterSet(0, 1)

		added := ExpandHull(zones, indices(4), cluster, 5)
		for _, idx := range added {
			assert.False(t, cluster[idx], "returned an existing member %d", idx)
		}
		assert.Equal(t, clusterSet(0, 1), cluster)
	})
}
