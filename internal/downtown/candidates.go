package downtown

import (
	"sort"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"
	"github.com/rotisserie/eris"

	"github.com/metroplan/tdm-cli/internal/model"
)

// IsCandidate reports whether a zone qualifies as a high-value cluster seed:
// High-High or High-Low quadrant, significant at alpha.
func IsCandidate(z model.Zone, alpha float64) bool {
	switch z.Quadrant {
	case model.QuadrantHighHigh, model.QuadrantHighLow:
		return z.PValue <= alpha
	case model.QuadrantLowHigh, model.QuadrantLowLow, model.QuadrantNotSignificant:
		return false
	default:
		return false
	}
}

// Components returns the connected components of the contiguity graph
// restricted to the given candidate zones. Components and their members are
// sorted ascending by zone index, so output order is reproducible. Zero
// candidates yield an empty list, which the caller treats as "no downtown".
func Components(candidates []int, neighbors map[int][]int) ([][]int, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	member := make(map[int]bool, len(candidates))
	for _, idx := range candidates {
		member[idx] = true
	}

	g, err := core.NewGraph()
	if err != nil {
		return nil, eris.Wrap(err, "downtown: new graph")
	}
	for _, idx := range candidates {
		if err := g.AddVertex(vertexID(idx)); err != nil {
			return nil, eris.Wrapf(err, "downtown: add vertex %d", idx)
		}
	}
	for _, idx := range candidates {
		for _, n := range neighbors[idx] {
			if !member[n] || n <= idx {
				continue
			}
			if _, err := g.AddEdge(vertexID(idx), vertexID(n), 0); err != nil {
				return nil, eris.Wrapf(err, "downtown: add edge %d-%d", idx, n)
			}
		}
	}

	ordered := make([]int, len(candidates))
	copy(ordered, candidates)
	sort.Ints(ordered)

	visited := make(map[int]bool, len(candidates))
	var components [][]int
	for _, idx := range ordered {
		if visited[idx] {
			continue
		}
		res, err := bfs.BFS(g, vertexID(idx))
		if err != nil {
			return nil, eris.Wrapf(err, "downtown: traverse component at %d", idx)
		}

		comp := make([]int, 0, len(res.Order))
		for _, id := range res.Order {
			z, convErr := strconv.Atoi(id)
			if convErr != nil {
				return nil, eris.Wrapf(convErr, "downtown: bad vertex id %q", id)
			}
			visited[z] = true
			comp = append(comp, z)
		}
		sort.Ints(comp)
		components = append(components, comp)
	}
	return components, nil
}

func vertexID(idx int) string {
	return strconv.Itoa(idx)
}
