// Package lisa computes Local Indicators of Spatial Association (local
// Moran's I) over a numeric attribute and a contiguity structure, with
// conditional-permutation pseudo p-values.
//
// The implementation follows the standard row-standardized formulation. It
// makes no claim of statistical rigor beyond reproducibility: permutations
// are seeded so identical inputs yield identical classifications.
package lisa

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"

	"github.com/metroplan/tdm-cli/internal/model"
)

// Result holds the per-element LISA outputs consumed by the pipeline.
type Result struct {
	Quadrant model.Quadrant
	PValue   float64
	Moran    float64
}

// Classifier computes local Moran statistics with permutation significance.
type Classifier struct {
	permutations int
	seed         int64
}

// New returns a Classifier running the given number of conditional
// permutations per element. permutations <= 0 defaults to 999.
func New(permutations int, seed int64) *Classifier {
	if permutations <= 0 {
		permutations = 999
	}
	return &Classifier{permutations: permutations, seed: seed}
}

// Classify computes the local Moran statistic, quadrant, and pseudo p-value
// for each value. neighbors[i] lists the indices contiguous to element i;
// weights are row-standardized. Elements with no neighbors come back
// NotSignificant with p = 1.
func (c *Classifier) Classify(values []float64, neighbors [][]int) ([]Result, error) {
	n := len(values)
	if n != len(neighbors) {
		return nil, eris.Errorf("lisa: %d values but %d neighbor lists", n, len(neighbors))
	}

	results := make([]Result, n)
	if n < 2 {
		for i := range results {
			results[i] = Result{Quadrant: model.QuadrantNotSignificant, PValue: 1}
		}
		return results, nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	dev := make([]float64, n)
	var m2 float64
	for i, v := range values {
		dev[i] = v - mean
		m2 += dev[i] * dev[i]
	}
	m2 /= float64(n)
	if m2 == 0 {
		for i := range results {
			results[i] = Result{Quadrant: model.QuadrantNotSignificant, PValue: 1}
		}
		return results, nil
	}

	for i := 0; i < n; i++ {
		k := len(neighbors[i])
		if k == 0 {
			results[i] = Result{Quadrant: model.QuadrantNotSignificant, PValue: 1}
			continue
		}

		var lag float64
		for _, j := range neighbors[i] {
			lag += dev[j]
		}
		lag /= float64(k)

		observed := dev[i] / m2 * lag
		results[i] = Result{
			Quadrant: quadrant(dev[i], lag),
			PValue:   c.permutationP(i, dev, k, m2, observed),
			Moran:    observed,
		}
	}
	return results, nil
}

// quadrant maps the deviation/lag signs to a cluster quadrant. Zero
// deviations land in the low branches, matching the convention that exactly
// average values are not "high".
func quadrant(dev, lag float64) model.Quadrant {
	switch {
	case dev > 0 && lag > 0:
		return model.QuadrantHighHigh
	case dev > 0:
		return model.QuadrantHighLow
	case lag > 0:
		return model.QuadrantLowHigh
	default:
		return model.QuadrantLowLow
	}
}

// permutationP runs conditional permutations for element i: dev[i] is held
// fixed while k neighbor deviations are drawn from the remaining elements.
// The pseudo p-value is one-sided in the direction of the observed statistic.
func (c *Classifier) permutationP(i int, dev []float64, k int, m2, observed float64) float64 {
	n := len(dev)
	pool := make([]float64, 0, n-1)
	for j, d := range dev {
		if j != i {
			pool = append(pool, d)
		}
	}
	if k > len(pool) {
		k = len(pool)
	}

	rng := rand.New(rand.NewSource(c.seed + int64(i)))
	extreme := 0
	for p := 0; p < c.permutations; p++ {
		// Partial Fisher-Yates: draw k values without replacement.
		var lag float64
		for d := 0; d < k; d++ {
			swap := d + rng.Intn(len(pool)-d)
			pool[d], pool[swap] = pool[swap], pool[d]
			lag += pool[d]
		}
		lag /= float64(k)

		sim := dev[i] / m2 * lag
		if observed >= 0 && sim >= observed {
			extreme++
		} else if observed < 0 && sim <= observed {
			extreme++
		}
	}
	p := float64(extreme+1) / float64(c.permutations+1)
	return math.Min(p, 1)
}
