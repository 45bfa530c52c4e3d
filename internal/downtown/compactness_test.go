package downtown

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	t.Run("single-zone cluster", func(t *testing.T) {
		t.Parallel()
		zones := gridZones("p", 1, 1, flatEmployment(40))
		neighbors := BuildNeighbors(zones, indices(1))

		report, err := Evaluate(zones, "p", []int{0}, []int{0}, neighbors)
		require.NoError(t, err)

		assert.Equal(t, "p", report.Place)
		assert.Equal(t, 1, report.ClusterZones)
		assert.InDelta(t, 40.0, report.ClusterEmployment, 1e-9)
		assert.Equal(t, 1, report.Components)
		assert.InDelta(t, 1.0, report.AreaRatio, 1e-9)
		// A square scores 4π·1/16 against the circular ideal.
		assert.InDelta(t, math.Pi/4, report.PerimeterEfficiency, 1e-9)
		// One candidate: the weighted centroid is its own centroid.
		assert.Zero(t, report.RadiusOfGyration)
		assert.Zero(t, report.NormalizedDispersion)
	})

	t.Run("two adjacent squares", func(t *testing.T) {
		t.Parallel()
		zones := gridZones("p", 2, 1, flatEmployment(10))
		neighbors := BuildNeighbors(zones, indices(2))

		report, err := Evaluate(zones, "p", []int{0, 1}, []int{0, 1}, neighbors)
		require.NoError(t, err)

		assert.Equal(t, 1, report.Components)
		assert.InDelta(t, 1.0, report.AreaRatio, 1e-9)
		// Union outline is 6; 4π·2/36.
		assert.InDelta(t, 8*math.Pi/36, report.PerimeterEfficiency, 1e-9)
		// Centroids at ±0.5 from the weighted center.
		assert.InDelta(t, 0.5, report.RadiusOfGyration, 1e-9)
		assert.InDelta(t, 1.0, report.NormalizedDispersion, 1e-9)
	})

	t.Run("split cluster counts components", func(t *testing.T) {
		t.Parallel()
		zones := buildSquares("p", [][2]float64{{0, 0}, {5, 0}})
		neighbors := BuildNeighbors(zones, indices(2))

		report, err := Evaluate(zones, "p", []int{0, 1}, []int{0, 1}, neighbors)
		require.NoError(t, err)
		assert.Equal(t, 2, report.Components)
		// Two unit squares in a 6x1 hull.
		assert.InDelta(t, 2.0/6.0, report.AreaRatio, 1e-9)
	})

	t.Run("empty cluster", func(t *testing.T) {
		t.Parallel()
		report, err := Evaluate(nil, "p", nil, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, Report{Place: "p"}, report)
	})

	t.Run("employment weights shift the center", func(t *testing.T) {
		t.Parallel()
		// All weight on zone 1: the gyration center is zone 1's centroid,
		// so zone 1 contributes nothing and zone 0 contributes zero weight.
		zones := buildSquares("p", [][2]float64{{0, 0}, {3, 0}})
		zones[0].Employment = 0
		zones[1].Employment = 100
		neighbors := BuildNeighbors(zones, indices(2))

		report, err := Evaluate(zones, "p", []int{1}, []int{0, 1}, neighbors)
		require.NoError(t, err)
		assert.Zero(t, report.RadiusOfGyration)
	})
}
