package downtown

import (
	"sort"

	"github.com/metroplan/tdm-cli/internal/model"
)

// FilterAreaOutliers drops zones whose area strictly exceeds the pct
// percentile of the member area distribution. The zones stay in the dataset;
// they are only removed from this place's clustering input. An empty result
// is possible and the caller treats it as "no core for this place".
func FilterAreaOutliers(zones []model.Zone, members []int, pct float64) []int {
	if len(members) == 0 {
		return nil
	}

	areas := make([]float64, len(members))
	for i, idx := range members {
		areas[i] = zones[idx].Area
	}
	sort.Float64s(areas)
	cutoff := percentile(areas, pct)

	kept := make([]int, 0, len(members))
	for _, idx := range members {
		if zones[idx].Area > cutoff {
			continue
		}
		kept = append(kept, idx)
	}
	return kept
}

// percentile returns the pct quantile (0..1) of an ascending-sorted slice
// using linear interpolation between order statistics.
func percentile(sorted []float64, pct float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 1 {
		return sorted[n-1]
	}

	rank := pct * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
