package downtown

import (
	"github.com/metroplan/tdm-cli/internal/model"
)

// SelectCluster filters components by minimum zone count and aggregate
// employment, then picks the one with the greatest employment. Ties break to
// the component with the lowest member zone index, so selection is
// deterministic. At most one cluster survives per place; ok is false when no
// component qualifies.
func SelectCluster(zones []model.Zone, components [][]int, cfg Config) (cluster []int, ok bool) {
	bestEmployment := -1.0
	bestMin := -1

	for _, comp := range components {
		if len(comp) < cfg.MinClusterZones {
			continue
		}
		var employment float64
		for _, idx := range comp {
			employment += zones[idx].Employment
		}
		if employment < cfg.MinClusterEmployment {
			continue
		}

		// comp is sorted ascending; comp[0] is its lowest zone index.
		if employment > bestEmployment ||
			(employment == bestEmployment && (bestMin < 0 || comp[0] < bestMin)) {
			bestEmployment = employment
			bestMin = comp[0]
			cluster = comp
		}
	}
	return cluster, cluster != nil
}
