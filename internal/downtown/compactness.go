package downtown

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/metroplan/tdm-cli/internal/geometry"
	"github.com/metroplan/tdm-cli/internal/model"
)

// Report holds the shape diagnostics for one place's finalized core. The
// numbers are reported only; nothing reads them back into zone state.
type Report struct {
	Place             string  `json:"place"`
	ClusterZones      int     `json:"cluster_zones"`
	ClusterEmployment float64 `json:"cluster_employment"`

	// Components is the connected-component count of the final cluster;
	// ideally 1.
	Components int `json:"components"`

	// AreaRatio is cluster area over convex-hull area; 1.0 is perfectly
	// convex.
	AreaRatio float64 `json:"area_ratio"`

	// PerimeterEfficiency is 4π·area / perimeter²; 1.0 is a circle.
	PerimeterEfficiency float64 `json:"perimeter_efficiency"`

	// RadiusOfGyration is the employment-weighted RMS distance of the
	// pre-refinement candidate zones from their weighted centroid. It
	// characterizes the detected hot-spot, not the expanded boundary.
	RadiusOfGyration float64 `json:"radius_of_gyration"`

	// NormalizedDispersion is the mean member-centroid distance over the
	// radius of gyration.
	NormalizedDispersion float64 `json:"normalized_dispersion"`
}

// Evaluate computes the compactness report for a finalized cluster.
// candidates is the pre-refinement candidate set the radius of gyration is
// anchored to; neighbors must cover the cluster members.
func Evaluate(zones []model.Zone, place string, cluster, candidates []int, neighbors map[int][]int) (Report, error) {
	r := Report{Place: place, ClusterZones: len(cluster)}
	if len(cluster) == 0 {
		return r, nil
	}

	comps, err := Components(cluster, neighbors)
	if err != nil {
		return r, err
	}
	r.Components = len(comps)

	polys := make([]*geom.Polygon, 0, len(cluster))
	var area float64
	for _, idx := range cluster {
		polys = append(polys, zones[idx].Geometry)
		area += zones[idx].Area
		r.ClusterEmployment += zones[idx].Employment
	}

	if hull := geometry.HullOfPolygons(polys); hull != nil {
		if hullArea := geometry.Area(hull); hullArea > 0 {
			r.AreaRatio = area / hullArea
		}
	}
	if perimeter := geometry.OutlineLength(polys); perimeter > 0 {
		r.PerimeterEfficiency = 4 * math.Pi * area / (perimeter * perimeter)
	}

	center, weight := weightedCentroid(zones, candidates)
	if weight > 0 {
		var sq float64
		for _, idx := range candidates {
			d := centroidDistance(zones[idx].Geometry, center)
			sq += zones[idx].Employment * d * d
		}
		r.RadiusOfGyration = math.Sqrt(sq / weight)

		var mean float64
		for _, idx := range cluster {
			mean += centroidDistance(zones[idx].Geometry, center)
		}
		mean /= float64(len(cluster))
		if r.RadiusOfGyration > 0 {
			r.NormalizedDispersion = mean / r.RadiusOfGyration
		}
	}
	return r, nil
}

// weightedCentroid returns the employment-weighted centroid of the given
// zones' centroids and the total weight.
func weightedCentroid(zones []model.Zone, members []int) (geom.Coord, float64) {
	var sx, sy, w float64
	for _, idx := range members {
		c := geometry.Centroid(zones[idx].Geometry)
		e := zones[idx].Employment
		sx += c[0] * e
		sy += c[1] * e
		w += e
	}
	if w == 0 {
		return geom.Coord{0, 0}, 0
	}
	return geom.Coord{sx / w, sy / w}, w
}

func centroidDistance(p *geom.Polygon, c geom.Coord) float64 {
	z := geometry.Centroid(p)
	return math.Hypot(z[0]-c[0], z[1]-c[1])
}
