// Package downtown delineates the contiguous downtown core of each place
// from zone-level employment: area-outlier filtering, LISA candidate
// selection, contiguity-graph clustering, geometric boundary refinement, a
// global buffer pass, and compactness diagnostics.
package downtown

// Config holds the delineation thresholds. Zero values are replaced by the
// defaults at engine construction.
type Config struct {
	// MinPlaceEmployment is the total employment a place needs to enter
	// clustering at all.
	MinPlaceEmployment float64 `yaml:"min_place_employment" mapstructure:"min_place_employment"`

	// SignificanceLevel is the LISA p-value cutoff for candidate zones.
	SignificanceLevel float64 `yaml:"significance_level" mapstructure:"significance_level"`

	// AreaPercentile is the zone-area quantile above which zones are
	// excluded from a place's clustering input.
	AreaPercentile float64 `yaml:"area_percentile" mapstructure:"area_percentile"`

	// MinClusterZones and MinClusterEmployment filter candidate components.
	MinClusterZones      int     `yaml:"min_cluster_zones" mapstructure:"min_cluster_zones"`
	MinClusterEmployment float64 `yaml:"min_cluster_employment" mapstructure:"min_cluster_employment"`

	// BufferDistance is the adjacent-ring radius in the dataset's linear
	// unit. The default is a quarter mile in metres.
	BufferDistance float64 `yaml:"buffer_distance" mapstructure:"buffer_distance"`

	// MaxHullIterations bounds convex-hull expansion.
	MaxHullIterations int `yaml:"max_hull_iterations" mapstructure:"max_hull_iterations"`
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		MinPlaceEmployment:   100,
		SignificanceLevel:    0.05,
		AreaPercentile:       0.90,
		MinClusterZones:      5,
		MinClusterEmployment: 100,
		BufferDistance:       402.25,
		MaxHullIterations:    10,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinPlaceEmployment == 0 {
		c.MinPlaceEmployment = d.MinPlaceEmployment
	}
	if c.SignificanceLevel == 0 {
		c.SignificanceLevel = d.SignificanceLevel
	}
	if c.AreaPercentile == 0 {
		c.AreaPercentile = d.AreaPercentile
	}
	if c.MinClusterZones == 0 {
		c.MinClusterZones = d.MinClusterZones
	}
	if c.MinClusterEmployment == 0 {
		c.MinClusterEmployment = d.MinClusterEmployment
	}
	if c.BufferDistance == 0 {
		c.BufferDistance = d.BufferDistance
	}
	if c.MaxHullIterations == 0 {
		c.MaxHullIterations = d.MaxHullIterations
	}
	return c
}
