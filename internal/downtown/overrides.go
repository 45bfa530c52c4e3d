package downtown

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Overrides carries optional per-place threshold overrides loaded from a
// YAML file. Fields left unset keep the global configuration. The buffer
// distance is deliberately absent: the buffer pass is global, not per-place.
type Overrides struct {
	Places map[string]PlaceOverride `yaml:"places"`
}

// PlaceOverride adjusts clustering thresholds for a single named place.
type PlaceOverride struct {
	SignificanceLevel    *float64 `yaml:"significance_level"`
	AreaPercentile       *float64 `yaml:"area_percentile"`
	MinClusterZones      *int     `yaml:"min_cluster_zones"`
	MinClusterEmployment *float64 `yaml:"min_cluster_employment"`
	MaxHullIterations    *int     `yaml:"max_hull_iterations"`
}

// LoadOverrides reads a per-place override file. A missing path returns
// empty overrides, not an error.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return &Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "downtown: read overrides %s", path)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, eris.Wrap(err, "downtown: parse overrides")
	}

	for name, po := range o.Places {
		if po.SignificanceLevel != nil && (*po.SignificanceLevel <= 0 || *po.SignificanceLevel > 1) {
			return nil, eris.Errorf("downtown: override %q: significance_level out of (0,1]", name)
		}
		if po.AreaPercentile != nil && (*po.AreaPercentile <= 0 || *po.AreaPercentile > 1) {
			return nil, eris.Errorf("downtown: override %q: area_percentile out of (0,1]", name)
		}
		if po.MinClusterZones != nil && *po.MinClusterZones < 1 {
			return nil, eris.Errorf("downtown: override %q: min_cluster_zones must be >= 1", name)
		}
	}
	return &o, nil
}

// Apply returns cfg with the overrides for place applied, if any.
func (o *Overrides) Apply(place string, cfg Config) Config {
	if o == nil || o.Places == nil {
		return cfg
	}
	po, ok := o.Places[place]
	if !ok {
		return cfg
	}
	if po.SignificanceLevel != nil {
		cfg.SignificanceLevel = *po.SignificanceLevel
	}
	if po.AreaPercentile != nil {
		cfg.AreaPercentile = *po.AreaPercentile
	}
	if po.MinClusterZones != nil {
		cfg.MinClusterZones = *po.MinClusterZones
	}
	if po.MinClusterEmployment != nil {
		cfg.MinClusterEmployment = *po.MinClusterEmployment
	}
	if po.MaxHullIterations != nil {
		cfg.MaxHullIterations = *po.MaxHullIterations
	}
	return cfg
}
