package downtown

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/metroplan/tdm-cli/internal/geometry"
	"github.com/metroplan/tdm-cli/internal/lisa"
	"github.com/metroplan/tdm-cli/internal/model"
)

// Place outcome statuses. Closed set; anything except OutcomePlaceCore means
// the place ended without a downtown, which is a result, not an error.
const (
	OutcomePlaceCore    = "core"
	OutcomePlaceNoCore  = "no_core"
	OutcomePlaceSkipped = "skipped_low_employment"
)

// Classifier supplies per-zone LISA statistics for an attribute vector and a
// dense 0..n-1 contiguity structure. internal/lisa provides the production
// implementation; tests substitute fixed classifications.
type Classifier interface {
	Classify(values []float64, neighbors [][]int) ([]lisa.Result, error)
}

// PlaceOutcome records how one place fared during delineation.
type PlaceOutcome struct {
	Place           string  `json:"place"`
	Status          string  `json:"status"`
	TotalEmployment float64 `json:"total_employment"`
	Candidates      int     `json:"candidates"`
	CoreZones       int     `json:"core_zones"`

	cluster    []int
	candidates []int
	neighbors  map[int][]int
}

// Result is the run-level summary returned by Engine.Run. Zone categories
// are written into the caller's zone slice; Result carries the bookkeeping.
type Result struct {
	Places        []PlaceOutcome `json:"places"`
	Reports       []Report       `json:"reports"`
	CoreZones     int            `json:"core_zones"`
	AdjacentZones int            `json:"adjacent_zones"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithOverrides attaches per-place threshold overrides.
func WithOverrides(o *Overrides) Option {
	return func(e *Engine) { e.overrides = o }
}

// Engine runs the delineation pipeline over a zone table.
type Engine struct {
	cfg        Config
	classifier Classifier
	overrides  *Overrides
}

// NewEngine creates an Engine with the given thresholds and LISA provider.
// Zero config fields fall back to the defaults.
func NewEngine(cfg Config, classifier Classifier, opts ...Option) *Engine {
	e := &Engine{cfg: cfg.withDefaults(), classifier: classifier}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run delineates every place in the zone table: per-place core selection and
// refinement in descending total-employment order, then the single global
// buffer pass, then per-place compactness diagnostics. Zone Category,
// Quadrant, PValue, and Moran fields are written in place.
//
// Places that produce no core are logged and skipped, never fatal. The only
// error paths are invalid input data and classifier failure.
func (e *Engine) Run(ctx context.Context, zones []model.Zone) (*Result, error) {
	if e.classifier == nil {
		return nil, eris.New("downtown: engine requires a classifier")
	}
	if err := validateZones(zones); err != nil {
		return nil, err
	}

	places := model.BuildPlaces(zones)
	// Descending employment, name ascending on ties: reproducible summaries.
	sort.Slice(places, func(i, j int) bool {
		if places[i].TotalEmployment != places[j].TotalEmployment {
			return places[i].TotalEmployment > places[j].TotalEmployment
		}
		return places[i].Name < places[j].Name
	})

	log := zap.L().With(zap.String("component", "downtown.engine"))
	log.Info("delineation started",
		zap.Int("zones", len(zones)),
		zap.Int("places", len(places)),
	)

	result := &Result{}
	for _, place := range places {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "downtown: run cancelled")
		}
		outcome, err := e.runPlace(zones, place)
		if err != nil {
			return nil, err
		}
		result.Places = append(result.Places, outcome)
		result.CoreZones += outcome.CoreZones
	}

	// Global buffer pass, strictly after every core commit.
	for _, idx := range AssignBuffer(zones, e.cfg.BufferDistance) {
		if zones[idx].Category == model.CategoryUnassigned {
			zones[idx].Category = model.CategoryAdjacent
			result.AdjacentZones++
		}
	}

	for i := range result.Places {
		po := &result.Places[i]
		if po.Status != OutcomePlaceCore {
			continue
		}
		report, err := Evaluate(zones, po.Place, po.cluster, po.candidates, po.neighbors)
		if err != nil {
			return nil, err
		}
		result.Reports = append(result.Reports, report)
	}

	log.Info("delineation complete",
		zap.Int("core_zones", result.CoreZones),
		zap.Int("adjacent_zones", result.AdjacentZones),
	)
	return result, nil
}

// runPlace executes the per-place phases and commits Core assignments.
func (e *Engine) runPlace(zones []model.Zone, place model.Place) (PlaceOutcome, error) {
	cfg := e.overrides.Apply(place.Name, e.cfg)
	log := zap.L().With(
		zap.String("component", "downtown.engine"),
		zap.String("place", place.Name),
	)
	outcome := PlaceOutcome{Place: place.Name, TotalEmployment: place.TotalEmployment}

	if place.TotalEmployment < cfg.MinPlaceEmployment {
		log.Debug("place below employment minimum",
			zap.Float64("total", place.TotalEmployment),
			zap.Float64("minimum", cfg.MinPlaceEmployment),
		)
		outcome.Status = OutcomePlaceSkipped
		return outcome, nil
	}

	filtered := FilterAreaOutliers(zones, place.ZoneIdx, cfg.AreaPercentile)
	if len(filtered) == 0 {
		log.Warn("all zones excluded by area filter")
		outcome.Status = OutcomePlaceNoCore
		return outcome, nil
	}

	neighbors := BuildNeighbors(zones, filtered)

	values := make([]float64, len(filtered))
	for i, idx := range filtered {
		values[i] = zones[idx].Employment
	}
	stats, err := e.classifier.Classify(values, localNeighbors(filtered, neighbors))
	if err != nil {
		return outcome, eris.Wrapf(err, "downtown: classify %s", place.Name)
	}
	if len(stats) != len(filtered) {
		return outcome, eris.Errorf("downtown: classifier returned %d results for %d zones", len(stats), len(filtered))
	}
	for i, idx := range filtered {
		zones[idx].Quadrant = stats[i].Quadrant
		zones[idx].PValue = stats[i].PValue
		zones[idx].Moran = stats[i].Moran
	}

	var candidates []int
	for _, idx := range filtered {
		if IsCandidate(zones[idx], cfg.SignificanceLevel) {
			candidates = append(candidates, idx)
		}
	}
	outcome.Candidates = len(candidates)
	if len(candidates) == 0 {
		log.Info("no significant high-employment zones")
		outcome.Status = OutcomePlaceNoCore
		return outcome, nil
	}

	components, err := Components(candidates, neighbors)
	if err != nil {
		return outcome, err
	}
	cluster, ok := SelectCluster(zones, components, cfg)
	if !ok {
		log.Info("no component met cluster thresholds",
			zap.Int("components", len(components)),
		)
		outcome.Status = OutcomePlaceNoCore
		return outcome, nil
	}

	member := make(map[int]bool, len(cluster))
	for _, idx := range cluster {
		member[idx] = true
	}

	// Hole filling needs adjacency over every place zone, not just the
	// filtered candidate input.
	placeNeighbors := BuildNeighbors(zones, place.ZoneIdx)
	for _, idx := range FillHoles(zones, place.ZoneIdx, member, placeNeighbors) {
		member[idx] = true
	}
	for _, idx := range ExpandHull(zones, place.ZoneIdx, member, cfg.MaxHullIterations) {
		member[idx] = true
	}

	// The single point where Core is written.
	final := make([]int, 0, len(member))
	for idx := range member {
		if zones[idx].Category == model.CategoryUnassigned {
			zones[idx].Category = model.CategoryCore
		}
		final = append(final, idx)
	}
	sort.Ints(final)

	log.Info("core selected",
		zap.Int("candidates", len(candidates)),
		zap.Int("core_zones", len(final)),
	)

	outcome.Status = OutcomePlaceCore
	outcome.CoreZones = len(final)
	outcome.cluster = final
	outcome.candidates = candidates
	outcome.neighbors = placeNeighbors
	return outcome, nil
}

// validateZones enforces the fatal preconditions: every zone participating
// in clustering must carry a polygon and a non-negative employment value.
// It also derives Area from geometry where the loader has not.
func validateZones(zones []model.Zone) error {
	for i := range zones {
		z := &zones[i]
		if z.PlaceID == "" {
			continue
		}
		if z.Geometry == nil {
			return eris.Errorf("downtown: zone %s has no geometry", z.ID)
		}
		if z.Employment < 0 {
			return eris.Errorf("downtown: zone %s has negative employment", z.ID)
		}
		if z.Area == 0 {
			z.Area = geometry.Area(z.Geometry)
		}
	}
	return nil
}
