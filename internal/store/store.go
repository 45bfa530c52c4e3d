// Package store persists delineation runs: per-zone category assignments and
// per-place compactness reports, behind a driver-agnostic interface with
// SQLite and Postgres implementations.
package store

import (
	"context"
	"time"

	"github.com/metroplan/tdm-cli/internal/downtown"
	"github.com/metroplan/tdm-cli/internal/model"
)

// Run is one completed delineation run.
type Run struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Config        downtown.Config `json:"config"`
	Zones         int             `json:"zones"`
	CoreZones     int             `json:"core_zones"`
	AdjacentZones int             `json:"adjacent_zones"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Assignment is the persisted per-zone outcome of a run.
type Assignment struct {
	ZoneID   string         `json:"zone_id"`
	PlaceID  string         `json:"place_id,omitempty"`
	Category model.Category `json:"category"`
	Quadrant string         `json:"quadrant"`
	PValue   float64        `json:"p_value"`
	Moran    float64        `json:"moran"`
}

// Store defines the persistence interface for delineation results.
type Store interface {
	// SaveRun persists the run record, every zone assignment, and the
	// compactness reports in one call.
	SaveRun(ctx context.Context, name string, cfg downtown.Config, zones []model.Zone, result *downtown.Result) (*Run, error)

	GetRun(ctx context.Context, runID string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListAssignments(ctx context.Context, runID string) ([]Assignment, error)
	ListReports(ctx context.Context, runID string) ([]downtown.Report, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
