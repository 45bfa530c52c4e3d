package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/metroplan/tdm-cli/internal/downtown"
	"github.com/metroplan/tdm-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it
// in tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using a pgx connection pool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	config         JSONB NOT NULL,
	zones          INTEGER NOT NULL,
	core_zones     INTEGER NOT NULL,
	adjacent_zones INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS assignments (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	zone_id  TEXT NOT NULL,
	place_id TEXT,
	category INTEGER NOT NULL,
	quadrant TEXT NOT NULL,
	p_value  DOUBLE PRECISION NOT NULL,
	moran    DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (run_id, zone_id)
);

CREATE TABLE IF NOT EXISTS reports (
	run_id TEXT NOT NULL REFERENCES runs(id),
	place  TEXT NOT NULL,
	report JSONB NOT NULL,
	PRIMARY KEY (run_id, place)
);

CREATE INDEX IF NOT EXISTS idx_assignments_run_id ON assignments(run_id);
CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports(run_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveRun(ctx context.Context, name string, cfg downtown.Config, zones []model.Zone, result *downtown.Result) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal config")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, name, config, zones, core_zones, adjacent_zones, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, name, string(cfgJSON), len(zones), result.CoreZones, result.AdjacentZones, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	for i := range zones {
		z := &zones[i]
		_, err = s.pool.Exec(ctx,
			`INSERT INTO assignments (run_id, zone_id, place_id, category, quadrant, p_value, moran) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, z.ID, z.PlaceID, int(z.Category), z.Quadrant.String(), z.PValue, z.Moran,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: insert assignment %s", z.ID)
		}
	}

	for _, report := range result.Reports {
		reportJSON, err := json.Marshal(report)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: marshal report")
		}
		_, err = s.pool.Exec(ctx,
			`INSERT INTO reports (run_id, place, report) VALUES ($1, $2, $3)`,
			id, report.Place, string(reportJSON),
		)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: insert report %s", report.Place)
		}
	}

	return &Run{
		ID:            id,
		Name:          name,
		Config:        cfg,
		Zones:         len(zones),
		CoreZones:     result.CoreZones,
		AdjacentZones: result.AdjacentZones,
		CreatedAt:     now,
	}, nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, config, zones, core_zones, adjacent_zones, created_at FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanPgRun(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, config, zones, core_zones, adjacent_zones, created_at FROM runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) ListAssignments(ctx context.Context, runID string) ([]Assignment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT zone_id, place_id, category, quadrant, p_value, moran FROM assignments WHERE run_id = $1 ORDER BY zone_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list assignments")
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		var placeID *string
		var category int
		if err := rows.Scan(&a.ZoneID, &placeID, &category, &a.Quadrant, &a.PValue, &a.Moran); err != nil {
			return nil, eris.Wrap(err, "postgres: scan assignment")
		}
		if placeID != nil {
			a.PlaceID = *placeID
		}
		a.Category = model.Category(category)
		assignments = append(assignments, a)
	}
	return assignments, eris.Wrap(rows.Err(), "postgres: list assignments iterate")
}

func (s *PostgresStore) ListReports(ctx context.Context, runID string) ([]downtown.Report, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT report FROM reports WHERE run_id = $1 ORDER BY place`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []downtown.Report
	for rows.Next() {
		var reportJSON []byte
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		var r downtown.Report
		if err := json.Unmarshal(reportJSON, &r); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: list reports iterate")
}

func scanPgRun(row scannable) (*Run, error) {
	var r Run
	var cfgJSON []byte

	err := row.Scan(&r.ID, &r.Name, &cfgJSON, &r.Zones, &r.CoreZones, &r.AdjacentZones, &r.CreatedAt)
	if err != nil {
		if eris.Is(err, pgx.ErrNoRows) {
			return nil, eris.New("run not found")
		}
		return nil, err
	}
	if err := json.Unmarshal(cfgJSON, &r.Config); err != nil {
		return nil, eris.Wrap(err, "unmarshal config")
	}
	return &r, nil
}
