package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/metroplan/tdm-cli/internal/downtown"
	"github.com/metroplan/tdm-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	config         TEXT NOT NULL,
	zones          INTEGER NOT NULL,
	core_zones     INTEGER NOT NULL,
	adjacent_zones INTEGER NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS assignments (
	run_id   TEXT NOT NULL REFERENCES runs(id),
	zone_id  TEXT NOT NULL,
	place_id TEXT,
	category INTEGER NOT NULL,
	quadrant TEXT NOT NULL,
	p_value  REAL NOT NULL,
	moran    REAL NOT NULL,
	PRIMARY KEY (run_id, zone_id)
);

CREATE TABLE IF NOT EXISTS reports (
	run_id TEXT NOT NULL REFERENCES runs(id),
	place  TEXT NOT NULL,
	report TEXT NOT NULL,
	PRIMARY KEY (run_id, place)
);

CREATE INDEX IF NOT EXISTS idx_assignments_run_id ON assignments(run_id);
CREATE INDEX IF NOT EXISTS idx_assignments_category ON assignments(run_id, category);
CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, name string, cfg downtown.Config, zones []model.Zone, result *downtown.Result) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal config")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, name, config, zones, core_zones, adjacent_zones, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, string(cfgJSON), len(zones), result.CoreZones, result.AdjacentZones, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	for i := range zones {
		z := &zones[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO assignments (run_id, zone_id, place_id, category, quadrant, p_value, moran) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, z.ID, z.PlaceID, int(z.Category), z.Quadrant.String(), z.PValue, z.Moran,
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert assignment %s", z.ID)
		}
	}

	for _, report := range result.Reports {
		reportJSON, err := json.Marshal(report)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal report")
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reports (run_id, place, report) VALUES (?, ?, ?)`,
			id, report.Place, string(reportJSON),
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert report %s", report.Place)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit run")
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

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, config, zones, core_zones, adjacent_zones, created_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, config, zones, core_zones, adjacent_zones, created_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) ListAssignments(ctx context.Context, runID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT zone_id, place_id, category, quadrant, p_value, moran FROM assignments WHERE run_id = ? ORDER BY zone_id`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list assignments")
	}
	defer rows.Close()

	var assignments []Assignment
	for rows.Next() {
		var a Assignment
		var placeID sql.NullString
		var category int
		if err := rows.Scan(&a.ZoneID, &placeID, &category, &a.Quadrant, &a.PValue, &a.Moran); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan assignment")
		}
		a.PlaceID = placeID.String
		a.Category = model.Category(category)
		assignments = append(assignments, a)
	}
	return assignments, eris.Wrap(rows.Err(), "sqlite: list assignments iterate")
}

func (s *SQLiteStore) ListReports(ctx context.Context, runID string) ([]downtown.Report, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report FROM reports WHERE run_id = ? ORDER BY place`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []downtown.Report
	for rows.Next() {
		var reportJSON string
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report")
		}
		var r downtown.Report
		if err := json.Unmarshal([]byte(reportJSON), &r); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
		reports = append(reports, r)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: list reports iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var r Run
	var cfgJSON string

	err := row.Scan(&r.ID, &r.Name, &cfgJSON, &r.Zones, &r.CoreZones, &r.AdjacentZones, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	if err := json.Unmarshal([]byte(cfgJSON), &r.Config); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal config")
	}
	return &r, nil
}
