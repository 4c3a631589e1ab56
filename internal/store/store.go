// Package store persists completed simulation runs to SQLite so past
// experiments can be listed and compared.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("store: run not found")

// RunRecord is one persisted simulation run.
type RunRecord struct {
	ID           string
	CreatedAt    time.Time
	Scenario     string // scenario name
	Engine       string
	ScenarioYAML string // full scenario document for reproduction
	Trials       int
	Seed         int64
	Mean         float64
	StdDev       float64
	Min          float64
	Max          float64
	P50          float64
	P90          float64
	P95          float64
	P99          float64
}

// RunStore is a SQLite-backed run history. Safe for concurrent use.
type RunStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the database at path, creating directories and schema
// as needed.
func Open(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	s := &RunStore{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *RunStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id            TEXT PRIMARY KEY,
		created_at    INTEGER NOT NULL,
		scenario      TEXT NOT NULL,
		engine        TEXT NOT NULL,
		scenario_yaml TEXT NOT NULL,
		trials        INTEGER NOT NULL,
		seed          INTEGER NOT NULL,
		mean          REAL NOT NULL,
		stddev        REAL NOT NULL,
		min           REAL NOT NULL,
		max           REAL NOT NULL,
		p50           REAL NOT NULL,
		p90           REAL NOT NULL,
		p95           REAL NOT NULL,
		p99           REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun inserts the record, assigning ID and CreatedAt when unset, and
// returns the stored id.
func (s *RunStore) SaveRun(rec *RunRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO runs (id, created_at, scenario, engine, scenario_yaml, trials, seed,
			mean, stddev, min, max, p50, p90, p95, p99)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UnixMilli(), rec.Scenario, rec.Engine, rec.ScenarioYAML,
		rec.Trials, rec.Seed, rec.Mean, rec.StdDev, rec.Min, rec.Max,
		rec.P50, rec.P90, rec.P95, rec.P99)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return rec.ID, nil
}

// GetRun loads one run by id. Prefix matching is allowed when the prefix
// is unambiguous, so short ids from `runs list` work.
func (s *RunStore) GetRun(id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(selectCols+` FROM runs WHERE id = ? OR id LIKE ? LIMIT 2`,
		id, id+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var recs []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	switch len(recs) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return recs[0], nil
	default:
		return nil, fmt.Errorf("store: run id %q is ambiguous", id)
	}
}

// ListRuns returns runs newest first, at most limit (0 means all).
func (s *RunStore) ListRuns(limit int) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := selectCols + ` FROM runs ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var recs []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return recs, nil
}

// DeleteRun removes a run by exact id.
func (s *RunStore) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

const selectCols = `SELECT id, created_at, scenario, engine, scenario_yaml, trials, seed,
	mean, stddev, min, max, p50, p90, p95, p99`

func scanRun(rows *sql.Rows) (*RunRecord, error) {
	var rec RunRecord
	var createdAt int64
	if err := rows.Scan(&rec.ID, &createdAt, &rec.Scenario, &rec.Engine, &rec.ScenarioYAML,
		&rec.Trials, &rec.Seed, &rec.Mean, &rec.StdDev, &rec.Min, &rec.Max,
		&rec.P50, &rec.P90, &rec.P95, &rec.P99); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &rec, nil
}
