// Package history persists per-example run records across builds, backing the
// slowest-examples report.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Status values recorded per run.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusCached  = "cached"
	StatusSkipped = "skipped"
)

// Run is one example execution within one build.
type Run struct {
	ID        int64
	RunID     string
	Example   string
	Status    string
	Elapsed   time.Duration
	Timestamp time.Time
}

// Store records runs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (and initializes) the run-history database.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		example TEXT NOT NULL,
		status TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_example ON runs(example);
	`
	_, err := s.db.Exec(schema)
	return err
}

// RecordRun appends one example outcome.
func (s *Store) RecordRun(ctx context.Context, runID, example, status string, elapsed time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO runs (run_id, example, status, elapsed_ms, timestamp) VALUES (?, ?, ?, ?, ?)",
		runID, example, status, elapsed.Milliseconds(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// SlowestExamples returns the slowest executed runs of one build, longest
// first. Cached and skipped entries never appear.
func (s *Store) SlowestExamples(ctx context.Context, runID string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, example, status, elapsed_ms, timestamp FROM runs
		 WHERE run_id = ? AND status IN (?, ?)
		 ORDER BY elapsed_ms DESC LIMIT ?`,
		runID, StatusSuccess, StatusFailed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// History returns every recorded run of one example, newest first.
func (s *Store) History(ctx context.Context, example string, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, example, status, elapsed_ms, timestamp FROM runs
		 WHERE example = ? ORDER BY id DESC LIMIT ?`,
		example, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var r Run
		var elapsedMS, ts int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Example, &r.Status, &elapsedMS, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.Timestamp = time.Unix(ts, 0)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
