// Package store handles SQLite persistence of benchmark runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/sortbench/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for run history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			sizes TEXT NOT NULL,
			trials INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			failures INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			run_id TEXT NOT NULL,
			algorithm TEXT NOT NULL,
			size_index INTEGER NOT NULL,
			size INTEGER NOT NULL,
			mean_count REAL NOT NULL,
			cv_count REAL NOT NULL,
			mean_time REAL NOT NULL,
			cv_time REAL NOT NULL,
			samples INTEGER NOT NULL,
			PRIMARY KEY (run_id, algorithm, size_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// SaveRun stores a run and its summaries in one transaction. An empty run ID
// is replaced with a new one; the ID used is returned.
func (s *Store) SaveRun(ctx context.Context, run model.RunRecord, summaries map[model.Algorithm][]model.Summary) (string, error) {
	if run.ID == "" {
		run.ID = NewRunID()
	} else if _, err := uuid.Parse(run.ID); err != nil {
		return "", fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, sizes, trials, seed, failures) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		joinSizes(run.Sizes),
		run.Trials,
		run.Seed,
		run.Failures,
	)
	if err != nil {
		return "", err
	}

	var stmt *sql.Stmt
	stmt, err = tx.PrepareContext(ctx,
		`INSERT INTO summaries (run_id, algorithm, size_index, size, mean_count, cv_count, mean_time, cv_time, samples)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for alg, rows := range summaries {
		for i, sm := range rows {
			if _, err = stmt.ExecContext(ctx, run.ID, string(alg), i, sm.Size,
				sm.MeanCount, sm.CVCount, sm.MeanTime, sm.CVTime, sm.Samples); err != nil {
				return "", err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.RunRecord, error) {
	query := `SELECT id, started_at, sizes, trials, seed, failures FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var runs []model.RunRecord
	for rows.Next() {
		var run model.RunRecord
		var startedAt, sizes string
		if err := rows.Scan(&run.ID, &startedAt, &sizes, &run.Trials, &run.Seed, &run.Failures); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, err
		}
		run.StartedAt = parsed
		run.Sizes, err = splitSizes(sizes)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

// LoadSummaries returns the stored summaries of a run keyed by algorithm, in size order.
func (s *Store) LoadSummaries(ctx context.Context, runID string) (map[model.Algorithm][]model.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT algorithm, size, mean_count, cv_count, mean_time, cv_time, samples
		 FROM summaries
		 WHERE run_id = ?
		 ORDER BY algorithm, size_index`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[model.Algorithm][]model.Summary{}
	for rows.Next() {
		var alg string
		var sm model.Summary
		if err := rows.Scan(&alg, &sm.Size, &sm.MeanCount, &sm.CVCount, &sm.MeanTime, &sm.CVTime, &sm.Samples); err != nil {
			return nil, err
		}
		result[model.Algorithm(alg)] = append(result[model.Algorithm(alg)], sm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	return result, nil
}

func joinSizes(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitSizes(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	sizes := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid stored size %q: %w", p, err)
		}
		sizes[i] = n
	}
	return sizes, nil
}
