package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nvandessel/spikesim/internal/engine"
)

// SQLiteRunStore implements RunStore using SQLite for persistence.
type SQLiteRunStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteRunStore creates a run store rooted at dir, with the database at
// dir/spikesim.db. The directory is created if needed.
func NewSQLiteRunStore(dir string) (*SQLiteRunStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbPath := filepath.Join(dir, "spikesim.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteRunStore{db: db}, nil
}

// SaveRun persists the run and its logs in one transaction.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, label, created_at, config_yaml, spike_count, weight_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Label, createdAt.Format(time.RFC3339Nano), run.ConfigYAML,
		len(run.Spikes), len(run.Weights))
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	spikeStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO spikes (run_id, seq, neuron, time_ms) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare spike insert: %w", err)
	}
	defer spikeStmt.Close()

	for i, sp := range run.Spikes {
		if _, err := spikeStmt.ExecContext(ctx, run.ID, i, sp.Neuron, sp.Time); err != nil {
			return fmt.Errorf("insert spike %d: %w", i, err)
		}
	}

	weightStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO weights (run_id, seq, time_ms, pre_neuron, post_neuron, weight)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare weight insert: %w", err)
	}
	defer weightStmt.Close()

	for i, w := range run.Weights {
		if _, err := weightStmt.ExecContext(ctx, run.ID, i, w.Time, w.Pre, w.Post, w.Weight); err != nil {
			return fmt.Errorf("insert weight record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// GetRun loads a run with its full logs, in stored sequence order.
func (s *SQLiteRunStore) GetRun(ctx context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var run Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, label, created_at, config_yaml FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Label, &createdAt, &run.ConfigYAML)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", id, err)
	}
	if t, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
		run.CreatedAt = t
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT neuron, time_ms FROM spikes WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query spikes for %s: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var sp engine.Spike
		if err := rows.Scan(&sp.Neuron, &sp.Time); err != nil {
			return nil, fmt.Errorf("scan spike: %w", err)
		}
		run.Spikes = append(run.Spikes, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spikes: %w", err)
	}

	wrows, err := s.db.QueryContext(ctx,
		`SELECT time_ms, pre_neuron, post_neuron, weight FROM weights WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query weights for %s: %w", id, err)
	}
	defer wrows.Close()
	for wrows.Next() {
		var w engine.WeightRecord
		if err := wrows.Scan(&w.Time, &w.Pre, &w.Post, &w.Weight); err != nil {
			return nil, fmt.Errorf("scan weight record: %w", err)
		}
		run.Weights = append(run.Weights, w)
	}
	if err := wrows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weights: %w", err)
	}

	return &run, nil
}

// ListRuns returns summaries of all runs, newest first.
func (s *SQLiteRunStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, label, created_at, spike_count, weight_count
		 FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var rs RunSummary
		var createdAt string
		if err := rows.Scan(&rs.ID, &rs.Label, &createdAt, &rs.SpikeCount, &rs.WeightCount); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, createdAt); perr == nil {
			rs.CreatedAt = t
		}
		out = append(out, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// DeleteRun removes a run; spike and weight rows cascade.
func (s *SQLiteRunStore) DeleteRun(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
