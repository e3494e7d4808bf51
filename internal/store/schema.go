package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaVersion is the current schema version.
const SchemaVersion = 1

// schemaV1 is the initial schema for the SQLite run store.
const schemaV1 = `
-- One row per archived run
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    label TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    config_yaml TEXT NOT NULL,
    spike_count INTEGER NOT NULL DEFAULT 0,
    weight_count INTEGER NOT NULL DEFAULT 0
);

-- Spike log rows, ordered by seq within a run
CREATE TABLE IF NOT EXISTS spikes (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    neuron INTEGER NOT NULL,
    time_ms REAL NOT NULL,
    PRIMARY KEY (run_id, seq)
);

-- Weight log rows, ordered by seq within a run
CREATE TABLE IF NOT EXISTS weights (
    run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    time_ms REAL NOT NULL,
    pre_neuron INTEGER NOT NULL,
    post_neuron INTEGER NOT NULL,
    weight REAL NOT NULL,
    PRIMARY KEY (run_id, seq)
);

-- Schema metadata
CREATE TABLE IF NOT EXISTS schema_info (
    version INTEGER NOT NULL
);
`

// InitSchema creates the tables if needed and records the schema version.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_info`).Scan(&count); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if count == 0 {
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_info (version) VALUES (?)`, SchemaVersion); err != nil {
			return fmt.Errorf("record schema version: %w", err)
		}
	}
	return nil
}
