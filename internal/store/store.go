// Package store defines the RunStore interface for archiving completed
// simulation runs and reading them back for comparison or re-export.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/nvandessel/spikesim/internal/engine"
)

// ErrNotFound is returned when a run ID does not exist in the store.
var ErrNotFound = errors.New("run not found")

// Run is one archived simulation run: the configuration snapshot that
// produced it plus the full spike and weight logs, in the order the engine
// emitted them.
type Run struct {
	// ID uniquely identifies the run (UUID).
	ID string `json:"id"`

	// Label is an optional human-readable name given at save time.
	Label string `json:"label,omitempty"`

	// CreatedAt is when the run was saved.
	CreatedAt time.Time `json:"created_at"`

	// ConfigYAML is the effective run configuration, serialized as YAML,
	// so an archived run can be reproduced exactly.
	ConfigYAML string `json:"config_yaml"`

	// Spikes and Weights are the engine's ordered logs.
	Spikes  []engine.Spike        `json:"spikes"`
	Weights []engine.WeightRecord `json:"weights"`
}

// RunSummary is the listing view of a run: everything but the logs.
type RunSummary struct {
	ID          string    `json:"id"`
	Label       string    `json:"label,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	SpikeCount  int       `json:"spike_count"`
	WeightCount int       `json:"weight_count"`
}

// RunStore archives simulation runs.
type RunStore interface {
	// SaveRun persists a run. The run's ID must be set and unused.
	SaveRun(ctx context.Context, run Run) error

	// GetRun loads a run with its full logs. Returns ErrNotFound if the
	// ID is unknown.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns returns summaries of all runs, newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)

	// DeleteRun removes a run and its logs. Returns ErrNotFound if the
	// ID is unknown.
	DeleteRun(ctx context.Context, id string) error

	// Close releases underlying resources.
	Close() error
}
