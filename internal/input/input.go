// Package input builds the external current sources that drive a
// simulation. Sources are pure closures over their parameters, so a run
// driven by any of them is reproducible.
package input

import (
	"fmt"

	"github.com/nvandessel/spikesim/internal/engine"
)

// Source kinds accepted by Config.Kind.
const (
	KindNone     = "none"     // zero current everywhere
	KindConstant = "constant" // Base to every neuron
	KindRamp     = "ramp"     // Base + PerNeuron*index
	KindPulse    = "pulse"    // Amplitude during [From, Until), else 0
	KindTable    = "table"    // per-neuron constants from Levels
)

// Constant returns a source feeding the same current to every neuron at
// every step.
func Constant(base float64) engine.CurrentFunc {
	return func(int, float64) float64 { return base }
}

// Ramp returns a source whose current grows linearly with neuron index:
// base + perNeuron*index. The reference driver uses Ramp(1.2, 0.05).
func Ramp(base, perNeuron float64) engine.CurrentFunc {
	return func(n int, _ float64) float64 {
		return base + perNeuron*float64(n)
	}
}

// Pulse returns a source feeding amplitude to every neuron while
// from <= t < until, and zero outside that window.
func Pulse(amplitude, from, until float64) engine.CurrentFunc {
	return func(_ int, t float64) float64 {
		if t >= from && t < until {
			return amplitude
		}
		return 0
	}
}

// Table returns a source with a fixed current per neuron. Indices beyond
// the table receive zero.
func Table(levels []float64) engine.CurrentFunc {
	own := make([]float64, len(levels))
	copy(own, levels)
	return func(n int, _ float64) float64 {
		if n < 0 || n >= len(own) {
			return 0
		}
		return own[n]
	}
}

// Config describes a current source in run configuration. Only the fields
// relevant to Kind are consulted.
type Config struct {
	// Kind selects the source: none, constant, ramp, pulse, or table.
	Kind string `json:"kind" yaml:"kind"`

	// Base is the baseline current for constant and ramp sources.
	Base float64 `json:"base,omitempty" yaml:"base,omitempty"`

	// PerNeuron is the per-index increment for ramp sources.
	PerNeuron float64 `json:"per_neuron,omitempty" yaml:"per_neuron,omitempty"`

	// Amplitude, From, Until define a pulse source window [From, Until).
	Amplitude float64 `json:"amplitude,omitempty" yaml:"amplitude,omitempty"`
	From      float64 `json:"from,omitempty" yaml:"from,omitempty"`
	Until     float64 `json:"until,omitempty" yaml:"until,omitempty"`

	// Levels holds per-neuron currents for table sources.
	Levels []float64 `json:"levels,omitempty" yaml:"levels,omitempty"`
}

// DefaultConfig returns the reference driver input: a ramp feeding
// 1.2 + 0.05*index to each neuron.
func DefaultConfig() Config {
	return Config{
		Kind:      KindRamp,
		Base:      1.2,
		PerNeuron: 0.05,
	}
}

// Build constructs the current source described by the config. An unknown
// kind is an invalid-parameter error. An empty kind means none.
func (c Config) Build() (engine.CurrentFunc, error) {
	switch c.Kind {
	case "", KindNone:
		return Constant(0), nil
	case KindConstant:
		return Constant(c.Base), nil
	case KindRamp:
		return Ramp(c.Base, c.PerNeuron), nil
	case KindPulse:
		if c.Until < c.From {
			return nil, fmt.Errorf("%w: pulse window until (%v) before from (%v)", engine.ErrInvalidParameter, c.Until, c.From)
		}
		return Pulse(c.Amplitude, c.From, c.Until), nil
	case KindTable:
		return Table(c.Levels), nil
	default:
		return nil, fmt.Errorf("%w: unknown input kind %q", engine.ErrInvalidParameter, c.Kind)
	}
}

// Validate checks the config without building the source.
func (c Config) Validate() error {
	_, err := c.Build()
	return err
}
