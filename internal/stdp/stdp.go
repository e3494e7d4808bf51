// Package stdp implements spike-timing-dependent plasticity: a local
// learning rule that adjusts a synaptic weight from the relative timing of
// pre- and post-synaptic spikes. Causal ordering (pre before post)
// potentiates the synapse; acausal ordering depresses it. There is no
// global error signal — each update depends only on the two spike times.
package stdp

import (
	"fmt"
	"math"
)

// Params controls the STDP learning rule. One Params value is shared by
// every synapse in a run and never mutated.
type Params struct {
	// APlus is the potentiation learning rate. Must be > 0.
	APlus float64 `json:"a_plus" yaml:"a_plus"`

	// AMinus is the depression learning rate. Must be > 0.
	AMinus float64 `json:"a_minus" yaml:"a_minus"`

	// TauPlus is the potentiation decay time constant in ms. Must be > 0.
	// Larger values let more widely separated spike pairs still potentiate.
	TauPlus float64 `json:"tau_plus" yaml:"tau_plus"`

	// TauMinus is the depression decay time constant in ms. Must be > 0.
	TauMinus float64 `json:"tau_minus" yaml:"tau_minus"`

	// WMin is the floor for synaptic weights.
	WMin float64 `json:"w_min" yaml:"w_min"`

	// WMax is the ceiling for synaptic weights. Must be >= WMin.
	WMax float64 `json:"w_max" yaml:"w_max"`
}

// DefaultParams returns the reference STDP configuration: slightly stronger
// depression than potentiation (a common stability choice), 20ms windows,
// weights bounded to [0, 1].
func DefaultParams() Params {
	return Params{
		APlus:    0.01,
		AMinus:   0.012,
		TauPlus:  20.0,
		TauMinus: 20.0,
		WMin:     0.0,
		WMax:     1.0,
	}
}

// Validate checks the rule parameters. Failures are construction-time
// errors; WeightDelta and Apply are total over valid Params.
func (p Params) Validate() error {
	if p.APlus <= 0 {
		return fmt.Errorf("a_plus must be > 0, got %v", p.APlus)
	}
	if p.AMinus <= 0 {
		return fmt.Errorf("a_minus must be > 0, got %v", p.AMinus)
	}
	if p.TauPlus <= 0 {
		return fmt.Errorf("tau_plus must be > 0, got %v", p.TauPlus)
	}
	if p.TauMinus <= 0 {
		return fmt.Errorf("tau_minus must be > 0, got %v", p.TauMinus)
	}
	if p.WMin > p.WMax {
		return fmt.Errorf("w_min (%v) must be <= w_max (%v)", p.WMin, p.WMax)
	}
	return nil
}

// WeightDelta computes the weight change for a spike pair separated by
// deltaT = tPost - tPre (ms).
//
//	deltaT > 0:  pre fired before post (causal)  -> +APlus  * exp(-deltaT/TauPlus)
//	deltaT <= 0: post fired before or with pre   -> -AMinus * exp(deltaT/TauMinus)
//
// deltaT == 0 lands in the depression branch and yields exactly -AMinus.
// This tie-break for simultaneous spikes is deliberate and load-bearing:
// downstream results depend on it, so it must not be "fixed" to zero or to
// potentiation.
func WeightDelta(deltaT float64, p Params) float64 {
	if deltaT > 0 {
		return p.APlus * math.Exp(-deltaT/p.TauPlus)
	}
	return -p.AMinus * math.Exp(deltaT/p.TauMinus)
}

// Apply returns the weight after one STDP update, clamped to
// [WMin, WMax]. Pure: no side effects, defined for all real inputs.
func Apply(weight, deltaT float64, p Params) float64 {
	return clampWeight(weight+WeightDelta(deltaT, p), p.WMin, p.WMax)
}

// clampWeight restricts a weight to [min, max]. NaN and infinities collapse
// to min so a pathological input can never escape the bounds.
func clampWeight(w, min, max float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return min
	}
	if w < min {
		return min
	}
	if w > max {
		return max
	}
	return w
}
