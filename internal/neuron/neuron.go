// Package neuron implements the leaky integrate-and-fire (LIF) neuron model.
// A neuron integrates input current over time while its membrane potential
// leaks back toward rest; when the potential crosses the firing threshold it
// emits a spike and resets.
package neuron

import "fmt"

// Params governs neuron dynamics. Params are immutable after construction;
// each neuron holds its own copy.
//
// No invariant requires VThresh > VRest, but values violating it produce
// degenerate dynamics: VThresh <= VRest makes the neuron fire on every step
// under any non-negative input, and a very high threshold never fires.
type Params struct {
	// TauM is the membrane time constant in ms. Must be > 0. Larger values
	// slow both the leak toward rest and the response to input.
	TauM float64 `json:"tau_m" yaml:"tau_m"`

	// VRest is the resting membrane potential the neuron decays toward.
	VRest float64 `json:"v_rest" yaml:"v_rest"`

	// VThresh is the firing threshold compared against the membrane potential.
	VThresh float64 `json:"v_thresh" yaml:"v_thresh"`

	// VReset is the potential the membrane is set to after a spike.
	VReset float64 `json:"v_reset" yaml:"v_reset"`
}

// DefaultParams returns the reference LIF parameters: tau 10ms, rest 0,
// threshold 1, reset 0.
func DefaultParams() Params {
	return Params{
		TauM:    10.0,
		VRest:   0.0,
		VThresh: 1.0,
		VReset:  0.0,
	}
}

// Validate checks that the parameters define well-formed dynamics.
// TauM <= 0 would divide by zero (or invert the leak) in Step, so it is
// rejected here, before any simulation step runs.
func (p Params) Validate() error {
	if p.TauM <= 0 {
		return fmt.Errorf("tau_m must be > 0, got %v", p.TauM)
	}
	return nil
}

// Neuron holds the mutable membrane potential and its parameters.
// Neurons are created at VMem = VRest and live for the whole run.
type Neuron struct {
	// VMem is the current membrane potential, updated every timestep.
	VMem float64

	// Params are the dynamics parameters, fixed at construction.
	Params Params
}

// New creates a neuron at its resting potential.
func New(params Params) Neuron {
	return Neuron{
		VMem:   params.VRest,
		Params: params,
	}
}

// Step advances the neuron by one timestep of dt ms under the given input
// current, using the leaky-integrator update:
//
//	dv = (-(v - VRest) + I) / TauM
//	v  = v + dv*dt
//
// If the updated potential reaches VThresh, the membrane is reset to VReset
// and Step reports true. Detection and reset happen together, so a neuron
// emits at most one spike per step.
func (n *Neuron) Step(inputCurrent, dt float64) bool {
	dv := (-(n.VMem - n.Params.VRest) + inputCurrent) / n.Params.TauM
	n.VMem += dv * dt

	if n.VMem >= n.Params.VThresh {
		n.VMem = n.Params.VReset
		return true
	}
	return false
}
