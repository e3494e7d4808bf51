// Package engine implements the fixed-step simulation loop for a spiking
// neural network. The engine owns the neuron population and the full
// synapse set, routes per-step input current to each neuron, detects
// firing, fans spike events out to the synapses incident to the firing
// neuron, and records spike and weight logs.
package engine

import (
	"errors"
	"fmt"

	"github.com/nvandessel/spikesim/internal/neuron"
	"github.com/nvandessel/spikesim/internal/stdp"
	"github.com/nvandessel/spikesim/internal/synapse"
)

// ErrInvalidParameter marks construction-time validation failures: the
// simulation never starts with parameters it cannot run. Use errors.Is to
// distinguish these from IO errors raised by exporters or stores.
var ErrInvalidParameter = errors.New("invalid parameter")

// WeightLogMode selects how much of the weight state is recorded when a
// spike occurs.
type WeightLogMode string

const (
	// WeightLogAll snapshots every synapse in the network on every spike.
	// This reproduces the original logging behavior exactly and is the
	// default, but costs O(synapses) per spike.
	WeightLogAll WeightLogMode = "all"

	// WeightLogTouched records only the synapses incident to the firing
	// neuron, i.e. the ones whose weight could have changed.
	WeightLogTouched WeightLogMode = "touched"
)

// Config holds the time-stepping parameters for a simulation.
type Config struct {
	// DT is the timestep in ms. Must be > 0.
	DT float64 `json:"dt" yaml:"dt"`

	// TMax is the total simulated duration in ms. Must be > 0. Time
	// accumulates by repeated addition of DT with no drift correction, so
	// TMax is not guaranteed to be hit exactly: the step count is TMax/DT
	// when DT divides evenly, otherwise floor(TMax/DT)+1.
	TMax float64 `json:"t_max" yaml:"t_max"`

	// WeightLog selects the weight logging verbosity. Empty means
	// WeightLogAll.
	WeightLog WeightLogMode `json:"weight_log,omitempty" yaml:"weight_log,omitempty"`
}

// DefaultConfig returns the reference time-stepping configuration:
// 0.1ms steps over 100ms, full weight logging.
func DefaultConfig() Config {
	return Config{
		DT:        0.1,
		TMax:      100.0,
		WeightLog: WeightLogAll,
	}
}

// Validate checks the config. DT and TMax must be positive and the weight
// log mode must be known.
func (c Config) Validate() error {
	if c.DT <= 0 {
		return fmt.Errorf("%w: dt must be > 0, got %v", ErrInvalidParameter, c.DT)
	}
	if c.TMax <= 0 {
		return fmt.Errorf("%w: t_max must be > 0, got %v", ErrInvalidParameter, c.TMax)
	}
	switch c.WeightLog {
	case "", WeightLogAll, WeightLogTouched:
	default:
		return fmt.Errorf("%w: unknown weight_log mode %q", ErrInvalidParameter, c.WeightLog)
	}
	return nil
}

// Spike is an immutable event record: neuron Neuron crossed its firing
// threshold at Time ms.
type Spike struct {
	Neuron int     `json:"neuron"`
	Time   float64 `json:"time"`
}

// WeightRecord is an append-only snapshot of one synapse's weight, taken
// when a spike occurred somewhere in the network. It is an observational
// artifact, not simulation state.
type WeightRecord struct {
	Time   float64 `json:"time"`
	Pre    int     `json:"pre"`
	Post   int     `json:"post"`
	Weight float64 `json:"weight"`
}

// Result carries the ordered logs produced by a run: spikes in emission
// order and weight records in recording order (chronological, and within a
// timestep, the order the loop produced them).
type Result struct {
	Spikes  []Spike
	Weights []WeightRecord
}

// CurrentFunc supplies external input current to a neuron at a given
// simulation time. It must be pure and non-blocking: the engine calls it
// synchronously once per neuron per step, and reproducibility of a run
// depends on it being deterministic.
type CurrentFunc func(neuron int, time float64) float64

// role distinguishes which side of a synapse a neuron is on.
type role uint8

const (
	rolePre role = iota
	rolePost
)

// incidence is one entry in the per-neuron adjacency index: the synapse
// slot to notify and the side the neuron is on.
type incidence struct {
	slot int
	role role
}

// Simulation owns a neuron population and its synapses for the lifetime of
// a run. It is not safe for concurrent use: Run exclusively owns and
// mutates the instance for the duration of a call.
type Simulation struct {
	neurons    []neuron.Neuron
	synapses   []synapse.Synapse
	stdpParams stdp.Params
	config     Config

	// incident maps each neuron index to the synapse slots it touches, in
	// synapse declaration order. This replaces a linear scan over all
	// synapses per spike; because each list preserves declaration order
	// and a synapse appears at most once per neuron (no self-loops),
	// notification order is identical to the scan's.
	incident [][]incidence

	time float64
}

// New builds a simulation of n identically parameterized neurons wired
// with full pairwise connectivity: one directed synapse per ordered pair
// (pre, post) with pre != post, so n*(n-1) synapses, each starting at
// initialWeight with no recorded spikes. Neurons start at VRest.
//
// n of 0 or 1 is valid and yields zero synapses. All parameter validation
// happens here, eagerly: New fails with an error wrapping
// ErrInvalidParameter before any simulation state is touched.
func New(n int, neuronParams neuron.Params, config Config, stdpParams stdp.Params, initialWeight float64) (*Simulation, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: neuron count must be >= 0, got %d", ErrInvalidParameter, n)
	}
	if err := neuronParams.Validate(); err != nil {
		return nil, fmt.Errorf("%w: neuron params: %v", ErrInvalidParameter, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if err := stdpParams.Validate(); err != nil {
		return nil, fmt.Errorf("%w: stdp params: %v", ErrInvalidParameter, err)
	}

	neurons := make([]neuron.Neuron, n)
	for i := range neurons {
		neurons[i] = neuron.New(neuronParams)
	}

	synapses := make([]synapse.Synapse, 0, n*max(n-1, 0))
	for pre := 0; pre < n; pre++ {
		for post := 0; post < n; post++ {
			if pre != post {
				synapses = append(synapses, synapse.New(pre, post, initialWeight))
			}
		}
	}

	incident := make([][]incidence, n)
	for slot, syn := range synapses {
		incident[syn.Pre] = append(incident[syn.Pre], incidence{slot: slot, role: rolePre})
		incident[syn.Post] = append(incident[syn.Post], incidence{slot: slot, role: rolePost})
	}

	return &Simulation{
		neurons:    neurons,
		synapses:   synapses,
		stdpParams: stdpParams,
		config:     config,
		incident:   incident,
	}, nil
}

// Run executes the time loop until the elapsed time reaches TMax and
// returns the collected spike and weight logs.
//
// Within a step, neurons are evaluated in index order and their synapse
// notifications apply immediately, so a lower-indexed neuron's firing is
// visible to weight logging triggered by a higher-indexed neuron in the
// same step. This sequential same-step policy is an observable contract of
// the engine, not an implementation accident.
//
// A nil fn is treated as zero input current everywhere. Run consumes the
// remaining simulated time: calling it again returns empty logs.
func (s *Simulation) Run(fn CurrentFunc) Result {
	if fn == nil {
		fn = func(int, float64) float64 { return 0 }
	}

	var res Result

	for s.time < s.config.TMax {
		for i := range s.neurons {
			input := fn(i, s.time)
			if !s.neurons[i].Step(input, s.config.DT) {
				continue
			}

			res.Spikes = append(res.Spikes, Spike{Neuron: i, Time: s.time})
			s.notify(i)
			s.logWeights(&res, i)
		}
		s.time += s.config.DT
	}

	return res
}

// notify delivers a spike from neuron id to every incident synapse, in
// synapse declaration order. A synapse where the firing neuron is the pre
// side gets OnPreSpike; the post side gets OnPostSpike. Self-loops are
// excluded at construction so at most one applies per synapse.
func (s *Simulation) notify(id int) {
	for _, inc := range s.incident[id] {
		syn := &s.synapses[inc.slot]
		if inc.role == rolePre {
			syn.OnPreSpike(s.time, s.stdpParams)
		} else {
			syn.OnPostSpike(s.time, s.stdpParams)
		}
	}
}

// logWeights appends weight records for the spike that neuron id just
// emitted, per the configured verbosity.
func (s *Simulation) logWeights(res *Result, id int) {
	switch s.config.WeightLog {
	case WeightLogTouched:
		for _, inc := range s.incident[id] {
			syn := &s.synapses[inc.slot]
			res.Weights = append(res.Weights, WeightRecord{
				Time:   s.time,
				Pre:    syn.Pre,
				Post:   syn.Post,
				Weight: syn.Weight,
			})
		}
	default: // WeightLogAll
		for i := range s.synapses {
			syn := &s.synapses[i]
			res.Weights = append(res.Weights, WeightRecord{
				Time:   s.time,
				Pre:    syn.Pre,
				Post:   syn.Post,
				Weight: syn.Weight,
			})
		}
	}
}

// Time returns the current simulated time in ms.
func (s *Simulation) Time() float64 {
	return s.time
}

// NumNeurons returns the population size.
func (s *Simulation) NumNeurons() int {
	return len(s.neurons)
}

// Synapses returns a copy of the current synapse state, in declaration
// order. The copy keeps callers from aliasing engine-owned state.
func (s *Simulation) Synapses() []synapse.Synapse {
	out := make([]synapse.Synapse, len(s.synapses))
	copy(out, s.synapses)
	return out
}

// Potential returns the membrane potential of neuron i.
func (s *Simulation) Potential(i int) float64 {
	return s.neurons[i].VMem
}
