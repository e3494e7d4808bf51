// Package synapse models a directed, plastic connection between two
// neurons. A synapse remembers the most recent spike time on each side and
// applies the STDP rule whenever a new spike arrives opposite a recorded
// one. Neurons are referenced purely by integer index into the population —
// never by pointer — so synapses and neurons cannot form ownership cycles.
package synapse

import "github.com/nvandessel/spikesim/internal/stdp"

// Synapse is a directed edge from neuron Pre to neuron Post carrying a
// plastic weight. Pre != Post always holds; self-loops are excluded when
// the network is built, so a single spike can trigger at most one of
// OnPreSpike / OnPostSpike on any given synapse.
type Synapse struct {
	// Pre is the index of the pre-synaptic (sending) neuron.
	Pre int

	// Post is the index of the post-synaptic (receiving) neuron.
	Post int

	// Weight is the synaptic strength, kept within the STDP bounds
	// [WMin, WMax] by every update.
	Weight float64

	// lastPre and lastPost are the most recent spike times (ms) seen on
	// each side. hasPre/hasPost distinguish "never spiked" from time 0.
	lastPre  float64
	lastPost float64
	hasPre   bool
	hasPost  bool
}

// New creates a synapse from pre to post with the given initial weight and
// no recorded spikes.
func New(pre, post int, weight float64) Synapse {
	return Synapse{
		Pre:    pre,
		Post:   post,
		Weight: weight,
	}
}

// OnPreSpike records a pre-synaptic spike at tPre ms. If a post-synaptic
// spike has been seen, the weight is updated with deltaT = lastPost - tPre
// (depression for the usual case of an older post spike). The first pre
// spike with no prior post spike only records the timestamp.
func (s *Synapse) OnPreSpike(tPre float64, p stdp.Params) {
	if s.hasPost {
		s.Weight = stdp.Apply(s.Weight, s.lastPost-tPre, p)
	}
	s.lastPre = tPre
	s.hasPre = true
}

// OnPostSpike records a post-synaptic spike at tPost ms. If a pre-synaptic
// spike has been seen, the weight is updated with deltaT = tPost - lastPre
// (potentiation for the usual case of an older pre spike).
func (s *Synapse) OnPostSpike(tPost float64, p stdp.Params) {
	if s.hasPre {
		s.Weight = stdp.Apply(s.Weight, tPost-s.lastPre, p)
	}
	s.lastPost = tPost
	s.hasPost = true
}

// LastPreSpike returns the most recent pre-synaptic spike time and whether
// one has been recorded.
func (s *Synapse) LastPreSpike() (float64, bool) {
	return s.lastPre, s.hasPre
}

// LastPostSpike returns the most recent post-synaptic spike time and
// whether one has been recorded.
func (s *Synapse) LastPostSpike() (float64, bool) {
	return s.lastPost, s.hasPost
}
