package synapse

import (
	"testing"

	"github.com/nvandessel/spikesim/internal/stdp"
)

func TestNew_UnsetTimestamps(t *testing.T) {
	s := New(0, 1, 0.5)

	if _, ok := s.LastPreSpike(); ok {
		t.Error("new synapse should have no pre-spike recorded")
	}
	if _, ok := s.LastPostSpike(); ok {
		t.Error("new synapse should have no post-spike recorded")
	}
}

func TestOnPreSpike_FirstSpikeOnlyRecords(t *testing.T) {
	p := stdp.DefaultParams()
	s := New(0, 1, 0.5)

	s.OnPreSpike(3.0, p)

	if s.Weight != 0.5 {
		t.Errorf("pre-spike with no prior post-spike must not change weight: got %v", s.Weight)
	}
	got, ok := s.LastPreSpike()
	if !ok || got != 3.0 {
		t.Errorf("pre-spike timestamp: got (%v, %v), want (3, true)", got, ok)
	}
}

func TestOnPreSpike_OnlyPreSpikesNeverChangeWeight(t *testing.T) {
	p := stdp.DefaultParams()
	s := New(0, 1, 0.5)

	for i := 0; i < 100; i++ {
		s.OnPreSpike(float64(i), p)
		if s.Weight != 0.5 {
			t.Fatalf("spike %d: weight changed to %v without any post-spike", i, s.Weight)
		}
	}
}

func TestOnPostSpike_AfterPrePotentiates(t *testing.T) {
	p := stdp.DefaultParams()
	s := New(0, 1, 0.5)

	s.OnPreSpike(1.0, p)
	s.OnPostSpike(3.0, p) // deltaT = +2: causal

	want := stdp.Apply(0.5, 2.0, p)
	if s.Weight != want {
		t.Errorf("causal pair: got %v, want %v", s.Weight, want)
	}
	if s.Weight <= 0.5 {
		t.Errorf("causal pair should potentiate: %v", s.Weight)
	}
}

func TestOnPreSpike_AfterPostDepresses(t *testing.T) {
	p := stdp.DefaultParams()
	s := New(0, 1, 0.5)

	s.OnPostSpike(1.0, p)
	s.OnPreSpike(3.0, p) // deltaT = lastPost - tPre = -2: acausal

	want := stdp.Apply(0.5, -2.0, p)
	if s.Weight != want {
		t.Errorf("acausal pair: got %v, want %v", s.Weight, want)
	}
	if s.Weight >= 0.5 {
		t.Errorf("acausal pair should depress: %v", s.Weight)
	}
}

func TestAlternatingSpikes_WeightStaysBounded(t *testing.T) {
	p := stdp.DefaultParams()
	s := New(0, 1, 0.5)

	// Dense alternating and overlapping pre/post activity.
	for i := 0; i < 500; i++ {
		tm := float64(i) * 0.3
		if i%3 == 0 {
			s.OnPreSpike(tm, p)
		} else {
			s.OnPostSpike(tm, p)
		}
		if s.Weight < p.WMin || s.Weight > p.WMax {
			t.Fatalf("spike %d: weight %v escaped [%v, %v]", i, s.Weight, p.WMin, p.WMax)
		}
	}
}

func TestTimestampsAlwaysAdvance(t *testing.T) {
	p := stdp.DefaultParams()
	s := New(2, 7, 0.5)

	s.OnPreSpike(1.0, p)
	s.OnPreSpike(4.0, p)
	if got, _ := s.LastPreSpike(); got != 4.0 {
		t.Errorf("lastPre should track the most recent spike: got %v", got)
	}

	s.OnPostSpike(5.0, p)
	s.OnPostSpike(9.0, p)
	if got, _ := s.LastPostSpike(); got != 9.0 {
		t.Errorf("lastPost should track the most recent spike: got %v", got)
	}
}
