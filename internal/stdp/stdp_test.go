package stdp

import (
	"math"
	"testing"
)

func TestWeightDelta_CausalPotentiates(t *testing.T) {
	p := DefaultParams()

	for _, deltaT := range []float64{0.1, 1, 10, 100} {
		dw := WeightDelta(deltaT, p)
		if dw <= 0 {
			t.Errorf("deltaT=%v: causal pair should potentiate, got %v", deltaT, dw)
		}
		want := p.APlus * math.Exp(-deltaT/p.TauPlus)
		if math.Abs(dw-want) > 1e-15 {
			t.Errorf("deltaT=%v: got %v, want %v", deltaT, dw, want)
		}
	}
}

func TestWeightDelta_AcausalDepresses(t *testing.T) {
	p := DefaultParams()

	for _, deltaT := range []float64{-0.1, -1, -10, -100} {
		dw := WeightDelta(deltaT, p)
		if dw >= 0 {
			t.Errorf("deltaT=%v: acausal pair should depress, got %v", deltaT, dw)
		}
		want := -p.AMinus * math.Exp(deltaT/p.TauMinus)
		if math.Abs(dw-want) > 1e-15 {
			t.Errorf("deltaT=%v: got %v, want %v", deltaT, dw, want)
		}
	}
}

func TestWeightDelta_SimultaneousTieBreak(t *testing.T) {
	// deltaT == 0 is routed to the depression branch and yields exactly
	// -AMinus. Simulations depend on this tie-break; it must not change.
	p := DefaultParams()

	dw := WeightDelta(0, p)
	if dw != -p.AMinus {
		t.Errorf("deltaT=0: got %v, want exactly %v", dw, -p.AMinus)
	}
}

func TestWeightDelta_DecaysWithSeparation(t *testing.T) {
	p := DefaultParams()

	if WeightDelta(1, p) <= WeightDelta(10, p) {
		t.Error("potentiation should shrink as spikes separate")
	}
	if math.Abs(WeightDelta(-1, p)) <= math.Abs(WeightDelta(-10, p)) {
		t.Error("depression magnitude should shrink as spikes separate")
	}
}

func TestApply_ClampsAtCeiling(t *testing.T) {
	p := DefaultParams()

	// Weight already at the ceiling plus a potentiating update stays put.
	got := Apply(p.WMax, 1.0, p)
	if got != p.WMax {
		t.Errorf("Apply at WMax with positive delta: got %v, want %v", got, p.WMax)
	}
}

func TestApply_ClampsAtFloor(t *testing.T) {
	p := DefaultParams()

	got := Apply(p.WMin, -1.0, p)
	if got != p.WMin {
		t.Errorf("Apply at WMin with negative delta: got %v, want %v", got, p.WMin)
	}
}

func TestApply_UnclampedUpdateIsExact(t *testing.T) {
	p := DefaultParams()

	w := 0.5
	deltaT := 5.0
	got := Apply(w, deltaT, p)
	want := w + WeightDelta(deltaT, p)
	if got != want {
		t.Errorf("Apply in-bounds: got %v, want %v", got, want)
	}
}

func TestClampWeight_Idempotent(t *testing.T) {
	for _, w := range []float64{-5, 0, 0.3, 1, 5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		once := clampWeight(w, 0, 1)
		twice := clampWeight(once, 0, 1)
		if once != twice {
			t.Errorf("clamp(%v): not idempotent, %v != %v", w, once, twice)
		}
		if once < 0 || once > 1 {
			t.Errorf("clamp(%v) = %v escaped [0, 1]", w, once)
		}
	}
}

func TestApply_RepeatedUpdatesStayBounded(t *testing.T) {
	p := DefaultParams()

	// Alternate strongly potentiating and depressing pairs; the weight
	// must remain within bounds after every single update.
	w := 0.5
	for i := 0; i < 1000; i++ {
		deltaT := 0.5
		if i%2 == 0 {
			deltaT = -0.5
		}
		w = Apply(w, deltaT, p)
		if w < p.WMin || w > p.WMax {
			t.Fatalf("iteration %d: weight %v escaped [%v, %v]", i, w, p.WMin, p.WMax)
		}
	}
}

func TestParamsValidate(t *testing.T) {
	valid := DefaultParams()

	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"default is valid", func(*Params) {}, false},
		{"zero a_plus", func(p *Params) { p.APlus = 0 }, true},
		{"zero a_minus", func(p *Params) { p.AMinus = 0 }, true},
		{"negative tau_plus", func(p *Params) { p.TauPlus = -1 }, true},
		{"zero tau_minus", func(p *Params) { p.TauMinus = 0 }, true},
		{"inverted bounds", func(p *Params) { p.WMin = 2; p.WMax = 1 }, true},
		{"equal bounds allowed", func(p *Params) { p.WMin = 0.5; p.WMax = 0.5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
