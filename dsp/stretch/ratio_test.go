package stretch

import "testing"

func TestRatioStateEffectiveRatioIsProduct(t *testing.T) {
	r := newRatioState(2.0, 1.5, 0)

	if got, want := r.EffectiveRatio(), 3.0; got != want {
		t.Fatalf("EffectiveRatio: got %v, want %v", got, want)
	}

	r.SetTimeRatio(1.0)
	r.SetPitchScale(1.0)

	if got, want := r.EffectiveRatio(), 1.0; got != want {
		t.Fatalf("EffectiveRatio after reset: got %v, want %v", got, want)
	}
}

func TestRatioStateEffectiveFormantScaleDerivesFromPitch(t *testing.T) {
	r := newRatioState(1.0, 2.0, 0)

	if got, want := r.EffectiveFormantScale(), 0.5; got != want {
		t.Fatalf("EffectiveFormantScale: got %v, want %v", got, want)
	}

	r.SetFormantScale(0.75)

	if got, want := r.EffectiveFormantScale(), 0.75; got != want {
		t.Fatalf("EffectiveFormantScale with explicit value: got %v, want %v", got, want)
	}
}

func TestIsFinitePositive(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{1.0, true},
		{0.0001, true},
		{0, false},
		{-1.0, false},
	}

	for _, c := range cases {
		if got := isFinitePositive(c.v); got != c.want {
			t.Errorf("isFinitePositive(%v): got %v, want %v", c.v, got, c.want)
		}
	}
}
