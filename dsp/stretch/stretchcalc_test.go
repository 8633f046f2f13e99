package stretch

import "testing"

func TestStretchCalculatorCalculateSingleUnityRatio(t *testing.T) {
	s := newStretchCalculator(44100)

	got := s.calculateSingle(1.0, 1.0, 1.0, 256, 4096, 4096, true)
	if got != 256 {
		t.Fatalf("calculateSingle: got %d, want 256", got)
	}
}

func TestStretchCalculatorCalculateSingleScalesWithRatio(t *testing.T) {
	s := newStretchCalculator(44100)

	// effectivePitchRatio = 1/pitchScale; timeRatio 2 with pitchScale 1
	// (effectivePitchRatio 1) should double the outhop relative to inhop.
	got := s.calculateSingle(2.0, 1.0, 1.0, 256, 4096, 4096, true)
	if got != 512 {
		t.Fatalf("calculateSingle: got %d, want 512", got)
	}
}

func TestStretchCalculatorCalculateSingleNeverBelowOne(t *testing.T) {
	s := newStretchCalculator(44100)

	got := s.calculateSingle(0.0001, 1.0, 1.0, 1, 4096, 4096, true)
	if got < 1 {
		t.Fatalf("calculateSingle: got %d, want >= 1", got)
	}
}
