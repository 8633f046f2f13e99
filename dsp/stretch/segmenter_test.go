package stretch

import "testing"

func TestBinSegmenterBoundariesFollowLabelRuns(t *testing.T) {
	s := newBinSegmenter(8, 16, 16000)

	labels := []classificationLabel{
		labelNoise, labelNoise, // percussive run: bins [0,2)
		labelTonal, labelTonal, labelTonal, // tonal run: bins [2,5)
		labelSilent, labelSilent, labelSilent, // silent tail: bins [5,8)
	}

	seg := s.segment(labels)

	toHz := func(bin int) float64 { return float64(bin) * 16000 / 16 }

	if seg.percussiveBelow != toHz(2) {
		t.Fatalf("percussiveBelow: got %v, want %v", seg.percussiveBelow, toHz(2))
	}

	if seg.percussiveAbove != toHz(5) {
		t.Fatalf("percussiveAbove: got %v, want %v", seg.percussiveAbove, toHz(5))
	}

	if seg.residualAbove != toHz(5) {
		t.Fatalf("residualAbove: got %v, want %v", seg.residualAbove, toHz(5))
	}
}

func TestBinSegmenterAllTonalRunsToEnd(t *testing.T) {
	s := newBinSegmenter(4, 8, 8000)

	labels := []classificationLabel{labelTonal, labelTonal, labelTonal, labelTonal}

	seg := s.segment(labels)

	toHz := func(bin int) float64 { return float64(bin) * 8000 / 8 }

	if seg.percussiveBelow != toHz(0) {
		t.Fatalf("percussiveBelow: got %v, want %v", seg.percussiveBelow, toHz(0))
	}

	if seg.percussiveAbove != toHz(4) {
		t.Fatalf("percussiveAbove: got %v, want %v", seg.percussiveAbove, toHz(4))
	}
}
