package stretch

import "testing"

func TestNewAnalysisWindowSize(t *testing.T) {
	w := newAnalysisWindow(1024)
	if w.Size() != 1024 {
		t.Fatalf("Size: got %d, want 1024", w.Size())
	}
}

func TestNewSynthesisWindowHalvesAboveNiemitaloBoundary(t *testing.T) {
	w := newSynthesisWindow(4096)
	if w.Size() != 2048 {
		t.Fatalf("Size: got %d, want 2048 (half of 4096)", w.Size())
	}
}

func TestNewSynthesisWindowMatchesFftSizeAtOrBelowBoundary(t *testing.T) {
	w := newSynthesisWindow(2048)
	if w.Size() != 2048 {
		t.Fatalf("Size: got %d, want 2048", w.Size())
	}

	w = newSynthesisWindow(512)
	if w.Size() != 512 {
		t.Fatalf("Size: got %d, want 512", w.Size())
	}
}

func TestStretchWindowScaleFactorIsSumOfCoeffs(t *testing.T) {
	w := newAnalysisWindow(256)

	var sum float64
	for _, c := range w.coeffs {
		sum += c
	}

	if w.ScaleFactor() != sum {
		t.Fatalf("ScaleFactor: got %v, want %v", w.ScaleFactor(), sum)
	}

	if w.ScaleFactor() <= 0 {
		t.Fatal("expected a positive window gain")
	}
}

func TestStretchWindowCutAndAddAccumulates(t *testing.T) {
	w := newAnalysisWindow(4)

	in := []float64{1, 1, 1, 1}
	out := make([]float64, 4)

	w.CutAndAdd(in, out)
	first := append([]float64{}, out...)

	w.CutAndAdd(in, out)

	for i := range out {
		expected := first[i] * 2
		if out[i] != expected {
			t.Fatalf("CutAndAdd accumulation[%d]: got %v, want %v", i, out[i], expected)
		}
	}
}

func TestStretchWindowCutDoesNotAccumulate(t *testing.T) {
	w := newAnalysisWindow(4)

	in := []float64{1, 1, 1, 1}
	out := make([]float64, 4)

	w.Cut(in, out)
	first := append([]float64{}, out...)

	w.Cut(in, out)

	for i := range out {
		if out[i] != first[i] {
			t.Fatalf("Cut should overwrite, not accumulate, at %d: got %v, want %v", i, out[i], first[i])
		}
	}
}
