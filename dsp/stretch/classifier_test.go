package stretch

import "testing"

func TestBinClassifierLabelsSilentBelowFloor(t *testing.T) {
	c := newBinClassifier(4)
	labels := make([]classificationLabel, 4)

	c.classify([]float64{0, 1e-9, 0, 0}, labels)

	for i, l := range labels {
		if l != labelSilent {
			t.Fatalf("labels[%d]: got %v, want labelSilent", i, l)
		}
	}
}

func TestBinClassifierLabelsTonalOnSharpRiseAboveHistory(t *testing.T) {
	c := newBinClassifier(1)
	labels := make([]classificationLabel, 1)

	// Feed a steady low floor for several frames, then a frame far above it.
	for i := 0; i < classifierHistoryDepth; i++ {
		c.classify([]float64{0.01}, labels)
	}

	c.classify([]float64{10.0}, labels)

	if labels[0] != labelTonal {
		t.Fatalf("labels[0]: got %v, want labelTonal", labels[0])
	}
}

func TestBinClassifierLabelsNoiseWhenCloseToFloor(t *testing.T) {
	c := newBinClassifier(1)
	labels := make([]classificationLabel, 1)

	for i := 0; i < classifierHistoryDepth; i++ {
		c.classify([]float64{1.0}, labels)
	}

	c.classify([]float64{1.1}, labels)

	if labels[0] != labelNoise {
		t.Fatalf("labels[0]: got %v, want labelNoise", labels[0])
	}
}
