package stretch

import "gonum.org/v1/gonum/stat"

// classificationLabel categorizes a single classification-scale bin.
type classificationLabel int

const (
	labelSilent classificationLabel = iota
	labelNoise
	labelTonal
)

// binClassifier is a simplified, working implementation of the Classifier
// collaborator (§6: classify(magnitudes, outLabels)), out of core scope per
// §1. It tracks a running per-bin noise-floor mean (gonum's stat.Mean, the
// same library the example pack's audio tooling already depends on) and
// labels a bin tonal when its magnitude rises well above that floor,
// silent near zero, and noise-like otherwise.
type binClassifier struct {
	bins      int
	history   [][]float64
	historyAt int
	depth     int
	scratch   []float64
}

const classifierHistoryDepth = 9

func newBinClassifier(bins int) *binClassifier {
	history := make([][]float64, classifierHistoryDepth)
	for i := range history {
		history[i] = make([]float64, bins)
	}

	return &binClassifier{bins: bins, history: history, depth: classifierHistoryDepth, scratch: make([]float64, classifierHistoryDepth)}
}

// classify fills outLabels (len == bins) from magnitudes (len >= bins).
func (c *binClassifier) classify(magnitudes []float64, outLabels []classificationLabel) {
	const (
		silentFloor = 1e-6
		tonalRatio  = 2.5
	)

	slot := c.history[c.historyAt]
	copy(slot, magnitudes[:c.bins])
	c.historyAt = (c.historyAt + 1) % c.depth

	for i := 0; i < c.bins; i++ {
		mag := magnitudes[i]
		if mag < silentFloor {
			outLabels[i] = labelSilent
			continue
		}

		for d := 0; d < c.depth; d++ {
			c.scratch[d] = c.history[d][i]
		}

		floor := stat.Mean(c.scratch, nil)
		if floor <= 0 {
			floor = silentFloor
		}

		if mag > floor*tonalRatio {
			outLabels[i] = labelTonal
		} else {
			outLabels[i] = labelNoise
		}
	}
}
