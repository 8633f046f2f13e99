package stretch

// segmentation partitions a classified frame into frequency regions
// (§6 Segmenter contract, GLOSSARY "Segmentation").
type segmentation struct {
	percussiveBelow float64 // Hz
	percussiveAbove float64 // Hz
	residualAbove   float64 // Hz
}

// binSegmenter is a simplified, working implementation of the Segmenter
// collaborator, out of core scope per §1. It scans the classification
// labels for the highest contiguous run of noise/silent bins at the low
// end (percussive content tends to spread broadband energy there when a
// transient is present) and the lowest tonal run higher up, producing Hz
// boundaries from bin indices.
type binSegmenter struct {
	bins       int
	sampleRate float64
	fftSize    int
}

func newBinSegmenter(bins, fftSize int, sampleRate float64) *binSegmenter {
	return &binSegmenter{bins: bins, sampleRate: sampleRate, fftSize: fftSize}
}

func (s *binSegmenter) segment(labels []classificationLabel) segmentation {
	toHz := func(bin int) float64 {
		return float64(bin) * s.sampleRate / float64(s.fftSize)
	}

	percussiveBelowBin := 0
	for percussiveBelowBin < s.bins && labels[percussiveBelowBin] != labelTonal {
		percussiveBelowBin++
	}

	percussiveAboveBin := percussiveBelowBin
	for percussiveAboveBin < s.bins && labels[percussiveAboveBin] == labelTonal {
		percussiveAboveBin++
	}

	residualAboveBin := percussiveAboveBin
	for residualAboveBin < s.bins && labels[residualAboveBin] != labelSilent {
		residualAboveBin++
	}

	return segmentation{
		percussiveBelow: toHz(percussiveBelowBin),
		percussiveAbove: toHz(percussiveAboveBin),
		residualAbove:   toHz(residualAboveBin),
	}
}
