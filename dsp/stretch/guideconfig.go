package stretch

// bandLimit restricts cartesian/polar conversion and synthesis to a bin
// range [b0min, b1max] at a given FFT size (§3, §4.2, §4.6).
type bandLimit struct {
	fftSize int
	b0min   int
	b1max   int
}

// guideConfiguration is the ordered set of FFT sizes, the longest size L,
// the classification size C, and per-band bin limits, fixed after
// construction (§3). The concrete scale table is an Open Question resolved
// in SPEC_FULL.md §E: four scales {4096, 2048, 1024, 512}, classification
// at 2048, longest at 4096, partitioning the spectrum so shorter scales
// own progressively higher frequency bands.
type guideConfiguration struct {
	fftSizes       []int
	longestFftSize int
	classification int
	formantFftSize int
	bandLimits     []bandLimit
}

func newGuideConfiguration(sampleRate float64) guideConfiguration {
	sizes := []int{4096, 2048, 1024, 512}

	nyquistBin := func(fftSize int) int { return fftSize / 2 }

	// Each scale owns a slice of the spectrum up to a frequency ceiling;
	// the longest scale covers the low end (best frequency resolution for
	// sustained tones), progressively shorter scales take over as
	// frequency rises (better time resolution for transients up high).
	ceilings := map[int]float64{
		4096: 1500,
		2048: 4000,
		1024: 10000,
		512:  sampleRate / 2,
	}

	limits := make([]bandLimit, 0, len(sizes))

	for _, size := range sizes {
		ceiling := ceilings[size]

		b1 := binForFrequency(ceiling, size, sampleRate)
		if b1 > nyquistBin(size) {
			b1 = nyquistBin(size)
		}

		limits = append(limits, bandLimit{fftSize: size, b0min: 0, b1max: b1})
	}

	return guideConfiguration{
		fftSizes:       sizes,
		longestFftSize: sizes[0],
		classification: 2048,
		formantFftSize: sizes[0],
		bandLimits:     limits,
	}
}

func (g guideConfiguration) limitFor(fftSize int) bandLimit {
	for _, b := range g.bandLimits {
		if b.fftSize == fftSize {
			return b
		}
	}

	return bandLimit{fftSize: fftSize, b0min: 0, b1max: fftSize / 2}
}
