package stretch

import "math"

// analyseFormant implements §4.5 step 1-3: the real cepstrum of the
// formant scale's magnitude spectrum, liftered at a cutoff derived from the
// sample rate, re-transformed into a smooth magnitude envelope.
func analyseFormant(cd *channelData, sd *scaleData, sampleRate float64) error {
	f := cd.formant
	scale := cd.scales[f.fftSize]

	if err := sd.fft.inverseCepstral(scale.mag, f.cepstra); err != nil {
		return err
	}

	cutoff := int(math.Floor(sampleRate / 650.0))
	if cutoff < 1 {
		cutoff = 1
	}

	f.cepstra[0] /= 2.0
	f.cepstra[cutoff-1] /= 2.0

	for i := cutoff; i < f.fftSize; i++ {
		f.cepstra[i] = 0
	}

	vScale(f.cepstra, 1.0/float64(f.fftSize), cutoff)

	if err := sd.fft.forward(f.cepstra, f.envelope, f.spare); err != nil {
		return err
	}

	binCount := f.fftSize/2 + 1
	for i := 0; i < binCount; i++ {
		f.envelope[i] = math.Exp(f.envelope[i])
		f.envelope[i] *= f.envelope[i]

		if f.envelope[i] > 1.0e10 {
			f.envelope[i] = 1.0e10
		}
	}

	return nil
}

// adjustFormant implements §4.5's adjustFormant: rescales magnitudes at
// every scale so the spectral envelope matches the formant scale's
// envelope, adjusted for the effective formant scale factor.
func adjustFormant(cd *channelData, config guideConfiguration, sampleRate, formantScaleEff float64) {
	const maxRatio = 60.0
	const minRatio = 1.0 / maxRatio

	for _, size := range config.fftSizes {
		scale := cd.scales[size]

		highBin := int(math.Floor(float64(size) * 10000.0 / sampleRate))
		targetFactor := float64(cd.formant.fftSize) / float64(size)
		sourceFactor := targetFactor / formantScaleEff

		limit := config.limitFor(size)

		to := limit.b1max - 1
		if to >= highBin {
			to = highBin - 1
		}

		for i := limit.b0min; i <= to; i++ {
			source := cd.formant.envelopeAt(float64(i) * sourceFactor)
			target := cd.formant.envelopeAt(float64(i) * targetFactor)

			if target <= 0 {
				continue
			}

			ratio := source / target
			if ratio < minRatio {
				ratio = minRatio
			}

			if ratio > maxRatio {
				ratio = maxRatio
			}

			scale.mag[i] *= ratio
		}
	}
}
