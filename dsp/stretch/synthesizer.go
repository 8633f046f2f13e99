package stretch

// multiScaleSynthesizer implements §4.6: per-scale inverse transform of the
// advanced-phase spectrum into a windowed time-domain frame, overlap-added
// into each scale's accumulator, and a final mixdown that sums every scale's
// leading outhop samples into one hop of output.
type multiScaleSynthesizer struct {
	config    guideConfiguration
	scaleData map[int]*scaleData
}

func newMultiScaleSynthesizer(config guideConfiguration, scaleData map[int]*scaleData) *multiScaleSynthesizer {
	return &multiScaleSynthesizer{config: config, scaleData: scaleData}
}

// synthesiseChannel rebuilds the time-domain frame for every band Guide
// assigned this frame (cd.guidance.fftBands), each restricted to its own
// [f0,f1] Hz range converted to bins at that band's FFT size, and
// accumulates it via the synthesis window (R3Stretcher::synthesiseChannel).
// The band list is per-frame guidance, not the scale table's static
// construction-time limits: a Guide that varies which scale owns which
// frequency range from frame to frame is followed here exactly.
func (s *multiScaleSynthesizer) synthesiseChannel(cd *channelData, outhop int, sampleRate float64) error {
	longest := s.config.longestFftSize

	for _, band := range cd.guidance.fftBands {
		size := band.fftSize
		sd := s.scaleData[size]
		scale := cd.scales[size]

		bufSize := scale.bufSize

		lowBin := binForFrequency(band.f0, size, sampleRate)
		highBin := binForFrequency(band.f1, size, sampleRate)

		// Like the original, the upper edge of every band is forced down to
		// an odd bin.
		if highBin%2 == 0 && highBin > 0 {
			highBin--
		}

		if highBin > bufSize {
			highBin = bufSize
		}

		// Snapshot this frame's magnitude as next frame's prevMag before
		// winscale destructively rescales mag below (§4.6 step 1).
		copy(scale.prevMag, scale.mag)

		if lowBin > 0 {
			clear(scale.real[:lowBin])
			clear(scale.imag[:lowBin])
		}

		winscale := float64(outhop) / sd.windowScaleFactor

		if highBin > lowBin {
			vScaleRange(scale.mag, winscale, lowBin, highBin)
			vPolarToCartesianRange(scale.real, scale.imag, scale.mag, scale.advancedPhase, lowBin, highBin)
		}

		if highBin < bufSize {
			clear(scale.real[highBin:])
			clear(scale.imag[highBin:])
		}

		if err := sd.fft.inverse(scale.real, scale.imag, scale.timeDomain); err != nil {
			return err
		}

		vFFTShift(scale.timeDomain, size)

		synthWin := sd.synthesisWindow
		synthSize := synthWin.Size()

		srcOffset := (size - synthSize) / 2
		dstOffset := (longest - synthSize) / 2

		synthWin.CutAndAdd(scale.timeDomain[srcOffset:], scale.accumulator[dstOffset:])
	}

	return nil
}

// mixdown sums the leading outhop samples of every scale's accumulator into
// cd.mixdown, then shifts each accumulator left by outhop, zeroing the
// vacated tail. When draining (no more input available) accumulatorFill is
// decremented instead of refilled, so the accumulator empties exactly once.
func (s *multiScaleSynthesizer) mixdown(cd *channelData, outhop int, draining bool) {
	clear(cd.mixdown[:outhop])

	for _, size := range s.config.fftSizes {
		scale := cd.scales[size]

		n := outhop
		if n > len(scale.accumulator) {
			n = len(scale.accumulator)
		}

		for i := 0; i < n; i++ {
			cd.mixdown[i] += scale.accumulator[i]
		}

		remain := copy(scale.accumulator, scale.accumulator[outhop:])
		clear(scale.accumulator[remain:])

		if draining {
			scale.accumulatorFill -= outhop
			if scale.accumulatorFill < 0 {
				scale.accumulatorFill = 0
			}
		} else {
			scale.accumulatorFill = len(scale.accumulator)
		}
	}
}
