package stretch

import "math"

// multiScaleAnalyzer implements §4.2: per-channel, per-FFT-size windowed
// forward transform and Cartesian->polar conversion, with a one-hop
// readahead at the classification scale.
type multiScaleAnalyzer struct {
	config    guideConfiguration
	scaleData map[int]*scaleData
	logger    Logger
}

func newMultiScaleAnalyzer(config guideConfiguration, scaleData map[int]*scaleData, logger Logger) *multiScaleAnalyzer {
	return &multiScaleAnalyzer{config: config, scaleData: scaleData, logger: logOrNop(logger)}
}

// cartesianToPolarMag fills mag[from:to] from re/im over the same range.
func cartesianToPolarMag(mag, re, im []float64, from, to int) {
	n := to - from
	vMagnitude(mag[from:from+n], re[from:from+n], im[from:from+n], n)
}

// cartesianToPolarPhase fills phase[from:to] from re/im over the same range.
func cartesianToPolarPhase(phase, re, im []float64, from, to int) {
	for i := from; i < to; i++ {
		phase[i] = math.Atan2(im[i], re[i])
	}
}

// analyseChannel implements R3Stretcher::analyseChannel. inhop is the
// current frame's input hop; prevInhop is the hop used to produce the
// previous frame's readahead (used only to decide readahead reuse).
func (a *multiScaleAnalyzer) analyseChannel(cd *channelData, inhop, prevInhop int) error {
	longest := a.config.longestFftSize
	classify := a.config.classification

	longestScale := cd.scales[longest]
	buf := longestScale.timeDomain

	readSpace := cd.inbuf.ReadSpace()
	if readSpace < longest {
		cd.inbuf.Peek(buf[:readSpace])
		clear(buf[readSpace:])
	} else {
		cd.inbuf.Peek(buf)
	}

	// Populate shorter scales (other than classify/longest) by windowing
	// a centred sub-frame of the unwindowed longest-scale buffer.
	for size, scale := range cd.scales {
		if size == classify || size == longest {
			continue
		}

		offset := (longest - size) / 2
		a.scaleData[size].analysisWindow.Cut(buf[offset:], scale.timeDomain)
	}

	classifyScale := cd.scales[classify]
	readahead := &cd.readahead

	a.scaleData[classify].analysisWindow.Cut(buf[(longest-classify)/2+inhop:], readahead.timeDomain)

	haveValidReadahead := cd.haveReadahead && inhop == prevInhop

	if !haveValidReadahead {
		a.scaleData[classify].analysisWindow.Cut(buf[(longest-classify)/2:], classifyScale.timeDomain)
	}

	// Window the longest scale in place.
	a.scaleData[longest].analysisWindow.Cut(buf, buf)

	if haveValidReadahead {
		copy(classifyScale.mag, readahead.mag)
		copy(classifyScale.phase, readahead.phase)
	}

	vFFTShift(readahead.timeDomain, classify)

	if err := a.scaleData[classify].fft.forward(readahead.timeDomain, classifyScale.real, classifyScale.imag); err != nil {
		return err
	}

	limit := a.config.limitFor(classify)
	cartesianToPolarMag(readahead.mag, classifyScale.real, classifyScale.imag, 0, classify/2+1)
	cartesianToPolarPhase(readahead.phase, classifyScale.real, classifyScale.imag, limit.b0min, limit.b1max+1)
	vScale(readahead.mag, 1.0/float64(classify), len(readahead.mag))

	cd.haveReadahead = true

	for size, scale := range cd.scales {
		if size == classify && haveValidReadahead {
			continue
		}

		vFFTShift(scale.timeDomain, size)

		if err := a.scaleData[size].fft.forward(scale.timeDomain, scale.real, scale.imag); err != nil {
			return err
		}

		b := a.config.limitFor(size)

		if size == classify {
			magCount := size/2 + 1
			cartesianToPolarMag(scale.mag, scale.real, scale.imag, 0, magCount)
			cartesianToPolarPhase(scale.phase, scale.real, scale.imag, b.b0min, b.b1max+1)
			vScale(scale.mag, 1.0/float64(size), magCount)
		} else {
			magFrom, magTo := b.b0min, b.b1max+1
			cartesianToPolarMag(scale.mag, scale.real, scale.imag, magFrom, magTo)
			cartesianToPolarPhase(scale.phase, scale.real, scale.imag, magFrom, magTo)
			vScaleRange(scale.mag, 1.0/float64(size), magFrom, magTo)
		}
	}

	return nil
}
