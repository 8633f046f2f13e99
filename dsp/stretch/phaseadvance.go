package stretch

import "math"

// guidedPhaseAdvance holds one FFT scale's phase-tracking state, shared
// read/write across channels but touched only by the processing thread
// (§9). It implements the phase-vocoder instantaneous-frequency advance,
// invoked once per scale across all channels together (§4.3) using the
// previous frame's hop distances, and guided by the Guide's phase-lock
// hints, which re-pin flagged bins to their reference bin's phase.
type guidedPhaseAdvance struct {
	fftSize int
	omega   []float64

	prevInputPhase  [][]float64
	prevOutputPhase [][]float64
}

func newGuidedPhaseAdvance(fftSize int) *guidedPhaseAdvance {
	bins := fftSize/2 + 1
	omega := make([]float64, bins)

	for i := range omega {
		omega[i] = 2 * math.Pi * float64(i) / float64(fftSize)
	}

	return &guidedPhaseAdvance{fftSize: fftSize, omega: omega}
}

func (g *guidedPhaseAdvance) ensureChannels(n int) {
	if len(g.prevInputPhase) == n {
		return
	}

	bins := len(g.omega)
	g.prevInputPhase = make([][]float64, n)
	g.prevOutputPhase = make([][]float64, n)

	for c := 0; c < n; c++ {
		g.prevInputPhase[c] = make([]float64, bins)
		g.prevOutputPhase[c] = make([]float64, bins)
	}
}

func (g *guidedPhaseAdvance) reset() {
	for c := range g.prevInputPhase {
		clear(g.prevInputPhase[c])
		clear(g.prevOutputPhase[c])
	}
}

// advance computes advancedPhase[c] from phase[c]/prevMag[c] for every
// channel at this scale, using the hop distances (prevInhop, prevOuthop)
// that produced the previously emitted frame (§4.3's essential asymmetry:
// phase deltas are applied across the most recently *used* hop distances,
// not the upcoming ones). guidance carries each channel's phase-lock hints
// for this fftSize (§4.3); bins a hint covers are re-pinned to their
// reference bin's advanced phase after the per-bin instantaneous-frequency
// pass below, which is what makes this a *guided* phase advance rather than
// a plain independent-bin phase vocoder.
func (g *guidedPhaseAdvance) advance(
	outPhase [][]float64,
	mag [][]float64,
	phase [][]float64,
	_ [][]float64, // prevMag: unused by this plain-vocoder advance, kept for contract symmetry
	limit bandLimit,
	prevInhop, prevOuthop int,
	guidance []*guidance,
	fftSize int,
) {
	channels := len(mag)
	g.ensureChannels(channels)

	inhop := float64(prevInhop)
	outhop := float64(prevOuthop)

	if inhop <= 0 {
		inhop = 1
	}

	for c := 0; c < channels; c++ {
		prevIn := g.prevInputPhase[c]
		prevOut := g.prevOutputPhase[c]

		for i := limit.b0min; i <= limit.b1max && i < len(g.omega); i++ {
			measured := phase[c][i]

			delta := measured - prevIn[i] - g.omega[i]*inhop
			delta = wrapPhase(delta)

			instFreq := g.omega[i] + delta/inhop
			next := prevOut[i] + instFreq*outhop

			outPhase[c][i] = next
			prevIn[i] = measured
			prevOut[i] = next
		}

		if c < len(guidance) && guidance[c] != nil {
			g.applyPhaseLocks(c, fftSize, limit, guidance[c].phaseLocks, outPhase[c], phase[c])
		}
	}
}

// applyPhaseLocks re-pins every bin covered by a phase-lock hint for this
// fftSize to its reference bin's just-computed advanced phase, offset by
// the bins' measured phase difference from the reference in the current
// analysis frame. This overrides the independent per-bin advance above for
// exactly the bins Guide flagged, and keeps the locked region's state
// consistent for the next frame's unlocked advance.
func (g *guidedPhaseAdvance) applyPhaseLocks(c, fftSize int, limit bandLimit, hints []phaseLockHint, outPhase, measuredPhase []float64) {
	for _, hint := range hints {
		if hint.fftSize != fftSize {
			continue
		}

		ref := hint.ref
		if ref < limit.b0min || ref > limit.b1max || ref >= len(g.omega) {
			continue
		}

		refOut := outPhase[ref]
		refIn := measuredPhase[ref]

		to := hint.to
		if to > len(g.omega) {
			to = len(g.omega)
		}

		for i := hint.from; i < to; i++ {
			if i < limit.b0min || i > limit.b1max {
				continue
			}

			locked := wrapPhase(refOut + measuredPhase[i] - refIn)

			outPhase[i] = locked
			g.prevOutputPhase[c][i] = locked
			g.prevInputPhase[c][i] = measuredPhase[i]
		}
	}
}

func wrapPhase(p float64) float64 {
	const twoPi = 2 * math.Pi

	p = math.Mod(p+math.Pi, twoPi)
	if p < 0 {
		p += twoPi
	}

	return p - math.Pi
}
