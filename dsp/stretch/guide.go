package stretch

// fftBand names a frequency region, in Hz, that one FFT scale owns for a
// given frame (§4.6's per-band synthesis loop).
type fftBand struct {
	fftSize int
	f0, f1  float64
}

// kickInfo describes a detected transient edge (§4.4, GLOSSARY "Kick /
// pre-kick"): present, and the [f0,f1] Hz range of the lowest active band
// in which the transient was detected.
type kickInfo struct {
	present bool
	f0, f1  float64
}

// phaseLockHint tells PhaseAdvancer to hold bins [from,to) at fftSize locked
// to ref's own advanced phase plus the bins' measured phase offset from ref,
// instead of letting each bin independently integrate its own instantaneous
// frequency (§1, §4.3). This is the mechanism behind "per-band phase-lock
// hints" in the Guide's collaborator contract: it keeps a region's spectral
// shape — and so a transient's or a tonal partial's coherence — intact
// across the advance step.
type phaseLockHint struct {
	fftSize  int
	from, to int
	ref      int
}

// guidance is the per-frame decision record the Guide produces (§3): which
// FFT bands cover which frequency ranges this frame, the pre-kick/kick
// transient state, and any phase-lock hints for the advance step.
type guidance struct {
	fftBands   []fftBand
	preKick    kickInfo
	kick       kickInfo
	phaseLocks []phaseLockHint
}

// guide is a simplified, working implementation of the Guide collaborator
// (§6: updateGuidance(...)), out of core scope per §1. It assigns the full
// configured scale table to fftBands every frame (using the Hz boundaries
// from guideConfiguration's bin limits) and detects transients by watching
// for a sharp rise in mean classification-scale magnitude relative to a
// short running history, flagging the rising frame as a pre-kick and the
// frame immediately after its peak as the matching kick.
type guide struct {
	config     guideConfiguration
	sampleRate float64

	meanHistory        [4]float64
	meanAt             int
	rising             bool
	risingF0, risingF1 float64
}

func newGuide(config guideConfiguration, sampleRate float64) *guide {
	return &guide{config: config, sampleRate: sampleRate}
}

const kickRiseRatio = 1.8

func (g *guide) updateGuidance(
	ratio float64,
	prevOuthop int,
	mag, prevMag, readaheadMag []float64,
	seg, prevSeg, nextSeg segmentation,
	meanMag float64,
	unityCount int,
	isRealTime, tighterChannelLock bool,
	out *guidance,
) {
	_ = prevOuthop
	_ = prevMag
	_ = readaheadMag
	_ = prevSeg
	_ = nextSeg
	_ = unityCount
	_ = isRealTime
	_ = tighterChannelLock
	_ = ratio
	_ = seg

	out.fftBands = out.fftBands[:0]

	for i, size := range g.config.fftSizes {
		limit := g.config.limitFor(size)
		f0 := 0.0

		if i > 0 {
			prevLimit := g.config.limitFor(g.config.fftSizes[i-1])
			f0 = float64(prevLimit.b1max) * g.sampleRate / float64(g.config.fftSizes[i-1])
		}

		f1 := float64(limit.b1max) * g.sampleRate / float64(size)

		out.fftBands = append(out.fftBands, fftBand{fftSize: size, f0: f0, f1: f1})
	}

	// fftBands[0] must be the lowest-active band per §4.4's contract
	// ("guidance.fftBands[0].fftSize"); our fixed assignment always puts
	// the longest (lowest-frequency) scale first already, so it is taken
	// as is, without a check.
	lowestBand := out.fftBands[0]

	avg := 0.0
	for _, v := range g.meanHistory {
		avg += v
	}

	avg /= float64(len(g.meanHistory))

	wasRising := g.rising

	if !g.rising && avg > 0 && meanMag > avg*kickRiseRatio {
		g.rising = true
		g.risingF0 = lowestBand.f0
		g.risingF1 = lowestBand.f1
	}

	// Only the present flags are cleared: the kick frame reads the preceding
	// pre-kick's f0/f1, which must survive until then.
	out.preKick.present = false
	out.kick.present = false
	out.phaseLocks = out.phaseLocks[:0]

	if g.rising && !wasRising {
		out.preKick = kickInfo{present: true, f0: g.risingF0, f1: g.risingF1}
	} else if g.rising && meanMag <= avg*kickRiseRatio {
		out.kick = kickInfo{present: true, f0: g.risingF0, f1: g.risingF1}
		g.rising = false
	}

	// While a transient edge is active (preKick or kick present), lock the
	// affected bin range in the lowest-active band to its leading bin's
	// phase rather than letting each bin drift independently, so the
	// transient's onset shape survives the phase advance (§4.3).
	if out.preKick.present || out.kick.present {
		fftSize := lowestBand.fftSize
		from := binForFrequency(g.risingF0, fftSize, g.sampleRate)
		to := binForFrequency(g.risingF1, fftSize, g.sampleRate) + 1

		out.phaseLocks = append(out.phaseLocks, phaseLockHint{fftSize: fftSize, from: from, to: to, ref: from})
	}

	g.meanHistory[g.meanAt] = meanMag
	g.meanAt = (g.meanAt + 1) % len(g.meanHistory)
}

func (g *guide) reset() {
	g.meanHistory = [4]float64{}
	g.meanAt = 0
	g.rising = false
}
