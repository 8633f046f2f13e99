package stretch

// phaseAdvancer fans the per-channel scale data out into the fixed-size
// "channel assembly" pointer arrays guidedPhaseAdvance.advance expects,
// allocated once at construction so no allocation happens during
// processing (§9).
type phaseAdvancer struct {
	config    guideConfiguration
	scaleData map[int]*scaleData

	mag      [][]float64
	phase    [][]float64
	prevMag  [][]float64
	outPhz   [][]float64
	guidance []*guidance
}

func newPhaseAdvancer(config guideConfiguration, scaleData map[int]*scaleData, channels int) *phaseAdvancer {
	return &phaseAdvancer{
		config:    config,
		scaleData: scaleData,
		mag:       make([][]float64, channels),
		phase:     make([][]float64, channels),
		prevMag:   make([][]float64, channels),
		outPhz:    make([][]float64, channels),
		guidance:  make([]*guidance, channels),
	}
}

// advanceAll runs the guided phase advance for every scale, across all
// channels, using the hop distances that produced the previously emitted
// frame (§4.3). Each channel's guidance record travels alongside its
// mag/phase/prevMag so guidedPhaseAdvance.advance can apply that channel's
// phase-lock hints for this scale.
func (p *phaseAdvancer) advanceAll(channelData []*channelData, prevInhop, prevOuthop int) {
	for _, size := range p.config.fftSizes {
		for c, cd := range channelData {
			scale := cd.scales[size]
			p.mag[c] = scale.mag
			p.phase[c] = scale.phase
			p.prevMag[c] = scale.prevMag
			p.outPhz[c] = scale.advancedPhase
			p.guidance[c] = &cd.guidance
		}

		limit := p.config.limitFor(size)
		p.scaleData[size].guided.advance(p.outPhz, p.mag, p.phase, p.prevMag, limit, prevInhop, prevOuthop, p.guidance, size)
	}
}
