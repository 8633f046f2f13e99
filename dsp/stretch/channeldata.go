package stretch

// scaleData is shared, read-mostly state for one FFT size across all
// channels (§3, §9): the FFT engine, analysis/synthesis windows, and the
// GuidedPhaseAdvance state. It is owned by the Stretcher and referenced by
// each channel's per-scale view; only the processing thread touches it.
type scaleData struct {
	fftSize           int
	fft               *fftPlan
	analysisWindow    *stretchWindow
	synthesisWindow   *stretchWindow
	windowScaleFactor float64
	guided            *guidedPhaseAdvance
}

func newScaleData(fftSize int) (*scaleData, error) {
	fft, err := newFFTPlan(fftSize)
	if err != nil {
		return nil, err
	}

	synth := newSynthesisWindow(fftSize)

	return &scaleData{
		fftSize:           fftSize,
		fft:               fft,
		analysisWindow:    newAnalysisWindow(fftSize),
		synthesisWindow:   synth,
		windowScaleFactor: synth.ScaleFactor(),
		guided:            newGuidedPhaseAdvance(fftSize),
	}, nil
}

// channelScaleData is one channel's working state at one FFT size (§3).
type channelScaleData struct {
	fftSize int
	bufSize int // fftSize/2 + 1

	timeDomain []float64
	real       []float64
	imag       []float64

	mag           []float64
	phase         []float64
	prevMag       []float64
	advancedPhase []float64

	pendingKick []float64

	accumulator     []float64
	accumulatorFill int
}

func newChannelScaleData(fftSize, longest int) *channelScaleData {
	bufSize := fftSize/2 + 1

	return &channelScaleData{
		fftSize:       fftSize,
		bufSize:       bufSize,
		timeDomain:    make([]float64, fftSize),
		real:          make([]float64, bufSize),
		imag:          make([]float64, bufSize),
		mag:           make([]float64, bufSize),
		phase:         make([]float64, bufSize),
		prevMag:       make([]float64, bufSize),
		advancedPhase: make([]float64, bufSize),
		pendingKick:   make([]float64, bufSize),
		accumulator:   make([]float64, longest),
	}
}

func (s *channelScaleData) reset() {
	clear(s.mag)
	clear(s.phase)
	clear(s.prevMag)
	clear(s.advancedPhase)
	clear(s.pendingKick)
	clear(s.accumulator)
	s.accumulatorFill = 0
}

// classificationReadahead holds the one-hop-ahead analysis frame at the
// classification scale (§3, §4.2).
type classificationReadahead struct {
	timeDomain []float64
	mag        []float64
	phase      []float64
}

// formantWorkspace holds the cepstral envelope for formant preservation
// (§4.5).
type formantWorkspace struct {
	fftSize  int
	cepstra  []float64
	envelope []float64
	spare    []float64
}

func newFormantWorkspace(fftSize int) *formantWorkspace {
	return &formantWorkspace{
		fftSize:  fftSize,
		cepstra:  make([]float64, fftSize),
		envelope: make([]float64, fftSize/2+1),
		spare:    make([]float64, fftSize/2+1),
	}
}

// envelopeAt linearly interpolates the formant envelope at a fractional
// bin index, clamping out-of-range arguments to the nearest endpoint
// (§4.5's adjustFormant).
func (f *formantWorkspace) envelopeAt(x float64) float64 {
	n := len(f.envelope)
	if n == 0 {
		return 0
	}

	if x <= 0 {
		return f.envelope[0]
	}

	if x >= float64(n-1) {
		return f.envelope[n-1]
	}

	lo := int(x)
	frac := x - float64(lo)

	return f.envelope[lo]*(1-frac) + f.envelope[lo+1]*frac
}

// channelData is one channel's complete state (§3): input/output rings,
// per-scale working buffers, classification/segmentation history, guidance,
// mixdown, and resample staging buffers.
type channelData struct {
	inbuf  *ringBuffer
	outbuf *ringBuffer

	scales map[int]*channelScaleData

	readahead     classificationReadahead
	haveReadahead bool

	classification     []classificationLabel
	nextClassification []classificationLabel

	segmentation     segmentation
	prevSegmentation segmentation
	nextSegmentation segmentation

	formant *formantWorkspace

	guidance guidance

	mixdown   []float64
	resampled []float64
}

func newChannelData(config guideConfiguration, sampleRate float64, inbufSize int) *channelData {
	longest := config.longestFftSize
	classifyBins := config.classification/2 + 1

	cd := &channelData{
		inbuf:               newRingBuffer(inbufSize),
		outbuf:              newRingBuffer(inbufSize),
		scales:              make(map[int]*channelScaleData),
		classification:      make([]classificationLabel, classifyBins),
		nextClassification:  make([]classificationLabel, classifyBins),
		formant:             newFormantWorkspace(config.formantFftSize),
		mixdown:             make([]float64, maxOuthop*4),
		resampled:           make([]float64, longest*8),
	}

	for _, size := range config.fftSizes {
		cd.scales[size] = newChannelScaleData(size, longest)
	}

	classifyScale := cd.scales[config.classification]
	cd.readahead = classificationReadahead{
		timeDomain: make([]float64, config.classification),
		mag:        make([]float64, classifyScale.bufSize),
		phase:      make([]float64, classifyScale.bufSize),
	}

	_ = sampleRate

	return cd
}

func (cd *channelData) reset() {
	for _, s := range cd.scales {
		s.reset()
	}

	clear(cd.readahead.mag)
	clear(cd.readahead.phase)
	clear(cd.readahead.timeDomain)
	cd.haveReadahead = false

	clear(cd.classification)
	clear(cd.nextClassification)
	cd.segmentation = segmentation{}
	cd.prevSegmentation = segmentation{}
	cd.nextSegmentation = segmentation{}
	cd.guidance = guidance{}
}

// keyFrame is one entry of an offline key-frame map (§3 KeyFrameMap).
type keyFrame struct {
	input  int
	output int
}

// keyFrameMap is an ordered mapping from input-sample index to
// output-sample index, defining piecewise time ratios (§4.1).
type keyFrameMap struct {
	frames []keyFrame
}

func newKeyFrameMap(frames []keyFrame) keyFrameMap {
	return keyFrameMap{frames: frames}
}

func (m keyFrameMap) empty() bool { return len(m.frames) == 0 }

func (m keyFrameMap) first() keyFrame { return m.frames[0] }
