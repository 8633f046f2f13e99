package stretch

import (
	"fmt"
	"math"
)

const (
	stateJustCreated = iota
	stateStudying
	stateProcessing
	stateFinished
)

// KeyFrame is one entry of an offline key-frame map: input sample index a
// maps to output sample index, defining a piecewise time ratio (§4.1).
type KeyFrame struct {
	Input  int
	Output int
}

// Stretcher is the top-level phase-vocoder time-stretch/pitch-shift engine
// (§2, §3, §4.1, §4.9). It owns per-channel state, the shared per-scale FFT
// and window state, and the control surface (time ratio, pitch scale,
// formant scale/option), and drives the consume loop that turns buffered
// input into buffered output.
type Stretcher struct {
	params Parameters
	config guideConfiguration

	scaleData map[int]*scaleData
	channels  []*channelData

	classifiers []*binClassifier
	segmenters  []*binSegmenter
	guides      []*guide

	analyzer *multiScaleAnalyzer
	synth    *multiScaleSynthesizer
	advancer *phaseAdvancer

	hopSched    *hopScheduler
	stretchCalc *stretchCalculator
	ratio       *ratioState
	resampler   *stretchResampler

	options   Option
	keyFrames keyFrameMap
	logger    Logger

	mixdownPtrs   [][]float64
	resampledPtrs [][]float64

	state          int
	started        bool
	maxProcessSize int

	studyInputDuration    int
	expectedInputDuration int
	totalTargetDuration   int
	consumedInputDuration int
	totalOutputDuration   int
	lastKeyFrameSurpassed int
	startSkip             int
	unityCount            int

	prevInhop  int
	prevOuthop int
}

// New constructs a Stretcher for the given parameters and initial control
// values. All buffers are allocated here; nothing on the hot path allocates
// except a grow-and-copy of an input ring on an oversize block (§3, §5).
func New(params Parameters, initialTimeRatio, initialPitchScale float64) (*Stretcher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	if !isFinitePositive(initialTimeRatio) || !isFinitePositive(initialPitchScale) {
		return nil, ErrInvalidRatio
	}

	config := newGuideConfiguration(params.SampleRate)

	scaleDataTable := make(map[int]*scaleData, len(config.fftSizes))
	for _, size := range config.fftSizes {
		sd, err := newScaleData(size)
		if err != nil {
			return nil, err
		}

		scaleDataTable[size] = sd
	}

	inbufSize := config.longestFftSize * 4
	classifyBins := config.classification/2 + 1

	channels := make([]*channelData, params.Channels)
	classifiers := make([]*binClassifier, params.Channels)
	segmenters := make([]*binSegmenter, params.Channels)
	guides := make([]*guide, params.Channels)

	for c := 0; c < params.Channels; c++ {
		channels[c] = newChannelData(config, params.SampleRate, inbufSize)
		classifiers[c] = newBinClassifier(classifyBins)
		segmenters[c] = newBinSegmenter(classifyBins, config.classification, params.SampleRate)
		guides[c] = newGuide(config, params.SampleRate)
	}

	logger := logOrNop(params.Logger)

	s := &Stretcher{
		params:      params,
		config:      config,
		scaleData:   scaleDataTable,
		channels:    channels,
		classifiers: classifiers,
		segmenters:  segmenters,
		guides:      guides,
		analyzer:    newMultiScaleAnalyzer(config, scaleDataTable, logger),
		synth:       newMultiScaleSynthesizer(config, scaleDataTable),
		advancer:    newPhaseAdvancer(config, scaleDataTable, params.Channels),
		hopSched:    newHopScheduler(logger),
		stretchCalc: newStretchCalculator(params.SampleRate),
		ratio:       newRatioState(initialTimeRatio, initialPitchScale, 0),
		options:     params.Options,
		logger:      logger,
	}

	if params.RealTime {
		s.resampler = newStretchResampler(params.Channels, params.Options.Has(OptionPitchHighQuality))
	}

	s.mixdownPtrs = make([][]float64, params.Channels)
	s.resampledPtrs = make([][]float64, params.Channels)

	for c, cd := range channels {
		s.mixdownPtrs[c] = cd.mixdown
		s.resampledPtrs[c] = cd.resampled
	}

	return s, nil
}

func (s *Stretcher) log(severity int, message string, args ...any) {
	s.logger.Log(severity, message, args...)
}

func frameCount(samples [][]float64) int {
	if len(samples) == 0 {
		return 0
	}

	return len(samples[0])
}

// SetTimeRatio updates the time ratio. In offline mode this is rejected once
// Studying or Processing has begun (§4.1 mode constraints); in realtime mode
// it is always accepted and stored via a lock-free atomic (§5).
func (s *Stretcher) SetTimeRatio(v float64) error {
	if !isFinitePositive(v) {
		return ErrInvalidRatio
	}

	if !s.params.RealTime && (s.state == stateStudying || s.state == stateProcessing) {
		s.log(SeverityWarning, "setTimeRatio rejected during offline studying/processing")
		return nil
	}

	s.ratio.SetTimeRatio(v)
	s.recomputeTotalTargetDuration()

	return nil
}

// SetPitchScale updates the pitch scale, subject to the same mode
// constraints as SetTimeRatio.
func (s *Stretcher) SetPitchScale(v float64) error {
	if !isFinitePositive(v) {
		return ErrInvalidRatio
	}

	if !s.params.RealTime && (s.state == stateStudying || s.state == stateProcessing) {
		s.log(SeverityWarning, "setPitchScale rejected during offline studying/processing")
		return nil
	}

	s.ratio.SetPitchScale(v)

	return nil
}

// SetFormantScale updates the formant scale (0 means "derive from pitch"),
// subject to the same mode constraints as SetTimeRatio.
func (s *Stretcher) SetFormantScale(v float64) error {
	if v != 0 && !isFinitePositive(v) {
		return ErrInvalidRatio
	}

	if !s.params.RealTime && (s.state == stateStudying || s.state == stateProcessing) {
		s.log(SeverityWarning, "setFormantScale rejected during offline studying/processing")
		return nil
	}

	s.ratio.SetFormantScale(v)

	return nil
}

// SetFormantOption toggles between OptionFormantShifted and
// OptionFormantPreserved, masking out whichever bit was previously set
// (§6). Any other bits in opt are ignored.
func (s *Stretcher) SetFormantOption(opt Option) error {
	if !s.params.RealTime && (s.state == stateStudying || s.state == stateProcessing) {
		s.log(SeverityWarning, "setFormantOption rejected during offline studying/processing")
		return nil
	}

	s.options = normalizeFormantOption(s.options, opt)

	return nil
}

// SetPitchOption is intentionally a no-op (§9 design note c): the original
// engine never wires this setter to the resampler core, a source quirk this
// implementation retains and flags rather than silently "fixes".
func (s *Stretcher) SetPitchOption(Option) {
	s.log(SeverityWarning, "setPitchOption has no effect after construction")
}

// SetKeyFrameMap installs an offline key-frame map. Rejected in realtime
// mode or once Processing has begun (§4.1).
func (s *Stretcher) SetKeyFrameMap(frames []KeyFrame) error {
	if s.params.RealTime {
		s.log(SeverityWarning, "setKeyFrameMap rejected in realtime mode")
		return nil
	}

	if s.state == stateProcessing || s.state == stateFinished {
		s.log(SeverityWarning, "setKeyFrameMap rejected after processing begins")
		return nil
	}

	internal := make([]keyFrame, len(frames))
	for i, f := range frames {
		internal[i] = keyFrame{input: f.Input, output: f.Output}
	}

	s.keyFrames = newKeyFrameMap(internal)
	s.recomputeTotalTargetDuration()

	return nil
}

// SetExpectedInputDuration informs the engine of the total input length
// expected in offline mode, used to derive totalTargetDuration absent a
// key-frame map.
func (s *Stretcher) SetExpectedInputDuration(samples int) {
	s.expectedInputDuration = samples
	s.recomputeTotalTargetDuration()
}

// SetMaxProcessSize presizes the input/output rings for the largest block
// the caller intends to pass to Process in one call.
func (s *Stretcher) SetMaxProcessSize(samples int) {
	s.maxProcessSize = samples

	for _, cd := range s.channels {
		if samples > cd.inbuf.Size() {
			cd.inbuf = cd.inbuf.Resized(samples)
		}

		if samples > cd.outbuf.Size() {
			cd.outbuf = cd.outbuf.Resized(samples)
		}
	}
}

func (s *Stretcher) recomputeTotalTargetDuration() {
	if !s.keyFrames.empty() {
		last := s.keyFrames.frames[len(s.keyFrames.frames)-1]
		s.totalTargetDuration = last.output
		return
	}

	s.totalTargetDuration = int(math.Round(float64(s.expectedInputDuration) * s.ratio.TimeRatio()))
}

// Study accumulates studyInputDuration during the offline pre-pass. It is
// not legal to call Study after Processing has begun (§4.1).
func (s *Stretcher) Study(samples [][]float64, final bool) error {
	if s.state == stateProcessing || s.state == stateFinished {
		s.log(SeverityWarning, "study called after processing began")
		return nil
	}

	s.state = stateStudying
	s.studyInputDuration += frameCount(samples)
	_ = final

	return nil
}

// ensureStarted performs the offline startup padding on first entry to
// Processing from JustCreated or Studying (§4.1).
func (s *Stretcher) ensureStarted() {
	if s.started {
		return
	}

	s.started = true
	pad := s.config.longestFftSize / 2

	for _, cd := range s.channels {
		cd.inbuf.Zero(pad)
	}

	s.startSkip = int(math.Round(float64(pad) / s.ratio.PitchScale()))
}

func (s *Stretcher) feed(samples [][]float64) error {
	if len(samples) != len(s.channels) {
		return fmt.Errorf("stretch: process channel count mismatch: got %d want %d", len(samples), len(s.channels))
	}

	for c, cd := range s.channels {
		data := samples[c]
		if len(data) > cd.inbuf.WriteSpace() {
			newSize := cd.inbuf.Size()
			for newSize-cd.inbuf.ReadSpace() < len(data) {
				newSize *= 2
			}

			s.log(SeverityWarning, "input block exceeds ring capacity, growing ring", cd.inbuf.Size(), newSize)
			cd.inbuf = cd.inbuf.Resized(newSize)
		}

		cd.inbuf.Write(data)
	}

	return nil
}

// Process feeds one block of input samples (one slice per channel) into the
// engine and runs the consume loop as far as output space allows. final
// transitions the engine to Finished (§4.1): no further Process calls are
// permitted, but Retrieve continues to work until the output drains. On
// entry from JustCreated or Studying in offline mode, totalTargetDuration is
// recomputed fresh from studyInputDuration/expectedInputDuration and the
// current time ratio (§D.3), independent of any explicit SetExpectedInputDuration
// call made earlier.
func (s *Stretcher) Process(samples [][]float64, final bool) error {
	if s.state == stateFinished {
		s.log(SeverityWarning, "process called after Finished")
		return nil
	}

	if !s.params.RealTime {
		switch s.state {
		case stateStudying:
			s.totalTargetDuration = int(math.Round(float64(s.studyInputDuration) * s.ratio.TimeRatio()))
			s.log(SeverityInfo, "study duration and target duration", s.studyInputDuration, s.totalTargetDuration)

			if s.ratio.PitchScale() != 1.0 {
				s.ensureResampler()
			}
		case stateJustCreated:
			if s.expectedInputDuration != 0 {
				s.totalTargetDuration = int(math.Round(float64(s.expectedInputDuration) * s.ratio.TimeRatio()))
				s.log(SeverityInfo, "supplied duration and target duration", s.expectedInputDuration, s.totalTargetDuration)
			}
		}
	}

	if s.state == stateJustCreated || s.state == stateStudying {
		s.ensureStarted()
		s.state = stateProcessing
	}

	if err := s.feed(samples); err != nil {
		return err
	}

	if final {
		s.state = stateFinished
	}

	return s.consume()
}

func (s *Stretcher) ensureResampler() {
	if s.resampler != nil {
		return
	}

	s.resampler = newStretchResampler(s.params.Channels, s.options.Has(OptionPitchHighQuality))
}

// applyKeyFrameMap implements §4.1's per-frame key-frame lookup: before each
// frame, if a key-frame map is installed, it derives the local time ratio
// from the surrounding pair of key frames and advances lastKeyFrameSurpassed
// once the input index has caught up with the next one.
func (s *Stretcher) applyKeyFrameMap() {
	if s.keyFrames.empty() {
		return
	}

	frames := s.keyFrames.frames

	if s.consumedInputDuration == 0 {
		first := frames[0]
		if first.input > 0 {
			s.ratio.SetTimeRatio(float64(first.output) / float64(first.input))
		}

		s.lastKeyFrameSurpassed = 0

		return
	}

	idx := -1

	for i, f := range frames {
		if f.input > s.lastKeyFrameSurpassed {
			idx = i
			break
		}
	}

	if idx == -1 {
		return
	}

	entry := frames[idx]
	if s.consumedInputDuration < entry.input {
		return
	}

	nextInput, nextOutput := s.studyInputDuration, s.totalTargetDuration
	if idx+1 < len(frames) {
		nextInput, nextOutput = frames[idx+1].input, frames[idx+1].output
	}

	deltaInput := nextInput - entry.input
	deltaOutput := nextOutput - entry.output

	if deltaOutput <= 0 {
		deltaOutput = 1
	}

	if deltaInput > 0 {
		s.ratio.SetTimeRatio(float64(deltaOutput) / float64(deltaInput))
	}

	s.lastKeyFrameSurpassed = entry.input
}

// consume is the main loop (§4.9): while the channel-0 output ring has
// room for another frame, run one full analysis/guidance/advance/
// synthesis/resample/emit cycle, advancing the input rings by the hop that
// produced it.
func (s *Stretcher) consume() error {
	longest := s.config.longestFftSize
	tighterLock := s.options.Has(OptionChannelsTogether)

	for {
		ratio := s.ratio.EffectiveRatio()
		inhop, _ := s.hopSched.calculateHop(ratio)

		pitchScale := s.ratio.PitchScale()
		useResampler := pitchScale != 1.0 || s.options.Has(OptionPitchHighConsistency)

		effectivePitchRatio := 1.0 / pitchScale
		if useResampler {
			s.ensureResampler()
			effectivePitchRatio = s.resampler.getEffectiveRatio(1.0 / pitchScale)
		}

		outhop := s.stretchCalc.calculateSingle(s.ratio.TimeRatio(), effectivePitchRatio, 1.0, inhop, longest, longest, true)

		if s.channels[0].outbuf.WriteSpace() < outhop {
			return nil
		}

		readSpace := s.channels[0].inbuf.ReadSpace()

		if readSpace < longest && s.state != stateFinished {
			return nil
		}

		longestFill := s.channels[0].scales[longest].accumulatorFill
		if s.state == stateFinished && readSpace == 0 && longestFill == 0 {
			return nil
		}

		s.applyKeyFrameMap()

		if math.Abs(s.ratio.EffectiveRatio()-1.0) < 1e-6 {
			s.unityCount++
		} else {
			s.unityCount = 0
		}

		for _, cd := range s.channels {
			if err := s.analyzer.analyseChannel(cd, inhop, s.prevInhop); err != nil {
				return err
			}
		}

		for ci, cd := range s.channels {
			classifyScale := cd.scales[s.config.classification]

			copy(cd.classification, cd.nextClassification)
			s.classifiers[ci].classify(cd.readahead.mag, cd.nextClassification)

			cd.prevSegmentation = cd.segmentation
			cd.segmentation = cd.nextSegmentation
			cd.nextSegmentation = s.segmenters[ci].segment(cd.nextClassification)

			meanMag := vMean(cd.readahead.mag, len(cd.readahead.mag))

			s.guides[ci].updateGuidance(
				ratio, s.prevOuthop,
				classifyScale.mag, classifyScale.prevMag, cd.readahead.mag,
				cd.segmentation, cd.prevSegmentation, cd.nextSegmentation,
				meanMag, s.unityCount, s.params.RealTime, tighterLock,
				&cd.guidance,
			)
		}

		s.advancer.advanceAll(s.channels, s.prevInhop, s.prevOuthop)

		for _, cd := range s.channels {
			adjustPreKick(cd, s.params.SampleRate)
		}

		if s.options.Has(OptionFormantPreserved) {
			formantScaleEff := s.ratio.EffectiveFormantScale()
			formantSD := s.scaleData[s.config.formantFftSize]

			for _, cd := range s.channels {
				if err := analyseFormant(cd, formantSD, s.params.SampleRate); err != nil {
					return err
				}

				adjustFormant(cd, s.config, s.params.SampleRate, formantScaleEff)
			}
		}

		draining := s.state == stateFinished

		for _, cd := range s.channels {
			if err := s.synth.synthesiseChannel(cd, outhop, s.params.SampleRate); err != nil {
				return err
			}

			s.synth.mixdown(cd, outhop, draining)
		}

		writeCount := outhop
		outSamples := s.mixdownPtrs

		if useResampler {
			written, err := s.resampler.resample(s.resampledPtrs, len(s.channels[0].resampled), s.mixdownPtrs, outhop, 1.0/pitchScale, draining)
			if err != nil {
				return err
			}

			writeCount = written
			outSamples = s.resampledPtrs
		}

		if !s.params.RealTime && s.totalTargetDuration > 0 && s.totalOutputDuration+writeCount > s.totalTargetDuration {
			writeCount = s.totalTargetDuration - s.totalOutputDuration
			if writeCount < 0 {
				writeCount = 0
			}
		}

		for c, cd := range s.channels {
			cd.outbuf.Write(outSamples[c][:writeCount])
		}

		advance := inhop
		if advance > readSpace {
			advance = readSpace
		}

		for _, cd := range s.channels {
			cd.inbuf.Skip(advance)
		}

		s.consumedInputDuration += advance
		s.totalOutputDuration += writeCount

		if s.startSkip > 0 {
			avail := s.channels[0].outbuf.ReadSpace()

			toSkip := s.startSkip
			if toSkip > avail {
				toSkip = avail
			}

			for _, cd := range s.channels {
				cd.outbuf.Skip(toSkip)
			}

			s.startSkip -= toSkip

			// A reassignment, not an increment: retained verbatim per §9
			// design note (b).
			s.totalOutputDuration = avail - toSkip
		}

		s.prevInhop = inhop
		s.prevOuthop = outhop
	}
}

func (s *Stretcher) hasPendingFrames() bool {
	for _, cd := range s.channels {
		if cd.inbuf.ReadSpace() > 0 {
			return true
		}

		if cd.scales[s.config.longestFftSize].accumulatorFill > 0 {
			return true
		}
	}

	return false
}

// Available returns the number of output samples ready to Retrieve, or -1
// once Finished and fully drained (§4.1).
func (s *Stretcher) Available() int {
	rs := s.channels[0].outbuf.ReadSpace()

	if s.state == stateFinished && rs == 0 && !s.hasPendingFrames() {
		return -1
	}

	return rs
}

// Retrieve copies buffered output into out (one slice per channel, each
// sized for the caller's desired read count) and runs another round of
// consume in case the drain freed up room for more frames.
func (s *Stretcher) Retrieve(out [][]float64) (int, error) {
	if len(out) != len(s.channels) {
		return 0, fmt.Errorf("stretch: retrieve channel count mismatch: got %d want %d", len(out), len(s.channels))
	}

	n := 0

	for c, cd := range s.channels {
		got := cd.outbuf.Read(out[c])

		if c == 0 {
			n = got
		} else if got != n {
			s.log(SeverityWarning, "retrieve: per-channel read count mismatch", c, got, n)

			if got < n {
				n = got
			}
		}
	}

	if err := s.consume(); err != nil {
		return n, err
	}

	return n, nil
}

// GetSamplesRequired returns how many more input samples are needed before
// the next analysis frame can run.
func (s *Stretcher) GetSamplesRequired() int {
	need := s.config.longestFftSize - s.channels[0].inbuf.ReadSpace()
	if need < 0 {
		return 0
	}

	return need
}

// GetPreferredStartPad returns L/2, the zero padding prefilled into each
// input ring on first entry to Processing (§4.1). Offline mode reports zero:
// the padding there is an internal implementation detail (see startSkip)
// invisible to the caller, matching the original accessor's realtime-only
// behaviour (SPEC_FULL.md §D.5).
func (s *Stretcher) GetPreferredStartPad() int {
	if !s.params.RealTime {
		return 0
	}

	return s.config.longestFftSize / 2
}

// GetStartDelay returns the startSkip sample count that will be discarded
// from the head of the output once Processing begins, at the current pitch
// scale (§4.1). Offline-only zero, for the same reason as
// GetPreferredStartPad.
func (s *Stretcher) GetStartDelay() int {
	if !s.params.RealTime {
		return 0
	}

	return int(math.Round(float64(s.config.longestFftSize/2) / s.ratio.PitchScale()))
}

// Reset returns the engine to JustCreated, zeroing all per-channel state and
// ring buffers (§4.1, §8 "idempotent reset").
func (s *Stretcher) Reset() {
	for _, cd := range s.channels {
		cd.inbuf = newRingBuffer(cd.inbuf.Size())
		cd.outbuf = newRingBuffer(cd.outbuf.Size())
		cd.reset()
	}

	for _, sd := range s.scaleData {
		sd.guided.reset()
	}

	for _, g := range s.guides {
		g.reset()
	}

	s.stretchCalc.reset()

	if s.resampler != nil {
		s.resampler.reset()
	}

	s.state = stateJustCreated
	s.started = false
	s.studyInputDuration = 0
	s.expectedInputDuration = 0
	s.totalTargetDuration = 0
	s.consumedInputDuration = 0
	s.totalOutputDuration = 0
	s.lastKeyFrameSurpassed = 0
	s.startSkip = 0
	s.unityCount = 0
	s.prevInhop = 0
	s.prevOuthop = 0
}
