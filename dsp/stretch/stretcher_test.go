package stretch

import (
	"testing"

	"github.com/cwbudde/algo-r3stretch/internal/testutil"
)

func sineSamples(n int, freq, sampleRate float64) []float64 {
	return testutil.DeterministicSine(freq, sampleRate, 1.0, n)
}

func drainAll(t *testing.T, s *Stretcher, channels int) [][]float64 {
	t.Helper()

	out := make([][]float64, channels)
	chunk := make([][]float64, channels)

	for c := range chunk {
		chunk[c] = make([]float64, 4096)
	}

	for {
		n, err := s.Retrieve(chunk)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}

		for c := range out {
			out[c] = append(out[c], chunk[c][:n]...)
		}

		if s.Available() < 0 {
			break
		}
	}

	return out
}

func newTestStretcher(t *testing.T, channels int, timeRatio, pitchScale float64) *Stretcher {
	t.Helper()

	params := Parameters{SampleRate: 44100, Channels: channels, RealTime: false}

	s, err := New(params, timeRatio, pitchScale)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return s
}

func TestStretcherIdentityRatioProducesOutput(t *testing.T) {
	s := newTestStretcher(t, 1, 1.0, 1.0)

	input := sineSamples(4096*4, 440, 44100)
	s.SetExpectedInputDuration(len(input))

	if err := s.Process([][]float64{input}, true); err != nil {
		t.Fatalf("Process: %v", err)
	}

	out := drainAll(t, s, 1)

	if len(out[0]) == 0 {
		t.Fatal("expected some output samples for a near-unity ratio run")
	}
}

func TestStretcherChannelBalanceIsSymmetric(t *testing.T) {
	s := newTestStretcher(t, 2, 1.0, 1.0)

	mono := sineSamples(4096*4, 440, 44100)
	left := append([]float64{}, mono...)
	right := append([]float64{}, mono...)

	s.SetExpectedInputDuration(len(mono))

	if err := s.Process([][]float64{left, right}, true); err != nil {
		t.Fatalf("Process: %v", err)
	}

	out := drainAll(t, s, 2)

	if len(out[0]) != len(out[1]) {
		t.Fatalf("channel length mismatch: left=%d right=%d", len(out[0]), len(out[1]))
	}

	for i := range out[0] {
		if out[0][i] != out[1][i] {
			t.Fatalf("identical stereo input produced divergent output at sample %d: %v != %v", i, out[0][i], out[1][i])
		}
	}
}

func TestStretcherResetIsIdempotent(t *testing.T) {
	input := sineSamples(4096*4, 440, 44100)

	s := newTestStretcher(t, 1, 1.0, 1.0)
	s.SetExpectedInputDuration(len(input))

	if err := s.Process([][]float64{append([]float64{}, input...)}, true); err != nil {
		t.Fatalf("Process (first run): %v", err)
	}

	firstRun := drainAll(t, s, 1)

	s.Reset()
	s.SetExpectedInputDuration(len(input))

	if err := s.Process([][]float64{append([]float64{}, input...)}, true); err != nil {
		t.Fatalf("Process (second run): %v", err)
	}

	secondRun := drainAll(t, s, 1)

	if len(firstRun[0]) != len(secondRun[0]) {
		t.Fatalf("output length changed after Reset: first=%d second=%d", len(firstRun[0]), len(secondRun[0]))
	}

	for i := range firstRun[0] {
		if firstRun[0][i] != secondRun[0][i] {
			t.Fatalf("output diverged after Reset at sample %d: %v != %v", i, firstRun[0][i], secondRun[0][i])
		}
	}
}

func TestStretcherAvailableReturnsMinusOneOnceDrained(t *testing.T) {
	s := newTestStretcher(t, 1, 1.0, 1.0)

	input := sineSamples(4096*4, 440, 44100)
	s.SetExpectedInputDuration(len(input))

	if err := s.Process([][]float64{input}, true); err != nil {
		t.Fatalf("Process: %v", err)
	}

	drainAll(t, s, 1)

	if s.Available() != -1 {
		t.Fatalf("Available after full drain: got %d, want -1", s.Available())
	}
}

func TestStretcherDurationGrowsWithTimeRatio(t *testing.T) {
	input := sineSamples(4096*4, 440, 44100)

	unity := newTestStretcher(t, 1, 1.0, 1.0)
	unity.SetExpectedInputDuration(len(input))

	if err := unity.Process([][]float64{append([]float64{}, input...)}, true); err != nil {
		t.Fatalf("Process (unity): %v", err)
	}

	unityOut := drainAll(t, unity, 1)

	stretched := newTestStretcher(t, 1, 2.0, 1.0)
	stretched.SetExpectedInputDuration(len(input))

	if err := stretched.Process([][]float64{append([]float64{}, input...)}, true); err != nil {
		t.Fatalf("Process (2x): %v", err)
	}

	stretchedOut := drainAll(t, stretched, 1)

	if len(stretchedOut[0]) <= len(unityOut[0]) {
		t.Fatalf("expected a 2x time ratio to produce more output than unity: unity=%d 2x=%d", len(unityOut[0]), len(stretchedOut[0]))
	}
}

func TestStretcherProcessRejectsChannelCountMismatch(t *testing.T) {
	s := newTestStretcher(t, 2, 1.0, 1.0)

	err := s.Process([][]float64{sineSamples(256, 440, 44100)}, true)
	if err == nil {
		t.Fatal("expected an error for a channel count mismatch")
	}
}

func TestStretcherSetTimeRatioRejectedDuringOfflineProcessing(t *testing.T) {
	s := newTestStretcher(t, 1, 1.0, 1.0)

	input := sineSamples(4096*4, 440, 44100)
	s.SetExpectedInputDuration(len(input))

	if err := s.Process([][]float64{input}, false); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if err := s.SetTimeRatio(3.0); err != nil {
		t.Fatalf("SetTimeRatio: got error %v, want nil (rejection is advisory, not an error)", err)
	}

	if got := s.ratio.TimeRatio(); got != 1.0 {
		t.Fatalf("TimeRatio after rejected set: got %v, want 1.0 (unchanged)", got)
	}
}

func TestStretcherSetPitchOptionIsNoOp(t *testing.T) {
	s := newTestStretcher(t, 1, 1.0, 1.0)

	before := s.options
	s.SetPitchOption(OptionPitchHighQuality)

	if s.options != before {
		t.Fatalf("SetPitchOption mutated options: got %v, want unchanged %v", s.options, before)
	}
}

func TestStretcherGetPreferredStartPadAndDelayAreZeroOffline(t *testing.T) {
	s := newTestStretcher(t, 1, 1.0, 1.0)

	if got := s.GetPreferredStartPad(); got != 0 {
		t.Fatalf("GetPreferredStartPad offline: got %d, want 0", got)
	}

	if got := s.GetStartDelay(); got != 0 {
		t.Fatalf("GetStartDelay offline: got %d, want 0", got)
	}
}

func TestStretcherGetPreferredStartPadAndDelayAreNonzeroRealtime(t *testing.T) {
	params := Parameters{SampleRate: 44100, Channels: 1, RealTime: true}

	s, err := New(params, 1.0, 1.0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := s.GetPreferredStartPad(); got != s.config.longestFftSize/2 {
		t.Fatalf("GetPreferredStartPad realtime: got %d, want %d", got, s.config.longestFftSize/2)
	}

	if got := s.GetStartDelay(); got != s.config.longestFftSize/2 {
		t.Fatalf("GetStartDelay realtime at unity pitch: got %d, want %d", got, s.config.longestFftSize/2)
	}
}
