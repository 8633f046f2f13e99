package wavio

import (
	"math"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roundtrip.wav")

	const sampleRate = 44100
	const frames = 512

	left := make([]float64, frames)
	right := make([]float64, frames)

	for i := 0; i < frames; i++ {
		left[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sampleRate)
		right[i] = math.Sin(2 * math.Pi * 220 * float64(i) / sampleRate)
	}

	if err := Write(path, [][]float64{left, right}, sampleRate); err != nil {
		t.Fatalf("Write: %v", err)
	}

	samples, gotRate, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if gotRate != sampleRate {
		t.Fatalf("sample rate: got %d, want %d", gotRate, sampleRate)
	}

	if len(samples) != 2 {
		t.Fatalf("channel count: got %d, want 2", len(samples))
	}

	if len(samples[0]) != frames {
		t.Fatalf("frame count: got %d, want %d", len(samples[0]), frames)
	}

	// 24-bit quantization introduces a small amount of error; allow generous
	// tolerance rather than asserting bit-exactness.
	const tolerance = 1e-3

	for c, ch := range [][]float64{left, right} {
		for i, want := range ch {
			got := samples[c][i]
			if math.Abs(got-want) > tolerance {
				t.Fatalf("channel %d sample %d: got %v, want %v", c, i, got, want)
			}
		}
	}
}

func TestReadRejectsMissingFile(t *testing.T) {
	_, _, err := Read(filepath.Join(t.TempDir(), "does-not-exist.wav"))
	if err == nil {
		t.Fatal("expected an error reading a nonexistent file")
	}
}

func TestWriteRejectsEmptyChannels(t *testing.T) {
	if err := Write(filepath.Join(t.TempDir(), "empty.wav"), nil, 44100); err == nil {
		t.Fatal("expected an error writing with no channels")
	}
}

func TestWriteClampsOutOfRangeSamples(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clamped.wav")

	samples := [][]float64{{2.0, -2.0, 0.0}}

	if err := Write(path, samples, 44100); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out, _, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if out[0][0] < 0.99 || out[0][0] > 1.01 {
		t.Fatalf("clamped sample 0: got %v, want ~1.0", out[0][0])
	}

	if out[0][1] > -0.99 || out[0][1] < -1.01 {
		t.Fatalf("clamped sample 1: got %v, want ~-1.0", out[0][1])
	}
}
