// Package wavio adapts go-audio/wav's encoder/decoder to the
// []channel][]float64 shape dsp/stretch.Stretcher expects, the same
// conversion boundary rayboyd-audio-engine's recording path performs with
// go-audio/audio.IntBuffer.
package wavio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Read decodes a WAV file into one []float64 per channel, samples scaled to
// [-1, 1], plus the file's sample rate.
func Read(path string) (samples [][]float64, sampleRate int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: open %q: %w", path, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("wavio: %q is not a valid WAV file", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavio: decode %q: %w", path, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	frames := len(buf.Data) / channels
	samples = make([][]float64, channels)

	for c := range samples {
		samples[c] = make([]float64, frames)
	}

	full := 1 << (buf.SourceBitDepth - 1)
	if buf.SourceBitDepth <= 0 {
		full = 1 << 15
	}

	scale := 1.0 / float64(full)

	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			samples[c][i] = float64(buf.Data[i*channels+c]) * scale
		}
	}

	return samples, buf.Format.SampleRate, nil
}

// Write encodes one []float64 per channel (samples in [-1, 1]) to a 24-bit
// PCM WAV file at the given sample rate, matching the bit depth
// rayboyd-audio-engine's StartRecording uses for its own captured audio.
func Write(path string, samples [][]float64, sampleRate int) error {
	if len(samples) == 0 {
		return fmt.Errorf("wavio: no channels to write")
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %q: %w", path, err)
	}
	defer file.Close()

	const bitDepth = 24

	encoder := wav.NewEncoder(file, sampleRate, bitDepth, len(samples), 1)

	full := float64(int(1) << (bitDepth - 1))
	frames := len(samples[0])

	data := make([]int, frames*len(samples))

	for i := 0; i < frames; i++ {
		for c, ch := range samples {
			v := ch[i]
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}

			data[i*len(samples)+c] = int(math.Round(v * (full - 1)))
		}
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: len(samples), SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("wavio: write %q: %w", path, err)
	}

	return encoder.Close()
}
