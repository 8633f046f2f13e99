package stretch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-r3stretch/dsp/resample"
)

// stretchResampler adapts dsp/resample.Resampler to the Resampler
// collaborator contract of §6: resample(out, outMax, in, inCount, ratio,
// finalFlag) and getEffectiveRatio(requested). The teacher's Resampler
// fixes its rational up/down ratio at construction, while this engine may
// change pitchScale between frames, so the adapter lazily rebuilds the
// underlying resampler (one per channel, since dsp/resample keeps
// per-instance streaming state) whenever the requested ratio has drifted
// enough to change the effective rational approximation.
type stretchResampler struct {
	channels int
	quality  resample.Quality
	maxDen   int

	cores        []*resample.Resampler
	requestedFor float64
}

func newStretchResampler(channels int, highQuality bool) *stretchResampler {
	q := resample.QualityBalanced
	if highQuality {
		q = resample.QualityBest
	}

	return &stretchResampler{
		channels: channels,
		quality:  q,
		maxDen:   1000,
		cores:    make([]*resample.Resampler, channels),
	}
}

func (s *stretchResampler) ensureCores(ratio float64) error {
	if s.cores[0] != nil && s.requestedFor == ratio {
		return nil
	}

	up, down := approximateRatio(ratio, s.maxDen)

	if s.cores[0] != nil {
		if u, d := s.cores[0].Ratio(); u == up && d == down {
			s.requestedFor = ratio
			return nil
		}
	}

	for c := 0; c < s.channels; c++ {
		r, err := resample.NewRational(up, down, resample.WithQuality(s.quality), resample.WithMaxDenominator(s.maxDen))
		if err != nil {
			return fmt.Errorf("stretch: failed to build resampler for ratio %f: %w", ratio, err)
		}

		s.cores[c] = r
	}

	s.requestedFor = ratio

	return nil
}

// getEffectiveRatio returns the resampler's actually achievable ratio for
// the requested value, quantized to the nearest up/down rational
// approximation the polyphase core can realize (§4.8).
func (s *stretchResampler) getEffectiveRatio(requested float64) float64 {
	up, down := approximateRatio(requested, s.maxDen)
	if down == 0 {
		return requested
	}

	return float64(up) / float64(down)
}

// resample converts in[c][:inCount] into out[c], up to outMax samples per
// channel, and returns the number of samples written per channel. finalFlag
// is accepted for contract symmetry with the original collaborator and is
// ignored: no flush is performed, and dsp/resample.Resampler.Process returns
// nothing for empty input, so the filter's delayed tail is not emitted.
func (s *stretchResampler) resample(out [][]float64, outMax int, in [][]float64, inCount int, ratio float64, finalFlag bool) (int, error) {
	_ = finalFlag

	if err := s.ensureCores(ratio); err != nil {
		return 0, err
	}

	written := 0

	for c := 0; c < s.channels; c++ {
		produced := s.cores[c].Process(in[c][:inCount])

		n := len(produced)
		if n > outMax {
			n = outMax
		}

		copy(out[c][:n], produced[:n])

		if c == 0 {
			written = n
		} else if n < written {
			written = n
		}
	}

	return written, nil
}

func (s *stretchResampler) reset() {
	for _, r := range s.cores {
		if r != nil {
			r.Reset()
		}
	}
}

// approximateRatio finds integers up/down with up/down close to ratio and
// down <= maxDen, by scanning every denominator from 1 to maxDen and keeping
// the one with the smallest |ratio - up/down|*down, in the spirit of
// dsp/resample.NewForRates's own rational approximation.
func approximateRatio(ratio float64, maxDen int) (int, int) {
	if !isFinitePositive(ratio) {
		return 1, 1
	}

	bestNum, bestDen := 1, 1
	bestErr := math.Abs(ratio - 1.0)

	for den := 1; den <= maxDen; den++ {
		num := int(math.Round(ratio * float64(den)))
		if num < 1 {
			continue
		}

		err := math.Abs(ratio-float64(num)/float64(den)) * float64(den)
		if err < bestErr {
			bestErr = err
			bestNum = num
			bestDen = den
		}

		if bestErr == 0 {
			break
		}
	}

	return bestNum, bestDen
}
