package stretch

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// fftPlan adapts algofft's complex transform to the FFT(fftSize) collaborator
// contract of §6: forward(time->real,imag), inverse(real,imag->time), and
// inverseCepstral(mag->cepstrum). Real-valued time-domain frames are packed
// into a complex buffer with a zero imaginary part and transformed with a
// full-length complex FFT, exactly as dsp/effects/pitch's SpectralPitchShifter
// does; only bins [0, fftSize/2] are meaningful by conjugate symmetry, which
// matches the real/imag buffer length fftSize/2+1 the data model calls for.
type fftPlan struct {
	size    int
	half    int
	plan    *algofft.Plan[complex128]
	scratch []complex128
}

func newFFTPlan(size int) (*fftPlan, error) {
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("stretch: failed to build FFT plan for size %d: %w", size, err)
	}

	return &fftPlan{
		size:    size,
		half:    size / 2,
		plan:    plan,
		scratch: make([]complex128, size),
	}, nil
}

// forward transforms a real time-domain frame of length size into real/imag
// spectrum buffers of length half+1.
func (f *fftPlan) forward(timeDomain, re, im []float64) error {
	for i := 0; i < f.size; i++ {
		f.scratch[i] = complex(timeDomain[i], 0)
	}

	if err := f.plan.Forward(f.scratch, f.scratch); err != nil {
		return fmt.Errorf("stretch: forward FFT failed: %w", err)
	}

	for k := 0; k <= f.half; k++ {
		re[k] = real(f.scratch[k])
		im[k] = imag(f.scratch[k])
	}

	return nil
}

// inverse transforms real/imag spectrum buffers of length half+1 back into a
// real time-domain frame of length size, mirroring the conjugate-symmetric
// upper half as dsp/effects/pitch does before calling Inverse.
func (f *fftPlan) inverse(re, im, timeDomain []float64) error {
	f.scratch[0] = complex(re[0], 0)
	f.scratch[f.half] = complex(re[f.half], 0)

	for k := 1; k < f.half; k++ {
		f.scratch[k] = complex(re[k], im[k])
		f.scratch[f.size-k] = complex(re[k], -im[k])
	}

	if err := f.plan.Inverse(f.scratch, f.scratch); err != nil {
		return fmt.Errorf("stretch: inverse FFT failed: %w", err)
	}

	for i := 0; i < f.size; i++ {
		timeDomain[i] = real(f.scratch[i])
	}

	return nil
}

// inverseCepstral computes the real cepstrum of a magnitude spectrum
// (§4.5 step 1): the inverse transform of the log-magnitude spectrum.
// Since the log-magnitude is an even, real-valued function of frequency,
// its inverse FFT is real and can be obtained from a forward transform of
// the same Hermitian-symmetric spectrum (cos is its own conjugate mirror).
func (f *fftPlan) inverseCepstral(mag, cepstrum []float64) error {
	const floor = 1e-12

	f.scratch[0] = complex(math.Log(math.Max(mag[0], floor)), 0)

	for k := 1; k < f.half; k++ {
		lg := math.Log(math.Max(mag[k], floor))
		f.scratch[k] = complex(lg, 0)
		f.scratch[f.size-k] = complex(lg, 0)
	}

	f.scratch[f.half] = complex(math.Log(math.Max(mag[f.half], floor)), 0)

	if err := f.plan.Inverse(f.scratch, f.scratch); err != nil {
		return fmt.Errorf("stretch: inverse cepstral FFT failed: %w", err)
	}

	for i := 0; i < f.size; i++ {
		cepstrum[i] = real(f.scratch[i])
	}

	return nil
}
