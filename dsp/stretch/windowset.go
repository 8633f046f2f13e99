package stretch

import (
	"github.com/cwbudde/algo-r3stretch/dsp/window"
)

// niemitaloBoundary is the fftSize above which scales use plain Hann
// analysis/synthesis windows; at or below it they use the Niemitalo
// forward/reverse asymmetric pair (§4.6). This also doubles as the
// classification scale's usual size, so the boundary scale itself takes
// the Niemitalo shape.
const niemitaloBoundary = 2048

// stretchWindow adapts dsp/window's Generate free function to the
// Window(shape,length) collaborator contract of §6: cut/cutAndAdd/getSize,
// plus windowScaleFactor (sum of samples), used to normalize OLA gain.
type stretchWindow struct {
	coeffs      []float64
	scaleFactor float64
}

func newAnalysisWindow(fftSize int) *stretchWindow {
	return newStretchWindow(fftSize, fftSize, false)
}

func newSynthesisWindow(fftSize int) *stretchWindow {
	size := fftSize
	if fftSize > niemitaloBoundary {
		size = fftSize / 2
	}

	return newStretchWindow(fftSize, size, true)
}

// newStretchWindow builds a window of length size for a scale of the given
// fftSize; the shape is chosen from fftSize per §4.6 regardless of how the
// synthesis window's own length compares to the boundary.
func newStretchWindow(fftSize, size int, reverse bool) *stretchWindow {
	t := window.TypeHann
	if fftSize <= niemitaloBoundary {
		if reverse {
			t = window.TypeNiemitaloReverse
		} else {
			t = window.TypeNiemitaloForward
		}
	}

	coeffs := window.Generate(t, size, window.WithPeriodic())

	var sum float64
	for _, c := range coeffs {
		sum += c
	}

	return &stretchWindow{coeffs: coeffs, scaleFactor: sum}
}

// Size returns the window length.
func (w *stretchWindow) Size() int { return len(w.coeffs) }

// ScaleFactor returns the sum of window samples, used to normalize OLA gain.
func (w *stretchWindow) ScaleFactor() float64 { return w.scaleFactor }

// Cut applies the window to in, writing the result to out. in must have at
// least Size() samples available from its start.
func (w *stretchWindow) Cut(in, out []float64) {
	n := len(w.coeffs)
	for i := 0; i < n; i++ {
		out[i] = in[i] * w.coeffs[i]
	}
}

// CutAndAdd applies the window to in and accumulates the result into out.
func (w *stretchWindow) CutAndAdd(in, out []float64) {
	n := len(w.coeffs)
	for i := 0; i < n; i++ {
		out[i] += in[i] * w.coeffs[i]
	}
}
