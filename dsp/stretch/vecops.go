package stretch

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// vScale multiplies the first n elements of buf by factor, in place.
func vScale(buf []float64, factor float64, n int) {
	vecmath.ScaleBlock(buf[:n], buf[:n], factor)
}

// vScaleInto writes dst[i] = src[i]*factor for the first n elements.
func vScaleInto(dst, src []float64, factor float64, n int) {
	vecmath.ScaleBlock(dst[:n], src[:n], factor)
}

// vScaleRange multiplies buf[from:to] by factor, in place.
func vScaleRange(buf []float64, factor float64, from, to int) {
	vecmath.ScaleBlock(buf[from:to], buf[from:to], factor)
}

// vFFTShift rotates buf (length n, n even) by n/2, swapping the two halves
// in place so that the window centre lands at time-domain index 0.
func vFFTShift(buf []float64, n int) {
	half := n / 2
	for i := 0; i < half; i++ {
		buf[i], buf[i+half] = buf[i+half], buf[i]
	}
}

// vPolarToCartesian writes real/imag from mag/phase over the first n entries.
func vPolarToCartesian(re, im, mag, phase []float64, n int) {
	for i := 0; i < n; i++ {
		s, c := math.Sincos(phase[i])
		re[i] = mag[i] * c
		im[i] = mag[i] * s
	}
}

// vPolarToCartesianRange writes real/imag from mag/phase over [from,to).
func vPolarToCartesianRange(re, im, mag, phase []float64, from, to int) {
	for i := from; i < to; i++ {
		s, c := math.Sincos(phase[i])
		re[i] = mag[i] * c
		im[i] = mag[i] * s
	}
}

// vMean returns the arithmetic mean of buf[:n], or 0 for n<=0.
func vMean(buf []float64, n int) float64 {
	if n <= 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += buf[i]
	}

	return sum / float64(n)
}

// vMagnitude writes out[i] = hypot(re[i], im[i]) for the first n entries.
func vMagnitude(out, re, im []float64, n int) {
	vecmath.Magnitude(out[:n], re[:n], im[:n])
}

// binForFrequency maps a frequency in Hz to the nearest FFT bin index.
func binForFrequency(freqHz float64, fftSize int, sampleRate float64) int {
	if sampleRate <= 0 {
		return 0
	}

	bin := int(math.Round(freqHz * float64(fftSize) / sampleRate))
	if bin < 0 {
		bin = 0
	}

	if bin > fftSize {
		bin = fftSize
	}

	return bin
}
