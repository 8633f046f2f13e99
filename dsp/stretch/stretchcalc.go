package stretch

import "math"

// stretchCalculator is a simplified, working implementation of the
// StretchCalculator collaborator (§6: calculateSingle(timeRatio,
// effectivePitchRatio, phaseResetStrength, inhop, longestFft, longestFft,
// groupMode) returning output hop >= 1), out of core scope per §1. In
// "single" (non-segmenting) mode it derives the per-frame output hop
// directly from the input hop and the combined ratio, matching the
// relationship the hop scheduler itself assumes (outhop ~= inhop*ratio).
type stretchCalculator struct {
	sampleRate float64
}

func newStretchCalculator(sampleRate float64) *stretchCalculator {
	return &stretchCalculator{sampleRate: sampleRate}
}

func (s *stretchCalculator) calculateSingle(timeRatio, effectivePitchRatio, phaseResetStrength float64, inhop, longestFft, _ int, groupMode bool) int {
	_ = groupMode
	_ = phaseResetStrength
	_ = longestFft

	ratio := timeRatio / effectivePitchRatio
	if !isFinitePositive(ratio) {
		ratio = timeRatio
	}

	outhop := int(math.Round(float64(inhop) * ratio))
	if outhop < 1 {
		outhop = 1
	}

	return outhop
}

func (s *stretchCalculator) reset() {}
