package stretch

import "math"

const (
	minOuthop = 128
	maxOuthop = 512
	minInhop  = 1
	maxInhop  = 1024
)

// hopScheduler implements calculateHop (§4.1): given the effective ratio,
// propose an output hop aimed at 256 near ratio 1, shrinking toward 128 for
// ratios well below 1 and growing toward 512 for ratios well above 1.5,
// then derive the ideal input hop from it.
type hopScheduler struct {
	logger Logger
}

func newHopScheduler(logger Logger) *hopScheduler {
	return &hopScheduler{logger: logOrNop(logger)}
}

// calculateHop returns (inhop, outhop) for the given effective ratio.
func (h *hopScheduler) calculateHop(ratio float64) (inhop, outhop int) {
	proposedOuthop := 256.0

	switch {
	case ratio > 1.5:
		proposedOuthop = math.Pow(2.0, 8.0+2.0*math.Log10(ratio-0.5))
	case ratio < 1.0:
		proposedOuthop = math.Pow(2.0, 8.0+2.0*math.Log10(ratio))
	}

	if proposedOuthop > maxOuthop {
		proposedOuthop = maxOuthop
	}

	if proposedOuthop < minOuthop {
		proposedOuthop = minOuthop
	}

	h.logger.Log(SeverityInfo, "calculateHop: ratio and proposed outhop", ratio, proposedOuthop)

	idealInhop := proposedOuthop / ratio
	if idealInhop < minInhop {
		h.logger.Log(SeverityWarning, "extreme ratio yields ideal inhop < 1, results may be suspect", ratio, idealInhop)
		idealInhop = minInhop
	}

	if idealInhop > maxInhop {
		h.logger.Log(SeverityWarning, "extreme ratio yields ideal inhop > 1024, results may be suspect", ratio, idealInhop)
		idealInhop = maxInhop
	}

	inhop = int(math.Floor(idealInhop))

	h.logger.Log(SeverityInfo, "calculateHop: inhop and mean outhop", inhop, float64(inhop)*ratio)

	return inhop, int(proposedOuthop)
}
