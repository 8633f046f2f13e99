package stretch

import "testing"

func TestCalculateHopNearUnityRatio(t *testing.T) {
	h := newHopScheduler(nil)

	inhop, outhop := h.calculateHop(1.0)

	if outhop != 256 {
		t.Fatalf("outhop: got %d, want 256", outhop)
	}

	if inhop != 256 {
		t.Fatalf("inhop: got %d, want 256", inhop)
	}
}

func TestCalculateHopClampsOuthopBounds(t *testing.T) {
	h := newHopScheduler(nil)

	// Extreme ratios must still produce an outhop within [minOuthop, maxOuthop].
	_, outhopLow := h.calculateHop(0.01)
	if outhopLow < minOuthop || outhopLow > maxOuthop {
		t.Fatalf("outhopLow out of bounds: %d", outhopLow)
	}

	_, outhopHigh := h.calculateHop(100.0)
	if outhopHigh < minOuthop || outhopHigh > maxOuthop {
		t.Fatalf("outhopHigh out of bounds: %d", outhopHigh)
	}
}

func TestCalculateHopClampsInhopBounds(t *testing.T) {
	h := newHopScheduler(nil)

	inhop, _ := h.calculateHop(1000.0)
	if inhop < minInhop {
		t.Fatalf("inhop below minInhop: %d", inhop)
	}

	inhop, _ = h.calculateHop(0.001)
	if inhop > maxInhop {
		t.Fatalf("inhop above maxInhop: %d", inhop)
	}
}

func TestCalculateHopMonotonicAroundUnity(t *testing.T) {
	h := newHopScheduler(nil)

	_, outhopBelow := h.calculateHop(0.5)
	_, outhopAt := h.calculateHop(1.0)
	_, outhopAbove := h.calculateHop(2.0)

	if !(outhopBelow <= outhopAt && outhopAt <= outhopAbove) {
		t.Fatalf("outhop not monotonic: below=%d at=%d above=%d", outhopBelow, outhopAt, outhopAbove)
	}
}
