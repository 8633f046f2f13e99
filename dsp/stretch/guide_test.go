package stretch

import "testing"

func TestGuideUpdateGuidanceAssignsFullScaleTable(t *testing.T) {
	config := newGuideConfiguration(44100)
	g := newGuide(config, 44100)

	var out guidance
	seg := segmentation{}

	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0, 0, false, false, &out)

	if len(out.fftBands) != len(config.fftSizes) {
		t.Fatalf("fftBands length: got %d, want %d", len(out.fftBands), len(config.fftSizes))
	}

	if out.fftBands[0].fftSize != config.longestFftSize {
		t.Fatalf("fftBands[0].fftSize: got %d, want %d (the lowest-active band)", out.fftBands[0].fftSize, config.longestFftSize)
	}
}

func TestGuideDetectsPreKickThenKickOnMagnitudeSpike(t *testing.T) {
	config := newGuideConfiguration(44100)
	g := newGuide(config, 44100)

	var out guidance
	seg := segmentation{}

	// Settle the running mean history at a low level first.
	for i := 0; i < 4; i++ {
		g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)
	}

	// A sharp rise should be flagged as a pre-kick on the frame it appears.
	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 10.0, 0, false, false, &out)
	if !out.preKick.present {
		t.Fatal("expected preKick.present on the rising frame")
	}

	// Once the rise subsides, the following frame should report a kick.
	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)
	if !out.kick.present {
		t.Fatal("expected kick.present once the magnitude spike subsides")
	}
}

func TestGuideDetectsPreKickThenKickOnMagnitudeSpikeAddsPhaseLockHint(t *testing.T) {
	config := newGuideConfiguration(44100)
	g := newGuide(config, 44100)

	var out guidance
	seg := segmentation{}

	for i := 0; i < 4; i++ {
		g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)
	}

	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 10.0, 0, false, false, &out)

	if len(out.phaseLocks) != 1 {
		t.Fatalf("preKick frame: expected exactly one phase-lock hint, got %d", len(out.phaseLocks))
	}

	hint := out.phaseLocks[0]
	if hint.fftSize != config.longestFftSize {
		t.Fatalf("phase-lock hint fftSize: got %d, want %d (lowest-active band)", hint.fftSize, config.longestFftSize)
	}

	if hint.ref != hint.from {
		t.Fatalf("phase-lock hint ref: got %d, want %d (leading bin)", hint.ref, hint.from)
	}

	if hint.to <= hint.from {
		t.Fatalf("phase-lock hint range is empty: from=%d to=%d", hint.from, hint.to)
	}

	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)

	if len(out.phaseLocks) != 1 {
		t.Fatalf("kick frame: expected exactly one phase-lock hint, got %d", len(out.phaseLocks))
	}
}

func TestGuideClearsPhaseLockHintOnceTransientSettles(t *testing.T) {
	config := newGuideConfiguration(44100)
	g := newGuide(config, 44100)

	var out guidance
	seg := segmentation{}

	for i := 0; i < 4; i++ {
		g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)
	}

	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 10.0, 0, false, false, &out)
	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)

	// The frame after the kick fires, the transient has fully settled and no
	// hint should remain.
	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)

	if len(out.phaseLocks) != 0 {
		t.Fatalf("expected no phase-lock hints once settled, got %d", len(out.phaseLocks))
	}
}

func TestGuideResetClearsRisingState(t *testing.T) {
	config := newGuideConfiguration(44100)
	g := newGuide(config, 44100)

	var out guidance
	seg := segmentation{}

	for i := 0; i < 4; i++ {
		g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 0.01, 0, false, false, &out)
	}

	g.updateGuidance(1.0, 256, nil, nil, nil, seg, seg, seg, 10.0, 0, false, false, &out)

	g.reset()

	if g.rising {
		t.Fatal("expected reset to clear rising state")
	}

	for _, v := range g.meanHistory {
		if v != 0 {
			t.Fatal("expected reset to clear mean history")
		}
	}
}
