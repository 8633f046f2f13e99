package stretch

import (
	"math"
	"sync/atomic"
)

// ratioState holds the engine's mutable control parameters as lock-free
// atomics so realtime callers may update them from another thread while
// the processing thread reads "recent" values without tearing (§5).
type ratioState struct {
	timeRatio    atomic.Uint64
	pitchScale   atomic.Uint64
	formantScale atomic.Uint64
}

func newRatioState(timeRatio, pitchScale, formantScale float64) *ratioState {
	r := &ratioState{}
	r.timeRatio.Store(math.Float64bits(timeRatio))
	r.pitchScale.Store(math.Float64bits(pitchScale))
	r.formantScale.Store(math.Float64bits(formantScale))

	return r
}

func (r *ratioState) TimeRatio() float64 {
	return math.Float64frombits(r.timeRatio.Load())
}

func (r *ratioState) SetTimeRatio(v float64) {
	r.timeRatio.Store(math.Float64bits(v))
}

func (r *ratioState) PitchScale() float64 {
	return math.Float64frombits(r.pitchScale.Load())
}

func (r *ratioState) SetPitchScale(v float64) {
	r.pitchScale.Store(math.Float64bits(v))
}

func (r *ratioState) FormantScale() float64 {
	return math.Float64frombits(r.formantScale.Load())
}

func (r *ratioState) SetFormantScale(v float64) {
	r.formantScale.Store(math.Float64bits(v))
}

// EffectiveRatio is the product of time ratio and pitch scale used for hop
// pacing (§4.8): time-stretching by timeRatio followed by resampling by
// 1/pitchScale yields the requested pitch shift while matching the
// requested duration, so the hop scheduler must pace on their product.
func (r *ratioState) EffectiveRatio() float64 {
	return r.TimeRatio() * r.PitchScale()
}

// EffectiveFormantScale resolves formantScale == 0 ("derive from pitch")
// to 1/pitchScale, per §4.5 and §4.9's formant adjustment step.
func (r *ratioState) EffectiveFormantScale() float64 {
	f := r.FormantScale()
	if f == 0 {
		return 1.0 / r.PitchScale()
	}

	return f
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
