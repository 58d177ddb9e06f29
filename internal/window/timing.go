package window

import (
	"math"
	"sync/atomic"
)

const (
	maxFrequency = 500.0
	minPeriod    = 0.002
	maxPeriod    = 1.0
)

type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// frameTiming is owned by the goroutine that dispatches the frames it
// describes.
type frameTiming struct {
	timestamp     float64
	period        float64
	time          float64
	epsilon       float64
	runningSlowly bool
}

// frameStats is the published, goroutine-safe view of a frameTiming.
type frameStats struct {
	period        atomicFloat
	time          atomicFloat
	runningSlowly atomic.Bool
}

func (s *frameStats) publish(t *frameTiming) {
	s.period.Store(t.period)
	s.time.Store(t.time)
	s.runningSlowly.Store(t.runningSlowly)
}

// periodForFrequency converts a target frequency into a period. Frequencies
// below one are uncapped; above maxFrequency they are rejected.
func periodForFrequency(f float64) (float64, bool) {
	if f < 1.0 {
		return 0, true
	}
	if f > maxFrequency {
		return 0, false
	}
	return 1.0 / f, true
}

// clampPeriod collapses tiny periods to uncapped and rejects periods longer
// than a second.
func clampPeriod(p float64) (float64, bool) {
	if p <= minPeriod {
		return 0, true
	}
	if p > maxPeriod {
		return 0, false
	}
	return p, true
}

func frequency(period float64) float64 {
	if period == 0 {
		return 0
	}
	return 1.0 / period
}

func (l *Loop) SetTargetUpdateFrequency(f float64) {
	if p, ok := periodForFrequency(f); ok {
		l.SetTargetUpdatePeriod(p)
	}
}

func (l *Loop) SetTargetUpdatePeriod(p float64) {
	if p, ok := clampPeriod(p); ok {
		l.targetUpdate.Store(p)
	}
}

func (l *Loop) SetTargetRenderFrequency(f float64) {
	if p, ok := periodForFrequency(f); ok {
		l.SetTargetRenderPeriod(p)
	}
}

func (l *Loop) SetTargetRenderPeriod(p float64) {
	if p, ok := clampPeriod(p); ok {
		l.targetRender.Store(p)
	}
}

func (l *Loop) TargetUpdatePeriod() float64    { return l.targetUpdate.Load() }
func (l *Loop) TargetRenderPeriod() float64    { return l.targetRender.Load() }
func (l *Loop) TargetUpdateFrequency() float64 { return frequency(l.TargetUpdatePeriod()) }
func (l *Loop) TargetRenderFrequency() float64 { return frequency(l.TargetRenderPeriod()) }

// UpdatePeriod is the delta passed to the most recent update.
func (l *Loop) UpdatePeriod() float64 { return l.updateStats.period.Load() }

// UpdateTime is how long the most recent update took.
func (l *Loop) UpdateTime() float64 { return l.updateStats.time.Load() }

func (l *Loop) RenderPeriod() float64 { return l.renderStats.period.Load() }

func (l *Loop) RenderTime() float64 { return l.renderStats.time.Load() }

// UpdateFrequency is the observed update rate; 1 before the first update.
func (l *Loop) UpdateFrequency() float64 {
	if p := l.UpdatePeriod(); p != 0 {
		return 1.0 / p
	}
	return 1.0
}

func (l *Loop) RenderFrequency() float64 {
	if p := l.RenderPeriod(); p != 0 {
		return 1.0 / p
	}
	return 1.0
}

// RunningSlowly reports whether updates are behind their target cadence.
func (l *Loop) RunningSlowly() bool { return l.updateStats.runningSlowly.Load() }
