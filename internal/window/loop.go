package window

import (
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

const (
	// maxRate bounds the rates accepted by Run.
	maxRate = 200.0
	// catchUpBudget bounds back-to-back updates in one dispatch while
	// running slowly.
	catchUpBudget = 4
)

var (
	ErrRateOutOfRange = errors.New("rate out of range")
	ErrAlreadyRun     = errors.New("loop already run")
)

// State is the loop's run state.
type State int32

const (
	NotStarted State = iota
	Looping
	Stopped
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Looping:
		return "looping"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

type LoopConfig struct {
	// MultiThreaded dispatches updates from a dedicated goroutine. Handler
	// callbacks may then run concurrently and must synchronize themselves.
	MultiThreaded bool
	// NewClock creates the clocks driving render and update dispatch.
	// Defaults to NewStopwatch.
	NewClock func() Clock
	// OnUpdateThreadStarted runs on the update goroutine before its first
	// dispatch.
	OnUpdateThreadStarted func()
	Log                   *debug.Logger
}

// Loop drives Update at a target period with bounded catch-up and Render at
// a separate target period, pumping the surface's events in between.
type Loop struct {
	surface Surface
	handler Handler
	cfg     LoopConfig
	log     *debug.Logger

	state          atomic.Int32
	exiting        atomic.Bool
	closeRequested atomic.Bool
	unloaded       bool

	targetUpdate atomicFloat
	targetRender atomicFloat

	// update is used by whichever goroutine dispatches updates; render only
	// by the loop goroutine.
	update      frameTiming
	render      frameTiming
	updateStats frameStats
	renderStats frameStats

	renderClock Clock
	updateDone  chan struct{}
	stopOnce    sync.Once
}

func NewLoop(surface Surface, handler Handler, cfg LoopConfig) *Loop {
	if cfg.NewClock == nil {
		cfg.NewClock = func() Clock { return NewStopwatch() }
	}
	log := cfg.Log
	if log == nil {
		log = debug.Default()
	}
	return &Loop{
		surface: surface,
		handler: handler,
		cfg:     cfg,
		log:     log,
	}
}

func (l *Loop) State() State { return State(l.state.Load()) }

// IsExiting reports whether a close has gone ahead.
func (l *Loop) IsExiting() bool { return l.exiting.Load() }

// Close requests the window to close. It is safe to call from any goroutine;
// the close is performed by the loop at its next iteration.
func (l *Loop) Close() {
	l.closeRequested.Store(true)
}

// Run raises Load and an initial Resize, then loops until the window closes.
// A zero rate leaves the corresponding target unchanged.
func (l *Loop) Run(updatesPerSecond, framesPerSecond float64) error {
	if updatesPerSecond < 0 || updatesPerSecond > maxRate {
		return errors.Wrapf(ErrRateOutOfRange, "updates per second %v not in [0, %v]", updatesPerSecond, maxRate)
	}
	if framesPerSecond < 0 || framesPerSecond > maxRate {
		return errors.Wrapf(ErrRateOutOfRange, "frames per second %v not in [0, %v]", framesPerSecond, maxRate)
	}
	if !l.state.CompareAndSwap(int32(NotStarted), int32(Looping)) {
		return ErrAlreadyRun
	}
	defer l.state.Store(int32(Stopped))

	if updatesPerSecond != 0 {
		l.SetTargetUpdateFrequency(updatesPerSecond)
	}
	if framesPerSecond != 0 {
		l.SetTargetRenderFrequency(framesPerSecond)
	}

	l.handler.OnLoad()
	l.handler.OnResize(l.surface.Size())

	if l.cfg.MultiThreaded {
		l.updateDone = make(chan struct{})
		go l.updateThread(l.cfg.NewClock())
	}

	l.renderClock = l.cfg.NewClock()
	l.renderClock.Start()
	for {
		l.processEvents()
		if !l.surface.Exists() || l.IsExiting() {
			break
		}
		if !l.cfg.MultiThreaded {
			l.dispatchUpdate(l.renderClock, &l.update)
		}
		l.dispatchRender()
	}

	l.stopUpdateThread()
	if !l.unloaded {
		l.unloaded = true
		l.handler.OnUnload()
	}
	return nil
}

func (l *Loop) processEvents() {
	for _, e := range l.surface.PollEvents() {
		switch e.Kind {
		case EventResize:
			l.handler.OnResize(e.Width, e.Height)
		case EventClose:
			l.Close()
		}
	}
	if l.closeRequested.Swap(false) && !l.IsExiting() {
		l.closing()
	}
}

func (l *Loop) closing() {
	if l.handler.OnClosing() {
		l.log.Debug("Close cancelled", debug.VerboseOnly)
		return
	}
	l.exiting.Store(true)
	l.stopUpdateThread()
	l.unloaded = true
	l.handler.OnUnload()
}

func (l *Loop) stopUpdateThread() {
	if l.updateDone == nil {
		return
	}
	l.stopOnce.Do(func() {
		l.exiting.Store(true)
		<-l.updateDone
	})
}

func (l *Loop) updateThread(clock Clock) {
	defer close(l.updateDone)

	if l.cfg.OnUpdateThreadStarted != nil {
		l.cfg.OnUpdateThreadStarted()
	}
	clock.Start()
	for l.surface.Exists() && !l.IsExiting() {
		l.dispatchUpdate(clock, &l.update)
		runtime.Gosched()
	}
}

func (l *Loop) dispatchUpdate(clock Clock, t *frameTiming) {
	budget := catchUpBudget
	total := clock.Elapsed()
	elapsed := ClampElapsed(total - t.timestamp)
	target := l.TargetUpdatePeriod()

	for elapsed > 0 && elapsed+t.epsilon >= target {
		l.raiseUpdate(clock, t, elapsed, &total)
		t.epsilon += elapsed - target
		elapsed = ClampElapsed(total - t.timestamp)

		if target <= math.SmallestNonzeroFloat64 {
			break
		}

		t.runningSlowly = t.epsilon >= target
		l.updateStats.runningSlowly.Store(t.runningSlowly)
		if t.runningSlowly {
			if budget--; budget == 0 {
				break
			}
		}
	}
}

func (l *Loop) dispatchRender() {
	total := l.renderClock.Elapsed()
	elapsed := ClampElapsed(total - l.render.timestamp)
	if elapsed <= 0 || elapsed < l.TargetRenderPeriod() {
		return
	}
	l.raiseRender(elapsed, &total)
}

func (l *Loop) raiseUpdate(clock Clock, t *frameTiming, elapsed float64, timestamp *float64) {
	if l.surface.Exists() && !l.IsExiting() {
		l.handler.OnUpdate(elapsed)
	}
	t.period = elapsed
	t.timestamp = *timestamp
	*timestamp = clock.Elapsed()
	t.time = *timestamp - t.timestamp
	l.updateStats.publish(t)
}

func (l *Loop) raiseRender(elapsed float64, timestamp *float64) {
	if l.surface.Exists() && !l.IsExiting() {
		l.handler.OnRender(elapsed)
	}
	l.render.period = elapsed
	l.render.timestamp = *timestamp
	*timestamp = l.renderClock.Elapsed()
	l.render.time = *timestamp - l.render.timestamp
	l.renderStats.publish(&l.render)
}
