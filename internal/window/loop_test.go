package window

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

// manualClock returns now, then advances it by step on every read.
type manualClock struct {
	mu   sync.Mutex
	now  float64
	step float64
}

func (c *manualClock) Start() {}

func (c *manualClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.now
	c.now += c.step
	return v
}

type fakeSurface struct {
	mu         sync.Mutex
	polls      int
	script     map[int][]Event
	closeAfter int
	exists     atomic.Bool
	w, h       int
}

func newFakeSurface() *fakeSurface {
	s := &fakeSurface{script: map[int][]Event{}, w: 640, h: 480}
	s.exists.Store(true)
	return s
}

func (s *fakeSurface) PollEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	if s.closeAfter > 0 && s.polls >= s.closeAfter {
		return append(s.script[s.polls], Event{Kind: EventClose})
	}
	return s.script[s.polls]
}

func (s *fakeSurface) Exists() bool      { return s.exists.Load() }
func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

type recorder struct {
	mu       sync.Mutex
	calls    []string
	updates  int
	renders  int
	resizes  [][2]int
	cancel   bool
	onUpdate func()
}

func (r *recorder) record(c string) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

func (r *recorder) OnLoad() { r.record("load") }

func (r *recorder) OnUpdate(float64) {
	r.mu.Lock()
	r.updates++
	fn := r.onUpdate
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (r *recorder) OnRender(float64) {
	r.mu.Lock()
	r.renders++
	r.mu.Unlock()
}

func (r *recorder) OnResize(w, h int) {
	r.mu.Lock()
	r.resizes = append(r.resizes, [2]int{w, h})
	r.mu.Unlock()
	r.record("resize")
}

func (r *recorder) OnClosing() bool {
	r.record("closing")
	r.mu.Lock()
	defer r.mu.Unlock()
	cancel := r.cancel
	r.cancel = false
	return cancel
}

func (r *recorder) OnUnload() { r.record("unload") }

func quietLogger() *debug.Logger {
	l, _ := test.NewNullLogger()
	return debug.NewWithLogger(l)
}

func newTestLoop(s Surface, h Handler, step float64) *Loop {
	return NewLoop(s, h, LoopConfig{
		NewClock: func() Clock { return &manualClock{step: step} },
		Log:      quietLogger(),
	})
}

func TestTargetFrequencyClamp(t *testing.T) {
	l := newTestLoop(newFakeSurface(), &recorder{}, 0)

	l.SetTargetUpdateFrequency(60)
	assert.InDelta(t, 1.0/60.0, l.TargetUpdatePeriod(), 1e-9)
	assert.InDelta(t, 60, l.TargetUpdateFrequency(), 1e-9)

	l.SetTargetUpdateFrequency(1000)
	assert.InDelta(t, 1.0/60.0, l.TargetUpdatePeriod(), 1e-9)

	l.SetTargetUpdateFrequency(0.5)
	assert.Equal(t, 0.0, l.TargetUpdatePeriod())
	assert.Equal(t, 0.0, l.TargetUpdateFrequency())

	l.SetTargetRenderFrequency(30)
	assert.InDelta(t, 1.0/30.0, l.TargetRenderPeriod(), 1e-9)
}

func TestTargetPeriodClamp(t *testing.T) {
	l := newTestLoop(newFakeSurface(), &recorder{}, 0)

	l.SetTargetUpdatePeriod(0.5)
	assert.Equal(t, 0.5, l.TargetUpdatePeriod())

	l.SetTargetUpdatePeriod(2)
	assert.Equal(t, 0.5, l.TargetUpdatePeriod())

	l.SetTargetUpdatePeriod(0.002)
	assert.Equal(t, 0.0, l.TargetUpdatePeriod())

	l.SetTargetRenderPeriod(-1)
	assert.Equal(t, 0.0, l.TargetRenderPeriod())
}

func TestDispatchUpdateStalledClock(t *testing.T) {
	r := &recorder{}
	l := newTestLoop(newFakeSurface(), r, 0)
	l.SetTargetUpdatePeriod(0.01)

	clock := &manualClock{now: 1.0}
	l.dispatchUpdate(clock, &l.update)

	assert.LessOrEqual(t, r.updates, catchUpBudget)
	assert.Equal(t, 1, r.updates)
	assert.True(t, l.RunningSlowly())
}

func TestDispatchUpdateCatchUpBudget(t *testing.T) {
	r := &recorder{}
	l := newTestLoop(newFakeSurface(), r, 0)
	l.SetTargetUpdatePeriod(0.01)

	// Every read moves the clock on by a full second, so updates are always
	// owed; only the budget ends the dispatch.
	clock := &manualClock{now: 1.0, step: 1.0}
	l.dispatchUpdate(clock, &l.update)

	assert.Equal(t, catchUpBudget, r.updates)
	assert.InDelta(t, 1.0, l.UpdatePeriod(), 1e-9)
}

func TestDispatchUpdateUncappedRunsOnce(t *testing.T) {
	r := &recorder{}
	l := newTestLoop(newFakeSurface(), r, 0)

	clock := &manualClock{now: 0.5, step: 0.5}
	l.dispatchUpdate(clock, &l.update)

	assert.Equal(t, 1, r.updates)
}

func TestDispatchUpdateWaitsForTarget(t *testing.T) {
	r := &recorder{}
	l := newTestLoop(newFakeSurface(), r, 0)
	l.SetTargetUpdatePeriod(0.1)

	clock := &manualClock{now: 0.05}
	l.dispatchUpdate(clock, &l.update)
	assert.Equal(t, 0, r.updates)

	clock.now = 0.1
	l.dispatchUpdate(clock, &l.update)
	assert.Equal(t, 1, r.updates)
}

func TestDispatchUpdateSkipsHandlerWhenExiting(t *testing.T) {
	r := &recorder{}
	l := newTestLoop(newFakeSurface(), r, 0)
	l.exiting.Store(true)

	l.dispatchUpdate(&manualClock{now: 0.5}, &l.update)
	assert.Equal(t, 0, r.updates)
}

func TestDispatchRender(t *testing.T) {
	r := &recorder{}
	l := newTestLoop(newFakeSurface(), r, 0)
	l.SetTargetRenderPeriod(0.1)

	clock := &manualClock{now: 0.05}
	l.renderClock = clock
	l.dispatchRender()
	assert.Equal(t, 0, r.renders)

	clock.now = 0.9
	l.dispatchRender()
	assert.Equal(t, 1, r.renders)
	assert.InDelta(t, 0.9, l.RenderPeriod(), 1e-9)

	// No catch-up: the very next dispatch is too soon.
	l.dispatchRender()
	assert.Equal(t, 1, r.renders)
}

func TestRunRejectsRates(t *testing.T) {
	l := newTestLoop(newFakeSurface(), &recorder{}, 0)
	assert.ErrorIs(t, l.Run(201, 0), ErrRateOutOfRange)
	assert.ErrorIs(t, l.Run(0, -1), ErrRateOutOfRange)
	assert.Equal(t, NotStarted, l.State())
}

func TestRunSingleThreaded(t *testing.T) {
	s := newFakeSurface()
	s.closeAfter = 5
	s.script[2] = []Event{{Kind: EventResize, Width: 800, Height: 600}}
	r := &recorder{}
	l := newTestLoop(s, r, 0.01)

	require.NoError(t, l.Run(0, 0))

	assert.Equal(t, Stopped, l.State())
	assert.Equal(t, []string{"load", "resize", "resize", "closing", "unload"}, r.calls)
	assert.Equal(t, [][2]int{{640, 480}, {800, 600}}, r.resizes)
	// The first iteration reads a zero interval, so updates trail renders by one.
	assert.Equal(t, 3, r.updates)
	assert.Equal(t, 4, r.renders)
	assert.ErrorIs(t, l.Run(0, 0), ErrAlreadyRun)
}

func TestRunCancelledClose(t *testing.T) {
	s := newFakeSurface()
	s.script[2] = []Event{{Kind: EventClose}}
	s.closeAfter = 4
	r := &recorder{cancel: true}
	l := newTestLoop(s, r, 0.01)

	require.NoError(t, l.Run(0, 0))
	assert.Equal(t, []string{"load", "resize", "closing", "closing", "unload"}, r.calls)
}

func TestRunCloseFromHandler(t *testing.T) {
	s := newFakeSurface()
	r := &recorder{}
	l := newTestLoop(s, r, 0.01)
	r.onUpdate = l.Close

	require.NoError(t, l.Run(0, 0))
	assert.Equal(t, 1, r.updates)
	assert.Equal(t, []string{"load", "resize", "closing", "unload"}, r.calls)
}

func TestRunSurfaceVanishes(t *testing.T) {
	s := newFakeSurface()
	r := &recorder{}
	l := newTestLoop(s, r, 0.01)
	r.onUpdate = func() { s.exists.Store(false) }

	require.NoError(t, l.Run(0, 0))
	assert.Equal(t, []string{"load", "resize", "unload"}, r.calls)
}

func TestRunMultiThreaded(t *testing.T) {
	s := newFakeSurface()
	r := &recorder{}
	started := make(chan struct{})
	var once sync.Once

	l := NewLoop(s, r, LoopConfig{
		MultiThreaded:         true,
		NewClock:              func() Clock { return NewStopwatch() },
		OnUpdateThreadStarted: func() { close(started) },
		Log:                   quietLogger(),
	})
	r.onUpdate = func() { once.Do(l.Close) }

	done := make(chan error, 1)
	go func() { done <- l.Run(0, 0) }()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("update goroutine did not start")
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	assert.GreaterOrEqual(t, r.updates, 1)
	assert.Equal(t, "unload", r.calls[len(r.calls)-1])
	assert.True(t, l.IsExiting())
}

func TestClampElapsed(t *testing.T) {
	assert.Equal(t, 0.0, ClampElapsed(-3))
	assert.Equal(t, 1.0, ClampElapsed(7))
	assert.Equal(t, 0.25, ClampElapsed(0.25))
}

func TestStopwatch(t *testing.T) {
	s := NewStopwatch()
	assert.Equal(t, 0.0, s.Elapsed())
	s.Start()
	time.Sleep(time.Millisecond)
	assert.Greater(t, s.Elapsed(), 0.0)
}
