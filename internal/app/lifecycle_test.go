package app

import (
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/window"
)

type program struct {
	mu      sync.Mutex
	calls   []string
	deltas  []float64
	proceed bool
	fail    map[string]error
	panics  map[string]any
}

func newProgram() *program {
	return &program{proceed: true, fail: map[string]error{}, panics: map[string]any{}}
}

func (p *program) hook(name string) error {
	p.mu.Lock()
	p.calls = append(p.calls, name)
	err, v := p.fail[name], p.panics[name]
	p.mu.Unlock()
	if v != nil {
		panic(v)
	}
	return err
}

func (p *program) count(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (p *program) Initialize() error { return p.hook("initialize") }
func (p *program) Load() error       { return p.hook("load") }
func (p *program) Update(float64) error {
	return p.hook("update")
}
func (p *program) Render(delta float64) error {
	p.mu.Lock()
	p.deltas = append(p.deltas, delta)
	p.mu.Unlock()
	return p.hook("render")
}
func (p *program) Resize() error { return p.hook("resize") }
func (p *program) RequestShutdown() (bool, error) {
	err := p.hook("request_shutdown")
	return p.proceed, err
}
func (p *program) Shutdown() error { return p.hook("shutdown") }

type closer struct{ n int }

func (c *closer) Close() { c.n++ }

func newLifecycle(p Program) (*Lifecycle, *closer, *test.Hook) {
	l, hook := test.NewNullLogger()
	lc := NewLifecycle(p, debug.NewWithLogger(l))
	c := &closer{}
	lc.SetCloser(c)
	return lc, c, hook
}

func TestPhaseSequence(t *testing.T) {
	p := newProgram()
	lc, _, _ := newLifecycle(p)
	assert.Equal(t, Uninitialized, lc.Phase())

	lc.OnLoad()
	assert.Equal(t, Loaded, lc.Phase())
	lc.OnUpdate(0.1)
	assert.Equal(t, Updating, lc.Phase())
	lc.OnRender(0.1)
	assert.Equal(t, Rendering, lc.Phase())
	lc.OnUnload()
	assert.Equal(t, ShutDown, lc.Phase())

	assert.Equal(t, []string{"initialize", "load", "update", "render", "shutdown"}, p.calls)
	assert.Equal(t, "RENDER-WHILE-RESIZING", RenderingWhileResizing.String())
	assert.Equal(t, "UNKNOWN", Phase(99).String())
}

func TestResizeRecordsSizeAndRenders(t *testing.T) {
	p := newProgram()
	lc, _, _ := newLifecycle(p)

	lc.OnResize(1280, 720)

	w, h := lc.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	hw, hh := lc.HalfSize()
	assert.Equal(t, 640.0, hw)
	assert.Equal(t, 360.0, hh)
	assert.Equal(t, []string{"resize", "render"}, p.calls)
	assert.Equal(t, []float64{math.SmallestNonzeroFloat64}, p.deltas)
	assert.Equal(t, RenderingWhileResizing, lc.Phase())
}

func TestShutdownRunsOnce(t *testing.T) {
	p := newProgram()
	lc, _, _ := newLifecycle(p)

	assert.False(t, lc.OnClosing())
	lc.OnUnload()
	assert.False(t, lc.OnClosing())

	assert.Equal(t, 1, p.count("request_shutdown"))
	assert.Equal(t, 1, p.count("shutdown"))
	assert.True(t, lc.HasShutDown())
}

func TestDeclinedShutdownCancelsClose(t *testing.T) {
	p := newProgram()
	p.proceed = false
	lc, _, _ := newLifecycle(p)

	assert.True(t, lc.OnClosing())
	assert.Equal(t, 0, p.count("shutdown"))
	assert.False(t, lc.HasShutDown())

	lc.OnUnload()
	assert.Equal(t, 1, p.count("shutdown"))
}

func TestCrashInUpdate(t *testing.T) {
	p := newProgram()
	p.fail["update"] = errors.New("bad tick")
	lc, c, hook := newLifecycle(p)

	lc.OnLoad()
	lc.OnUpdate(0.1)

	assert.True(t, lc.Crashed())
	assert.Equal(t, Crashed, lc.Phase())
	assert.Equal(t, 1, c.n)
	assert.EqualError(t, lc.Err(), "bad tick")
	assert.Equal(t, "CRASHED! (During phase: 'UPDATE')", hook.AllEntries()[0].Message)

	lc.OnUpdate(0.1)
	lc.OnRender(0.1)
	lc.OnResize(10, 10)
	lc.OnLoad()
	assert.Equal(t, 1, p.count("update"))
	assert.Equal(t, 0, p.count("render"))

	// A crashed program closes without asking, then shuts down once.
	assert.False(t, lc.OnClosing())
	assert.Equal(t, 0, p.count("request_shutdown"))
	lc.OnUnload()
	lc.OnUnload()
	assert.Equal(t, 1, p.count("shutdown"))
	assert.Equal(t, Crashed, lc.Phase())
}

func TestPanicIsContained(t *testing.T) {
	p := newProgram()
	p.panics["render"] = "boom"
	lc, c, _ := newLifecycle(p)

	assert.NotPanics(t, func() { lc.OnRender(0.1) })
	assert.True(t, lc.Crashed())
	assert.Equal(t, 1, c.n)

	var pe *PanicError
	require.True(t, errors.As(lc.Err(), &pe))
	assert.Equal(t, "boom", pe.Value)
}

func TestCrashInLoadSkipsLoad(t *testing.T) {
	p := newProgram()
	p.fail["initialize"] = errors.New("no context")
	lc, _, _ := newLifecycle(p)

	lc.OnLoad()
	assert.Equal(t, []string{"initialize"}, p.calls)
}

func TestCrashDuringShutdown(t *testing.T) {
	p := newProgram()
	p.fail["shutdown"] = errors.New("leak")
	lc, c, _ := newLifecycle(p)

	lc.OnUnload()
	lc.OnUnload()
	assert.True(t, lc.Crashed())
	assert.Equal(t, 1, c.n)
	assert.Equal(t, 1, p.count("shutdown"))
}

func TestCrashWithoutCloser(t *testing.T) {
	p := newProgram()
	p.fail["update"] = errors.New("bad tick")
	l, hook := test.NewNullLogger()
	lc := NewLifecycle(p, debug.NewWithLogger(l))

	lc.OnUpdate(0)
	assert.True(t, lc.Crashed())

	var found bool
	for _, e := range hook.AllEntries() {
		found = found || e.Message == "No window to close after the crash"
	}
	assert.True(t, found)
}

type stubSurface struct{ polls int }

func (s *stubSurface) PollEvents() []window.Event {
	s.polls++
	if s.polls > 100 {
		return []window.Event{{Kind: window.EventClose}}
	}
	return nil
}
func (s *stubSurface) Exists() bool      { return true }
func (s *stubSurface) Size() (int, int) { return 800, 600 }

type stepClock struct{ now float64 }

func (c *stepClock) Start() {}
func (c *stepClock) Elapsed() float64 {
	c.now += 0.01
	return c.now
}

func TestLoopStopsAfterCrash(t *testing.T) {
	p := newProgram()
	p.fail["update"] = errors.New("bad tick")
	l, _ := test.NewNullLogger()
	log := debug.NewWithLogger(l)

	lc := NewLifecycle(p, log)
	s := &stubSurface{}
	loop := window.NewLoop(s, lc, window.LoopConfig{
		NewClock: func() window.Clock { return &stepClock{} },
		Log:      log,
	})
	lc.SetCloser(loop)

	require.NoError(t, loop.Run(0, 0))

	assert.True(t, lc.Crashed())
	assert.True(t, loop.IsExiting())
	assert.Less(t, s.polls, 100)
	assert.Equal(t, 1, p.count("update"))
	assert.Equal(t, 0, p.count("request_shutdown"))
	assert.Equal(t, 1, p.count("shutdown"))
	hw, _ := lc.HalfSize()
	assert.Equal(t, 400.0, hw)
}

func TestMultiThreadedLoopShutsDownOnce(t *testing.T) {
	p := newProgram()
	l, _ := test.NewNullLogger()
	log := debug.NewWithLogger(l)

	lc := NewLifecycle(p, log)
	s := &stubSurface{}
	loop := window.NewLoop(s, lc, window.LoopConfig{MultiThreaded: true, Log: log})
	lc.SetCloser(loop)

	require.NoError(t, loop.Run(0, 0))

	assert.False(t, lc.Crashed())
	assert.Equal(t, 1, p.count("request_shutdown"))
	assert.Equal(t, 1, p.count("shutdown"))
	assert.Equal(t, ShutDown, lc.Phase())
}

func TestCrashReport(t *testing.T) {
	root := errors.WithStack(&debug.IllegalStateError{Msg: "texture missing"})
	err := errors.Wrap(root, "load interface")

	lines := CrashReport(err)
	require.NotEmpty(t, lines)
	assert.Equal(t, "An Error was caught with the message:", lines[0])
	assert.Equal(t, `"load interface"`, lines[1])

	var caused []string
	for i, line := range lines {
		if strings.HasPrefix(line, "Caused by") {
			caused = append(caused, line, lines[i+1])
		}
		if strings.HasPrefix(line, "  at: ") {
			assert.NotContains(t, line, "/")
			assert.NotContains(t, line, "runtime.")
		}
	}
	assert.Equal(t, []string{
		"Caused by an IllegalStateError with the message:",
		`"illegal state: texture missing? this should not be possible"`,
	}, caused)
	assert.Contains(t, strings.Join(lines, "\n"), "TestCrashReport (lifecycle_test.go:")
}

func TestCrashReportPanic(t *testing.T) {
	lines := CrashReport(errors.WithStack(&PanicError{Value: errors.New("nil map")}))
	assert.Equal(t, "A PanicError was caught with the message:", lines[0])
	assert.Equal(t, `"panic"`, lines[1])
	assert.Contains(t, lines, "Caused by an Error with the message:")
}

func TestAOrAn(t *testing.T) {
	assert.Equal(t, "An Error", aOrAn("Error", true))
	assert.Equal(t, "a ResourceError", aOrAn("ResourceError", false))
	assert.Equal(t, "an IllegalStateError", aOrAn("IllegalStateError", false))
}
