package window

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
)

type SurfaceConfig struct {
	Title     string
	Width     int
	Height    int
	Samples   int
	Resizable bool
	VSync     bool
}

// GLFWSurface is a Surface backed by a GLFW window with a current OpenGL 4.1
// core context. All methods except Exists must run on the main OS thread.
type GLFWSurface struct {
	win    *glfw.Window
	exists atomic.Bool

	mu     sync.Mutex
	events []Event
}

func NewGLFWSurface(cfg *SurfaceConfig) (*GLFWSurface, error) {
	if cfg == nil {
		return nil, errors.New("surface missing config")
	}

	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize glfw")
	}

	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.Samples > 0 {
		glfw.WindowHint(glfw.Samples, cfg.Samples)
	}

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create window")
	}

	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	s := &GLFWSurface{win: win}
	s.exists.Store(true)

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		s.push(Event{Kind: EventResize, Width: width, Height: height})
	})
	win.SetCloseCallback(func(w *glfw.Window) {
		// The loop decides whether the close goes ahead.
		w.SetShouldClose(false)
		s.push(Event{Kind: EventClose})
	})

	return s, nil
}

func (s *GLFWSurface) push(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

func (s *GLFWSurface) PollEvents() []Event {
	if !s.Exists() {
		return nil
	}
	glfw.PollEvents()

	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

func (s *GLFWSurface) Exists() bool {
	return s.exists.Load()
}

func (s *GLFWSurface) Size() (int, int) {
	return s.win.GetFramebufferSize()
}

func (s *GLFWSurface) SwapBuffers() {
	if s.Exists() {
		s.win.SwapBuffers()
	}
}

// Destroy closes the window and terminates GLFW.
func (s *GLFWSurface) Destroy() {
	if !s.exists.Swap(false) {
		return
	}
	s.win.Destroy()
	glfw.Terminate()
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}
