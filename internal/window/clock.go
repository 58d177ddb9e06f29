package window

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// maxElapsed caps a single measured frame interval, in seconds.
const maxElapsed = 1.0

// Clock reports seconds elapsed since it was started.
type Clock interface {
	Start()
	Elapsed() float64
}

// ClampElapsed bounds a frame interval to [0, 1] seconds.
func ClampElapsed(elapsed float64) float64 {
	return mgl64.Clamp(elapsed, 0, maxElapsed)
}

// Stopwatch is a wall-clock Clock backed by the monotonic time source.
type Stopwatch struct {
	mu      sync.Mutex
	started time.Time
	running bool
}

func NewStopwatch() *Stopwatch {
	return &Stopwatch{}
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.started = time.Now()
		s.running = true
	}
}

func (s *Stopwatch) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return time.Since(s.started).Seconds()
}
