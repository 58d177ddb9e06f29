// Package app sequences a Program through its lifecycle and contains any
// failure inside it.
package app

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
)

// Program is the game the lifecycle drives. Every hook may fail; a failure
// or panic crashes the program.
type Program interface {
	Initialize() error
	Load() error
	Update(delta float64) error
	Render(delta float64) error
	Resize() error
	// RequestShutdown is asked before a user or OS close goes ahead.
	RequestShutdown() (proceed bool, err error)
	Shutdown() error
}

// Closer asks the window to close.
type Closer interface {
	Close()
}

// Phase is the lifecycle step the program is in.
type Phase int32

const (
	Uninitialized Phase = iota
	Initializing
	Loading
	Loaded
	Updating
	Rendering
	Resizing
	RenderingWhileResizing
	ShutdownRequested
	ShuttingDown
	ShutDown
	Crashed
)

var phaseNames = [...]string{
	Uninitialized:          "UNINITIALIZED",
	Initializing:           "INITIALIZATION",
	Loading:                "LOADING",
	Loaded:                 "POST-LOAD",
	Updating:               "UPDATE",
	Rendering:              "RENDER",
	Resizing:               "RESIZE",
	RenderingWhileResizing: "RENDER-WHILE-RESIZING",
	ShutdownRequested:      "SHUTDOWN-REQUEST",
	ShuttingDown:           "SHUTDOWN",
	ShutDown:               "SHUT-DOWN",
	Crashed:                "CRASHED",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "UNKNOWN"
	}
	return phaseNames[p]
}

// PanicError carries a value recovered from a panicking hook.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Lifecycle adapts a Program to the window loop's callbacks. Hooks are
// serialized, so the program never sees two of them at once even when
// updates run on their own goroutine.
type Lifecycle struct {
	program Program
	log     *debug.Logger

	mu           sync.Mutex
	closer       Closer
	selfShutdown bool
	err          error

	phase       atomic.Int32
	crashed     atomic.Bool
	hasShutDown atomic.Bool

	sizeMu sync.RWMutex
	width  int
	height int
}

func NewLifecycle(p Program, log *debug.Logger) *Lifecycle {
	if log == nil {
		log = debug.Default()
	}
	return &Lifecycle{program: p, log: log}
}

// SetCloser sets what a crash closes.
func (lc *Lifecycle) SetCloser(c Closer) {
	lc.mu.Lock()
	lc.closer = c
	lc.mu.Unlock()
}

func (lc *Lifecycle) Phase() Phase      { return Phase(lc.phase.Load()) }
func (lc *Lifecycle) Crashed() bool     { return lc.crashed.Load() }
func (lc *Lifecycle) HasShutDown() bool { return lc.hasShutDown.Load() }

// Err returns the error that crashed the program, if any.
func (lc *Lifecycle) Err() error {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.err
}

func (lc *Lifecycle) Size() (int, int) {
	lc.sizeMu.RLock()
	defer lc.sizeMu.RUnlock()
	return lc.width, lc.height
}

func (lc *Lifecycle) HalfSize() (float64, float64) {
	lc.sizeMu.RLock()
	defer lc.sizeMu.RUnlock()
	return float64(lc.width) / 2, float64(lc.height) / 2
}

func (lc *Lifecycle) OnLoad() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.Crashed() {
		return
	}
	if !lc.guard(Initializing, lc.program.Initialize) {
		return
	}
	if !lc.guard(Loading, lc.program.Load) {
		return
	}
	lc.setPhase(Loaded)
}

func (lc *Lifecycle) OnUpdate(delta float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.Crashed() || lc.HasShutDown() {
		return
	}
	lc.guard(Updating, func() error { return lc.program.Update(delta) })
}

func (lc *Lifecycle) OnRender(delta float64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.Crashed() || lc.HasShutDown() {
		return
	}
	lc.guard(Rendering, func() error { return lc.program.Render(delta) })
}

// OnResize runs Resize, records the new size and renders straight away with
// a negligible delta.
func (lc *Lifecycle) OnResize(width, height int) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.Crashed() {
		return
	}
	if !lc.guard(Resizing, lc.program.Resize) {
		return
	}

	lc.sizeMu.Lock()
	lc.width, lc.height = width, height
	lc.sizeMu.Unlock()

	lc.guard(RenderingWhileResizing, func() error { return lc.program.Render(math.SmallestNonzeroFloat64) })
}

// OnClosing asks the program whether a close may go ahead and, if so, shuts
// it down. It returns true to keep the window open.
func (lc *Lifecycle) OnClosing() bool {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.HasShutDown() || lc.selfShutdown {
		return false
	}

	var proceed bool
	ok := lc.guard(ShutdownRequested, func() error {
		var err error
		proceed, err = lc.program.RequestShutdown()
		return err
	})
	if !ok {
		return false
	}
	if !proceed {
		lc.log.Debug("Shutdown request declined")
		return true
	}
	lc.shutdown()
	return false
}

// OnUnload shuts the program down unless that has already happened.
func (lc *Lifecycle) OnUnload() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.HasShutDown() {
		return
	}
	lc.shutdown()
}

// shutdown must be called with lc.mu held.
func (lc *Lifecycle) shutdown() {
	lc.hasShutDown.Store(true)
	if lc.guard(ShuttingDown, lc.program.Shutdown) {
		lc.setPhase(ShutDown)
	}
}

func (lc *Lifecycle) setPhase(p Phase) {
	if !lc.Crashed() {
		lc.phase.Store(int32(p))
	}
}

// guard runs fn in the given phase, turning an error or panic into a crash.
// It reports whether fn succeeded.
func (lc *Lifecycle) guard(p Phase, fn func() error) bool {
	lc.setPhase(p)
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errors.WithStack(&PanicError{Value: r})
			}
		}()
		return fn()
	}()
	if err != nil {
		lc.handleCrash(p, err)
		return false
	}
	return true
}

// handleCrash must be called with lc.mu held.
func (lc *Lifecycle) handleCrash(p Phase, err error) {
	lc.log.Critical(fmt.Sprintf("CRASHED! (During phase: '%s')", p))
	lc.phase.Store(int32(Crashed))
	lc.crashed.Store(true)
	lc.selfShutdown = true
	if lc.err == nil {
		lc.err = err
	}

	if lc.closer != nil {
		lc.closer.Close()
	} else {
		lc.log.Warning("No window to close after the crash")
	}

	lc.log.NewLine()
	for _, line := range CrashReport(err) {
		lc.log.Critical(line)
	}
	lc.log.NewLine()
}
