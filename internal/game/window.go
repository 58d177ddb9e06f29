// Package game wires the window, renderer and lifecycle around Terrascape.
package game

import (
	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/app"
	"github.com/DoctorLogiq/Terrascape/internal/config"
	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/gfx"
	"github.com/DoctorLogiq/Terrascape/internal/window"
)

// ErrCrashed is returned by OpenAndWait when the game crashed. The crash
// report has already been logged.
var ErrCrashed = errors.New("the game crashed")

type Window struct {
	cfg config.Config
	log *debug.Logger
}

type WindowConfig struct {
	config.Config
	Log *debug.Logger
}

func NewWindow(cfg *WindowConfig) (*Window, error) {
	if cfg == nil {
		return nil, errors.New("window missing config")
	}
	log := cfg.Log
	if log == nil {
		log = debug.Default()
	}

	return &Window{cfg: cfg.Config, log: log}, nil
}

// OpenAndWait opens the window and runs the game until it closes. It must be
// called on the main OS thread.
func (w *Window) OpenAndWait() error {
	surface, err := window.NewGLFWSurface(&window.SurfaceConfig{
		Title:     w.cfg.Title,
		Width:     w.cfg.Width,
		Height:    w.cfg.Height,
		Samples:   w.cfg.Samples,
		Resizable: true,
		VSync:     w.cfg.VSync,
	})
	if err != nil {
		return err
	}
	defer surface.Destroy()

	dev, err := gfx.NewGLDevice()
	if err != nil {
		return err
	}
	w.log.Info("OpenGL version " + dev.Version())

	return run(surface, gfx.NewRenderer(dev, w.log), w.cfg, w.log)
}

type runSurface interface {
	window.Surface
	Surface
}

func run(surface runSurface, r *gfx.Renderer, cfg config.Config, log *debug.Logger) error {
	t := New(Options{
		Surface:        surface,
		Renderer:       r,
		Log:            log,
		Assets:         cfg.Assets,
		AnimateLoading: cfg.AnimateLoading,
		AtlasDumpDir:   cfg.AtlasDumpDir,
	}, nil)

	lc := app.NewLifecycle(t, log)
	t.SetScreen(lc)

	loop := window.NewLoop(surface, lc, window.LoopConfig{
		MultiThreaded: cfg.MultiThreaded,
		OnUpdateThreadStarted: func() {
			log.Debug("Update thread started", debug.VerboseOnly)
		},
		Log: log,
	})
	lc.SetCloser(loop)

	if err := loop.Run(cfg.UpdateRate, cfg.FrameRate); err != nil {
		return err
	}
	if lc.Crashed() {
		return ErrCrashed
	}
	return nil
}
