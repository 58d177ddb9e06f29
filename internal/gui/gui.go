package gui

import (
	"fmt"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

// GUI is a named group of interface models rendered together.
type GUI struct {
	name   registry.Identifier
	env    *Env
	models []*Model

	PreRender  func(delta float64)
	PostRender func(delta float64)
}

// New creates a GUI and lets construct populate it.
func New(env *Env, name registry.Identifier, construct func(g *GUI) error) (*GUI, error) {
	g := &GUI{name: name, env: env}

	env.Log.Debug(fmt.Sprintf("Creating interface '%s'", name), debug.VerboseOnly, debug.After(debug.Indent))
	if construct != nil {
		if err := construct(g); err != nil {
			env.Log.Unindent(debug.VerboseOnly)
			g.Dispose()
			return nil, err
		}
	}
	env.Log.Debug("Interface created", debug.VerboseOnly, debug.Before(debug.Unindent))
	return g, nil
}

func (g *GUI) Name() registry.Identifier { return g.name }

func (g *GUI) Add(m *Model) {
	g.models = append(g.models, m)
}

func (g *GUI) Models() []*Model {
	return g.models
}

func (g *GUI) Render(delta float64) error {
	if g.PreRender != nil {
		g.PreRender(delta)
	}
	for _, m := range g.models {
		if err := m.Render(delta); err != nil {
			return err
		}
	}
	if g.PostRender != nil {
		g.PostRender(delta)
	}
	return nil
}

// Dispose releases the buffers of every model. The GUI is empty afterwards.
func (g *GUI) Dispose() {
	log := g.env.Log
	log.Debug(fmt.Sprintf("Cleaning up model data for the '%s' GUI", g.name), debug.VerboseOnly, debug.After(debug.Indent))
	for _, m := range g.models {
		log.Debug(fmt.Sprintf("Cleaning up model data for model '%s'", m.name), debug.VerboseOnly)
		m.Dispose()
	}
	g.models = nil
	log.Debug("Cleanup complete", debug.VerboseOnly, debug.Before(debug.Unindent))
}
