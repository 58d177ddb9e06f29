package gui

import (
	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/gfx"
	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

var (
	LoadingScreen = registry.MustParse("loading_screen_interface")
	loadingModel  = registry.MustParse("loading_model")
	// LoadingCell is the atlas cell shown while loading.
	LoadingCell = registry.MustParse("gui_loading")
)

// NewLoadingScreen shows the loading cell in the bottom right corner. When
// animate is set its colors cycle through an RGBEffect.
func NewLoadingScreen(env *Env, atlas *gfx.Atlas, animate bool) (*GUI, error) {
	if atlas == nil {
		return nil, debug.IllegalState("cannot build the loading screen without a gui atlas")
	}

	g, err := New(env, LoadingScreen, func(g *GUI) error {
		m, err := NewAtlasModel(env, loadingModel, atlas, LoadingCell, -50, -50, BottomRight)
		if err != nil {
			return err
		}
		g.Add(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if animate {
		rgb := NewRGBEffect(1)
		g.PreRender = func(delta float64) {
			rgb.Update(delta)
			SetChannelMix(env.Renderer, rgb.Mix())
		}
	}
	g.PostRender = func(float64) {
		SetChannelMix(env.Renderer, NeutralMix)
	}
	return g, nil
}
