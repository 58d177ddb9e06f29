package game

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/app"
	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/gfx"
	"github.com/DoctorLogiq/Terrascape/internal/gui"
	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

var (
	//go:embed shaders/interface.vert
	interfaceVertex string
	//go:embed shaders/interface.frag
	interfaceFragment string
)

const (
	guiAtlasPrefix     = "gui"
	missingTextureSize = 16
)

// Surface is the part of the window the game draws to.
type Surface interface {
	Size() (width, height int)
	SwapBuffers()
}

type Options struct {
	Surface  Surface
	Renderer *gfx.Renderer
	Log      *debug.Logger
	// Assets is the directory holding textures/gui.
	Assets         string
	AnimateLoading bool
	AtlasDumpDir   string
}

// Terrascape draws the loading screen until there is a world to show.
type Terrascape struct {
	surface  Surface
	renderer *gfx.Renderer
	log      *debug.Logger
	opts     Options

	env      *gui.Env
	shader   *gfx.Shader
	atlas    *gfx.Atlas
	loading  *gui.GUI
	shaders  *registry.Registry[*gfx.Shader]
	textures *registry.Registry[*gfx.Texture]
}

var _ app.Program = (*Terrascape)(nil)

// New creates the game. screen reports the current window size to the
// interface; it is normally the lifecycle driving the game.
func New(opts Options, screen gui.Screen) *Terrascape {
	log := opts.Log
	if log == nil {
		log = opts.Renderer.Log()
	}
	t := &Terrascape{
		surface:  opts.Surface,
		renderer: opts.Renderer,
		log:      log,
		opts:     opts,
		shaders:  registry.New[*gfx.Shader]("shader", log),
		textures: registry.New[*gfx.Texture]("texture", log),
	}
	t.env = &gui.Env{
		Renderer: t.renderer,
		Shaders:  t.shaders,
		Textures: t.textures,
		Screen:   screen,
		Log:      log,
	}
	return t
}

func (t *Terrascape) Shaders() *registry.Registry[*gfx.Shader]   { return t.shaders }
func (t *Terrascape) Textures() *registry.Registry[*gfx.Texture] { return t.textures }
func (t *Terrascape) Atlas() *gfx.Atlas                           { return t.atlas }

// SetScreen replaces what the interface is laid out against.
func (t *Terrascape) SetScreen(s gui.Screen) {
	t.env.Screen = s
}

func (t *Terrascape) Initialize() error {
	r := t.renderer
	r.Device.ClearColor(.1, .1, .1, 0)

	shader, err := r.LoadShader(registry.InterfaceShader, interfaceVertex, interfaceFragment)
	if err != nil {
		return errors.Wrap(err, "failed to load the interface shader")
	}
	if err := t.shaders.Register(shader); err != nil {
		return err
	}
	t.shader = shader
	shader.Use()
	gui.SetChannelMix(r, gui.NeutralMix)

	generated := []*gfx.Texture{
		r.TextureFromImage(registry.MissingTexture, gfx.MissingImage(missingTextureSize), gfx.Nearest),
		r.TextureFromImage(registry.FullMask, gfx.SolidImage(1, 1, color.White), gfx.Nearest),
	}
	for _, tex := range generated {
		if err := t.textures.Register(tex); err != nil {
			return err
		}
	}
	return nil
}

func (t *Terrascape) Load() error {
	atlas, err := t.loadGUIAtlas()
	if err != nil {
		return err
	}
	t.atlas = atlas

	t.loading, err = gui.NewLoadingScreen(t.env, atlas, t.opts.AnimateLoading)
	return err
}

// loadGUIAtlas stitches assets/textures/gui. Without that directory the
// missing texture stands in for every cell the interface needs.
func (t *Terrascape) loadGUIAtlas() (*gfx.Atlas, error) {
	opts := gfx.AtlasOptions{Prefix: guiAtlasPrefix, Filter: gfx.Nearest, DumpDir: t.opts.AtlasDumpDir}

	dir := filepath.Join(t.opts.Assets, "textures", "gui")
	if _, err := os.Stat(dir); err == nil {
		return t.renderer.BuildAtlas(guiAtlasPrefix, dir, opts)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to open %s", dir)
	}

	t.log.Warning(fmt.Sprintf("No interface textures found in '%s'; using the missing texture", dir))
	return t.renderer.NewAtlas(registry.GUIAtlas, []gfx.AtlasSource{
		{Name: gui.LoadingCell, Image: gfx.MissingImage(missingTextureSize)},
	}, opts)
}

func (t *Terrascape) Update(float64) error {
	return nil
}

func (t *Terrascape) Render(delta float64) error {
	d := t.renderer.Device
	d.Clear()

	t.shader.Use()
	if t.loading != nil {
		if err := t.loading.Render(delta); err != nil {
			return err
		}
	}

	t.surface.SwapBuffers()
	d.Flush()
	return nil
}

func (t *Terrascape) Resize() error {
	w, h := t.surface.Size()
	t.renderer.Device.Viewport(w, h)
	t.shader.Use()
	t.shader.SetMatrix4("inProjection", gfx.Ortho(w, h))
	return nil
}

func (t *Terrascape) RequestShutdown() (bool, error) {
	t.log.Debug("Shutdown request")
	return true, nil
}

func (t *Terrascape) Shutdown() error {
	t.log.ResetIndentation()
	t.log.Debug("Shutting down", debug.After(debug.Indent))
	if t.loading != nil {
		t.loading.Dispose()
		t.loading = nil
	}
	t.renderer.Cleanup()
	t.log.Unindent()
	return nil
}
