// Package gui renders screen-anchored interface models with the interface
// shader.
package gui

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/gfx"
	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

// Vertex layout: position xyz followed by uv.
const (
	positionSize = 3
	uvSize       = 2
	vertexStride = positionSize + uvSize
)

// Screen reports half the framebuffer size in pixels.
type Screen interface {
	HalfSize() (float64, float64)
}

// Env is what interface models are built against.
type Env struct {
	Renderer *gfx.Renderer
	Shaders  *registry.Registry[*gfx.Shader]
	Textures *registry.Registry[*gfx.Texture]
	Screen   Screen
	Log      *debug.Logger
}

type Anchor int

const (
	Center Anchor = iota
	Left
	Top
	Right
	Bottom
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

// Mesh is interleaved vertex data with its indices.
type Mesh struct {
	Vertices  []float32
	Indices   []uint32
	Primitive gfx.Primitive
}

// Rectangle is a unit quad centered on the origin with v flipped for images.
var Rectangle = Mesh{
	Vertices: []float32{
		-0.5, +0.5, 0, 0, 0,
		+0.5, +0.5, 0, 1, 0,
		+0.5, -0.5, 0, 1, 1,
		-0.5, -0.5, 0, 0, 1,
	},
	Indices: []uint32{
		0, 1, 3,
		1, 2, 3,
	},
	Primitive: gfx.Triangles,
}

type ModelConfig struct {
	Name    registry.Identifier
	Diffuse *gfx.Texture
	// Mask defaults to the full mask texture.
	Mask *gfx.Texture
	// Region limits the diffuse texture to part of it, such as an atlas cell.
	// Width and Height must then give the region's size in pixels.
	Region  *gfx.UVRect
	Width   float64
	Height  float64
	Mesh    Mesh
	XOffset float32
	YOffset float32
	Anchor  Anchor
}

// Model is a textured mesh placed relative to a screen anchor.
type Model struct {
	name      registry.Identifier
	env       *Env
	diffuse   *gfx.Texture
	mask      *gfx.Texture
	width     float64
	height    float64
	vao       uint32
	vbo       uint32
	ebo       uint32
	count     int
	primitive gfx.Primitive
	anchor    Anchor
	xOffset   float32
	yOffset   float32
	transform *gfx.Transform
}

func NewModel(env *Env, cfg ModelConfig) (*Model, error) {
	if cfg.Diffuse == nil {
		return nil, errors.Errorf("interface model '%s' has no diffuse texture", cfg.Name)
	}
	if cfg.Mesh.Vertices == nil {
		cfg.Mesh = Rectangle
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = cfg.Diffuse.Width(), cfg.Diffuse.Height()
	}

	shader, err := env.Shaders.Get(registry.InterfaceShader)
	if err != nil {
		return nil, err
	}
	mask := cfg.Mask
	if mask == nil {
		if mask, err = env.Textures.Get(registry.FullMask); err != nil {
			return nil, err
		}
	}
	position, err := shader.AttribLocation("inPosition")
	if err != nil {
		return nil, err
	}
	uv, err := shader.AttribLocation("inUV")
	if err != nil {
		return nil, err
	}

	env.Log.Debug(fmt.Sprintf("Creating interface model '%s'", cfg.Name), debug.VerboseOnly, debug.After(debug.Indent))

	r := env.Renderer
	m := &Model{
		name:      cfg.Name,
		env:       env,
		diffuse:   cfg.Diffuse,
		mask:      mask,
		width:     cfg.Width,
		height:    cfg.Height,
		count:     len(cfg.Mesh.Indices),
		primitive: cfg.Mesh.Primitive,
		anchor:    cfg.Anchor,
		xOffset:   cfg.XOffset,
		yOffset:   cfg.YOffset,
		transform: gfx.NewTransform(1),
	}

	m.vbo = r.Tracker.Create(gfx.VertexBuffer, true, false)
	r.Device.BufferFloats(gfx.ArrayBuffer, remapUVs(cfg.Mesh.Vertices, cfg.Region))

	m.ebo = r.Tracker.Create(gfx.IndexBuffer, true, false)
	r.Device.BufferIndices(gfx.ElementArrayBuffer, cfg.Mesh.Indices)

	shader.Use()

	m.vao = r.Tracker.Create(gfx.VertexArray, true, false)
	r.Device.BindBuffer(gfx.ArrayBuffer, m.vbo)
	r.Device.BindBuffer(gfx.ElementArrayBuffer, m.ebo)
	r.Device.VertexAttrib(position, positionSize, vertexStride, 0)
	r.Device.VertexAttrib(uv, uvSize, vertexStride, positionSize)

	if mask.Name() != registry.FullMask {
		if math.Abs(m.width-mask.Width()) > 0.5 {
			env.Log.Warning(fmt.Sprintf("The diffuse and mask texture widths for the interface model '%s' do not match; undesired results may occur", m.name))
		}
		if math.Abs(m.height-mask.Height()) > 0.5 {
			env.Log.Warning(fmt.Sprintf("The diffuse and mask texture heights for the interface model '%s' do not match; undesired results may occur", m.name))
		}
	}

	m.transform.SetScale(float32(m.width), float32(m.height), 1)
	m.updateAnchoredPosition()

	env.Log.Debug("Interface model created", debug.VerboseOnly, debug.Before(debug.Unindent))
	return m, nil
}

// NewAtlasModel builds a rectangle showing one cell of an atlas.
func NewAtlasModel(env *Env, name registry.Identifier, atlas *gfx.Atlas, cell registry.Identifier, xOffset, yOffset float32, anchor Anchor) (*Model, error) {
	c, err := atlas.Get(cell)
	if err != nil {
		return nil, err
	}
	return NewModel(env, ModelConfig{
		Name:    name,
		Diffuse: atlas.Texture(),
		Region:  &c.UV,
		Width:   float64(c.Width),
		Height:  float64(c.Height),
		Mesh:    Rectangle,
		XOffset: xOffset,
		YOffset: yOffset,
		Anchor:  anchor,
	})
}

func remapUVs(vertices []float32, region *gfx.UVRect) []float32 {
	if region == nil {
		return vertices
	}
	out := append([]float32(nil), vertices...)
	for i := positionSize; i+1 < len(out); i += vertexStride {
		out[i] = float32(region.X1 + float64(out[i])*(region.X2-region.X1))
		out[i+1] = float32(region.Y1 + float64(out[i+1])*(region.Y2-region.Y1))
	}
	return out
}

func (m *Model) Name() registry.Identifier { return m.name }
func (m *Model) Anchor() Anchor            { return m.anchor }
func (m *Model) Transform() *gfx.Transform { return m.transform }

func (m *Model) SetOffset(x, y float32) {
	m.xOffset, m.yOffset = x, y
}

// updateAnchoredPosition places the model against its anchor edge. Offsets
// are in pixels with y pointing down the screen.
func (m *Model) updateAnchoredPosition() {
	hw, hh := m.env.Screen.HalfSize()
	left := float32(-hw + m.width/2)
	right := float32(hw - m.width/2)
	top := float32(hh - m.height/2)
	bottom := float32(-hh + m.height/2)

	x, y := m.xOffset, -m.yOffset
	switch m.anchor {
	case Left, TopLeft, BottomLeft:
		x += left
	case Right, TopRight, BottomRight:
		x += right
	}
	switch m.anchor {
	case Top, TopLeft, TopRight:
		y += top
	case Bottom, BottomLeft, BottomRight:
		y += bottom
	}
	m.transform.SetTranslation(x, y, 0)
}

// Render draws the model with the interface shader, which must be current.
func (m *Model) Render(delta float64) error {
	r := m.env.Renderer
	current := r.CurrentShader()
	if current == nil {
		return nil
	}
	if err := m.env.Log.Assert(func() bool { return current.Name() == registry.InterfaceShader },
		"the interface shader is in use"); err != nil {
		return err
	}

	m.updateAnchoredPosition()

	current.SetInt("texture1", 0)
	current.SetInt("texture2", 1)
	m.diffuse.Use(0)
	m.mask.Use(1)
	m.transform.Apply(r)

	r.Device.BindVertexArray(m.vao)
	r.Device.DrawElements(m.primitive, m.count)
	return nil
}

// Dispose releases the model's buffers.
func (m *Model) Dispose() {
	t := m.env.Renderer.Tracker
	t.Delete(gfx.IndexBuffer, m.ebo)
	t.Delete(gfx.VertexBuffer, m.vbo)
	t.Delete(gfx.VertexArray, m.vao)
}
