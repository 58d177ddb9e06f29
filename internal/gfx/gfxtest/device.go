// Package gfxtest provides an in-memory gfx.Device for tests.
package gfxtest

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/DoctorLogiq/Terrascape/internal/gfx"
)

// Device records every call and tracks which ids are live. Ids are handed
// out from a single counter starting at 1.
type Device struct {
	mu    sync.Mutex
	next  uint32
	calls []string
	live  map[uint32]string

	// FailStage makes CompileShader fail for that stage.
	FailStage map[gfx.ShaderStage]bool
	FailLink  bool
	// Attribs maps attribute names to locations; missing names report -1.
	Attribs  map[string]int32
	Uniforms map[int32]any
	Textures map[uint32][2]int
	Draws    int
}

var _ gfx.Device = (*Device)(nil)

func New() *Device {
	return &Device{
		live:      make(map[uint32]string),
		FailStage: make(map[gfx.ShaderStage]bool),
		Attribs:   map[string]int32{"inPosition": 0, "inUV": 1},
		Uniforms:  make(map[int32]any),
		Textures:  make(map[uint32][2]int),
	}
}

func (d *Device) record(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *Device) alloc(kind string) uint32 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) free(kind string, id uint32) {
	if d.live[id] == kind {
		delete(d.live, id)
	}
}

// Calls returns the recorded calls.
func (d *Device) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// CallsWithPrefix returns the recorded calls starting with prefix.
func (d *Device) CallsWithPrefix(prefix string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

// Live returns the number of live objects of a kind: "vao", "buffer",
// "shader", "program" or "texture".
func (d *Device) Live(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

func (d *Device) Version() string { return "4.1 gfxtest" }

func (d *Device) GenVertexArray() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.alloc("vao")
	d.record("GenVertexArray %d", id)
	return id
}

func (d *Device) GenBuffer() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.alloc("buffer")
	d.record("GenBuffer %d", id)
	return id
}

func (d *Device) BindVertexArray(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindVertexArray %d", id)
}

func (d *Device) BindBuffer(target gfx.BufferTarget, id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindBuffer %d %d", target, id)
}

func (d *Device) DeleteVertexArray(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free("vao", id)
	d.record("DeleteVertexArray %d", id)
}

func (d *Device) DeleteBuffer(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free("buffer", id)
	d.record("DeleteBuffer %d", id)
}

func (d *Device) BufferFloats(target gfx.BufferTarget, data []float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BufferFloats %d %d", target, len(data))
}

func (d *Device) BufferIndices(target gfx.BufferTarget, data []uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BufferIndices %d %d", target, len(data))
}

func (d *Device) VertexAttrib(location uint32, size, stride, offset int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("VertexAttrib %d %d %d %d", location, size, stride, offset)
}

func (d *Device) CompileShader(stage gfx.ShaderStage, source string) (uint32, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CompileShader %s", stage)
	if d.FailStage[stage] {
		return 0, stage.String() + " shader failed to compile", false
	}
	return d.alloc("shader"), "", true
}

func (d *Device) DeleteShader(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free("shader", id)
	d.record("DeleteShader %d", id)
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("LinkProgram %v", shaders)
	if d.FailLink {
		return 0, "program failed to link", false
	}
	return d.alloc("program"), "", true
}

func (d *Device) UseProgram(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("UseProgram %d", id)
}

func (d *Device) DeleteProgram(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free("program", id)
	d.record("DeleteProgram %d", id)
}

// UniformLocation derives a stable location from the name.
func (d *Device) UniformLocation(program uint32, name string) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int32(h % 1024)
}

func (d *Device) AttribLocation(program uint32, name string) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if loc, ok := d.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (d *Device) Uniform1i(location int32, v int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Uniforms[location] = v
}

func (d *Device) Uniform3f(location int32, x, y, z float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Uniforms[location] = mgl32.Vec3{x, y, z}
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Uniforms[location] = m
}

// Uniform returns the last value set on the named uniform.
func (d *Device) Uniform(name string) any {
	loc := d.UniformLocation(0, name)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Uniforms[loc]
}

func (d *Device) GenTexture() uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.alloc("texture")
	d.record("GenTexture %d", id)
	return id
}

func (d *Device) UploadTexture(id uint32, filter gfx.TextureFilter, width, height int, pixels []uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Textures[id] = [2]int{width, height}
	d.record("UploadTexture %d %dx%d", id, width, height)
}

func (d *Device) BindTexture(unit int, id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("BindTexture %d %d", unit, id)
}

func (d *Device) DeleteTexture(id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.free("texture", id)
	d.record("DeleteTexture %d", id)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ClearColor %v %v %v %v", r, g, b, a)
}

func (d *Device) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Clear")
}

func (d *Device) Viewport(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Viewport %d %d", width, height)
}

func (d *Device) DrawElements(p gfx.Primitive, count int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Draws++
	d.record("DrawElements %d %d", p, count)
}

func (d *Device) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Flush")
}
