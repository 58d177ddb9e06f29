// Package gfx wraps the OpenGL objects the game renders with: vertex arrays
// and buffers, shaders, textures and texture atlases.
package gfx

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the type of a tracked buffer object.
type Kind int

const (
	VertexArray Kind = iota
	VertexBuffer
	IndexBuffer
)

func (k Kind) String() string {
	switch k {
	case VertexArray:
		return "VAO"
	case VertexBuffer:
		return "VBO"
	case IndexBuffer:
		return "EBO"
	}
	return "unknown"
}

type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Primitive is the topology DrawElements assembles indices into.
type Primitive int

const (
	Triangles Primitive = iota
	// TriangleStrip stands in for quads, which core profiles do not have.
	TriangleStrip
)

type TextureFilter int

const (
	Nearest TextureFilter = iota
	Linear
)

// Device is the subset of OpenGL the renderer issues. Calls must be made from
// the goroutine owning the context.
type Device interface {
	Version() string

	GenVertexArray() uint32
	GenBuffer() uint32
	BindVertexArray(id uint32)
	BindBuffer(target BufferTarget, id uint32)
	DeleteVertexArray(id uint32)
	DeleteBuffer(id uint32)
	BufferFloats(target BufferTarget, data []float32)
	BufferIndices(target BufferTarget, data []uint32)
	VertexAttrib(location uint32, size, stride, offset int)

	// CompileShader returns the shader id and, on failure, the info log.
	CompileShader(stage ShaderStage, source string) (uint32, string, bool)
	DeleteShader(id uint32)
	// LinkProgram links the shaders into a new program. On failure the
	// program is deleted and the info log returned.
	LinkProgram(shaders ...uint32) (uint32, string, bool)
	UseProgram(id uint32)
	DeleteProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	AttribLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform3f(location int32, x, y, z float32)
	UniformMatrix4(location int32, m mgl32.Mat4)

	GenTexture() uint32
	UploadTexture(id uint32, filter TextureFilter, width, height int, pixels []uint8)
	BindTexture(unit int, id uint32)
	DeleteTexture(id uint32)

	ClearColor(r, g, b, a float32)
	Clear()
	Viewport(width, height int)
	DrawElements(p Primitive, count int)
	Flush()
}
