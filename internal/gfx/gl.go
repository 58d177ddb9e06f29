package gfx

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

const sizeOfFloat32 = 4

// GLDevice issues calls against the current OpenGL 4.1 core context.
type GLDevice struct{}

// NewGLDevice loads the GL function pointers for the current context and sets
// up blending for 2D interface rendering.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize opengl")
	}

	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.SCISSOR_TEST)

	return &GLDevice{}, nil
}

func (d *GLDevice) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *GLDevice) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (d *GLDevice) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (d *GLDevice) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (d *GLDevice) BindBuffer(target BufferTarget, id uint32) {
	gl.BindBuffer(glTarget(target), id)
}

func (d *GLDevice) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (d *GLDevice) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (d *GLDevice) BufferFloats(target BufferTarget, data []float32) {
	if len(data) == 0 {
		return
	}
	gl.BufferData(glTarget(target), len(data)*sizeOfFloat32, gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *GLDevice) BufferIndices(target BufferTarget, data []uint32) {
	if len(data) == 0 {
		return
	}
	gl.BufferData(glTarget(target), len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
}

// VertexAttrib enables a float attribute; stride and offset are in floats.
func (d *GLDevice) VertexAttrib(location uint32, size, stride, offset int) {
	gl.EnableVertexAttribArray(location)
	gl.VertexAttribPointerWithOffset(location, int32(size), gl.FLOAT, false,
		int32(stride*sizeOfFloat32), uintptr(offset*sizeOfFloat32))
}

func (d *GLDevice) CompileShader(stage ShaderStage, source string) (uint32, string, bool) {
	shader := gl.CreateShader(glStage(stage))

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		shaderLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(shaderLog))
		gl.DeleteShader(shader)

		return 0, strings.TrimRight(shaderLog, "\x00"), false
	}

	return shader, "", true
}

func (d *GLDevice) DeleteShader(id uint32) {
	gl.DeleteShader(id)
}

func (d *GLDevice) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		programLog := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(programLog))
		gl.DeleteProgram(program)

		return 0, strings.TrimRight(programLog, "\x00"), false
	}

	return program, "", true
}

func (d *GLDevice) UseProgram(id uint32) {
	gl.UseProgram(id)
}

func (d *GLDevice) DeleteProgram(id uint32) {
	gl.DeleteProgram(id)
}

func (d *GLDevice) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (d *GLDevice) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *GLDevice) Uniform3f(location int32, x, y, z float32) {
	gl.Uniform3f(location, x, y, z)
}

func (d *GLDevice) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *GLDevice) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (d *GLDevice) UploadTexture(id uint32, filter TextureFilter, width, height int, pixels []uint8) {
	gl.BindTexture(gl.TEXTURE_2D, id)

	f := int32(gl.NEAREST)
	if filter == Linear {
		f = gl.LINEAR
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, f)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, f)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(width),
		int32(height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(pixels))
}

func (d *GLDevice) BindTexture(unit int, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, id)
}

func (d *GLDevice) DeleteTexture(id uint32) {
	gl.DeleteTextures(1, &id)
}

func (d *GLDevice) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *GLDevice) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *GLDevice) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *GLDevice) DrawElements(p Primitive, count int) {
	mode := uint32(gl.TRIANGLES)
	if p == TriangleStrip {
		mode = gl.TRIANGLE_STRIP
	}
	gl.DrawElements(mode, int32(count), gl.UNSIGNED_INT, nil)
}

func (d *GLDevice) Flush() {
	gl.Flush()
}

func glTarget(t BufferTarget) uint32 {
	if t == ElementArrayBuffer {
		return gl.ELEMENT_ARRAY_BUFFER
	}
	return gl.ARRAY_BUFFER
}

func glStage(s ShaderStage) uint32 {
	if s == FragmentStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}
