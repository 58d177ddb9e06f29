package gfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

// Shader is a linked vertex and fragment program.
type Shader struct {
	name     registry.Identifier
	id       uint32
	r        *Renderer
	uniforms map[string]int32
}

// LoadShader compiles and links a program from vertex and fragment sources.
// On failure nothing is left allocated and the error is a *ResourceError.
func (r *Renderer) LoadShader(name registry.Identifier, vertexSource, fragmentSource string) (*Shader, error) {
	vertex, log, ok := r.Device.CompileShader(VertexStage, vertexSource)
	if !ok {
		return nil, errors.WithStack(&ResourceError{Op: "compile vertex shader", Name: name.String(), Log: log})
	}
	defer r.Device.DeleteShader(vertex)

	fragment, log, ok := r.Device.CompileShader(FragmentStage, fragmentSource)
	if !ok {
		return nil, errors.WithStack(&ResourceError{Op: "compile fragment shader", Name: name.String(), Log: log})
	}
	defer r.Device.DeleteShader(fragment)

	program, log, ok := r.Device.LinkProgram(vertex, fragment)
	if !ok {
		return nil, errors.WithStack(&ResourceError{Op: "link shader", Name: name.String(), Log: log})
	}

	s := &Shader{
		name:     name,
		id:       program,
		r:        r,
		uniforms: make(map[string]int32),
	}
	r.track(s)
	r.log.Debug(fmt.Sprintf("Created Shader '%s' (%d)", name, program))
	return s, nil
}

func (s *Shader) Name() registry.Identifier { return s.name }
func (s *Shader) ID() uint32                { return s.id }
func (s *Shader) Type() string              { return "Shader" }

// Use makes this the current program.
func (s *Shader) Use() {
	s.r.Device.UseProgram(s.id)
	s.r.setCurrent(s)
}

func (s *Shader) uniform(name string) int32 {
	if loc, ok := s.uniforms[name]; ok {
		return loc
	}
	loc := s.r.Device.UniformLocation(s.id, name)
	s.uniforms[name] = loc
	return loc
}

func (s *Shader) SetInt(name string, v int32) {
	s.r.Device.Uniform1i(s.uniform(name), v)
}

func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	s.r.Device.Uniform3f(s.uniform(name), v[0], v[1], v[2])
}

func (s *Shader) SetMatrix4(name string, m mgl32.Mat4) {
	s.r.Device.UniformMatrix4(s.uniform(name), m)
}

// AttribLocation looks up a vertex attribute the program actually uses.
func (s *Shader) AttribLocation(name string) (uint32, error) {
	loc := s.r.Device.AttribLocation(s.id, name)
	if loc < 0 {
		return 0, errors.Errorf("shader '%s' has no attribute '%s'", s.name, name)
	}
	return uint32(loc), nil
}

// Delete releases the program ahead of Renderer.Cleanup.
func (s *Shader) Delete() {
	if s.r.untrack(s) {
		s.release()
	}
}

func (s *Shader) release() {
	s.r.Device.DeleteProgram(s.id)
}
