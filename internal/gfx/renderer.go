package gfx

import (
	"fmt"
	"sync"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

// Object is a named driver object released by Renderer.Cleanup.
type Object interface {
	Name() registry.Identifier
	ID() uint32
	Type() string
	release()
}

// Renderer owns the device, the buffer tracker and every shader and texture
// created through it.
type Renderer struct {
	Device  Device
	Tracker *Tracker
	log     *debug.Logger

	mu      sync.Mutex
	objects []Object
	current *Shader
}

func NewRenderer(dev Device, log *debug.Logger) *Renderer {
	if log == nil {
		log = debug.Default()
	}
	return &Renderer{
		Device:  dev,
		Tracker: NewTracker(dev, log),
		log:     log,
	}
}

func (r *Renderer) Log() *debug.Logger { return r.log }

// CurrentShader is the shader most recently put in use, or nil.
func (r *Renderer) CurrentShader() *Shader {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

func (r *Renderer) setCurrent(s *Shader) {
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
}

func (r *Renderer) track(o Object) {
	r.mu.Lock()
	r.objects = append(r.objects, o)
	r.mu.Unlock()
}

// untrack reports whether o was still tracked.
func (r *Renderer) untrack(o Object) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, tracked := range r.objects {
		if tracked == o {
			r.objects = append(r.objects[:i], r.objects[i+1:]...)
			if s, ok := o.(*Shader); ok && r.current == s {
				r.current = nil
			}
			return true
		}
	}
	return false
}

// Objects returns the live shaders and textures in creation order.
func (r *Renderer) Objects() []Object {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Object(nil), r.objects...)
}

// Cleanup releases every shader and texture, then every tracked buffer.
func (r *Renderer) Cleanup() {
	r.mu.Lock()
	objects := r.objects
	r.objects = nil
	r.current = nil
	r.mu.Unlock()

	r.log.ProcessStart("Cleaning up OpenGL objects", debug.VerboseOnly)
	for _, o := range objects {
		r.log.Debug(fmt.Sprintf("%s %s '%s' (%d)", debug.Bullet, o.Type(), o.Name(), o.ID()),
			debug.VerboseOnly, debug.After(debug.Indent))
		o.release()
		r.log.Unindent(debug.VerboseOnly)
	}
	r.log.ProcessEnd(true, debug.VerboseOnly)

	r.Tracker.Cleanup()
}
