package gui

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/DoctorLogiq/Terrascape/internal/gfx"
)

// NeutralMix leaves the interface colors untouched.
var NeutralMix = mgl32.Vec3{1, 1, 1}

// RGBEffect cycles the three color channels out of phase.
type RGBEffect struct {
	Red, Green, Blue uint8

	angle float64
	speed float64
}

func NewRGBEffect(speed float64) *RGBEffect {
	return &RGBEffect{speed: speed}
}

func (e *RGBEffect) Update(delta float64) {
	e.angle += e.speed * delta
	if e.angle > 360 {
		e.angle = 0
	}

	e.Red = channel(e.angle)
	e.Green = channel(e.angle + 2)
	e.Blue = channel(e.angle + 4)
}

func channel(angle float64) uint8 {
	return uint8(math.Sin(angle)*127 + 128)
}

// Mix is the current color as a channel multiplier.
func (e *RGBEffect) Mix() mgl32.Vec3 {
	return mgl32.Vec3{float32(e.Red) / 255, float32(e.Green) / 255, float32(e.Blue) / 255}
}

// SetChannelMix sets the interface shader's channel multiplier, if a shader
// is in use.
func SetChannelMix(r *gfx.Renderer, mix mgl32.Vec3) {
	if s := r.CurrentShader(); s != nil {
		s.SetVec3("inChannelMix", mix)
	}
}
