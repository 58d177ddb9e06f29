package gfx

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position, rotation (radians, pitch/yaw/roll) and scale with
// a lazily rebuilt model matrix.
type Transform struct {
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	matrix   mgl32.Mat4
	dirty    bool
}

func NewTransform(uniformScale float32) *Transform {
	return &Transform{
		scale:  mgl32.Vec3{uniformScale, uniformScale, uniformScale},
		matrix: mgl32.Ident4(),
		dirty:  true,
	}
}

func (t *Transform) Position() mgl32.Vec3 { return t.position }
func (t *Transform) Rotation() mgl32.Vec3 { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3    { return t.scale }
func (t *Transform) Dirty() bool          { return t.dirty }

func (t *Transform) Translate(x, y, z float32) {
	t.position = t.position.Add(mgl32.Vec3{x, y, z})
	t.dirty = true
}

func (t *Transform) Rotate(pitch, yaw, roll float32) {
	t.rotation = t.rotation.Add(mgl32.Vec3{pitch, yaw, roll})
	t.dirty = true
}

func (t *Transform) Grow(x, y, z float32) {
	t.scale = t.scale.Add(mgl32.Vec3{x, y, z})
	t.dirty = true
}

func (t *Transform) SetTranslation(x, y, z float32) {
	t.position = mgl32.Vec3{x, y, z}
	t.dirty = true
}

func (t *Transform) SetRotation(pitch, yaw, roll float32) {
	t.rotation = mgl32.Vec3{pitch, yaw, roll}
	t.dirty = true
}

func (t *Transform) SetScale(x, y, z float32) {
	t.scale = mgl32.Vec3{x, y, z}
	t.dirty = true
}

// Matrix scales, then rotates about X, Y and Z in turn, then translates.
func (t *Transform) Matrix() mgl32.Mat4 {
	if t.dirty {
		t.matrix = mgl32.Translate3D(t.position[0], t.position[1], t.position[2]).
			Mul4(mgl32.HomogRotate3DZ(t.rotation[2])).
			Mul4(mgl32.HomogRotate3DY(t.rotation[1])).
			Mul4(mgl32.HomogRotate3DX(t.rotation[0])).
			Mul4(mgl32.Scale3D(t.scale[0], t.scale[1], t.scale[2]))
		t.dirty = false
	}
	return t.matrix
}

// Apply sends the model matrix to the current shader, if any.
func (t *Transform) Apply(r *Renderer) {
	if s := r.CurrentShader(); s != nil {
		s.SetMatrix4("inModel", t.Matrix())
	}
}

// Ortho is a pixel-space projection centered on the origin.
func Ortho(width, height int) mgl32.Mat4 {
	hw, hh := float32(width)/2, float32(height)/2
	return mgl32.Ortho(-hw, hw, -hh, hh, -1, 1)
}
