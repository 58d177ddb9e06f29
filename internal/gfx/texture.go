package gfx

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

// Texture is a 2D RGBA texture.
type Texture struct {
	name   registry.Identifier
	id     uint32
	width  int
	height int
	r      *Renderer
}

// LoadTexture decodes a PNG file and uploads it.
func (r *Renderer) LoadTexture(name registry.Identifier, path string, filter TextureFilter) (*Texture, error) {
	img, err := DecodePNG(path)
	if err != nil {
		return nil, errors.WithStack(&ResourceError{Op: "load texture", Name: name.String(), Log: err.Error()})
	}
	return r.TextureFromImage(name, img, filter), nil
}

// TextureFromImage uploads img as a new texture.
func (r *Renderer) TextureFromImage(name registry.Identifier, img image.Image, filter TextureFilter) *Texture {
	rgba := toRGBA(img)
	size := rgba.Rect.Size()

	id := r.Device.GenTexture()
	r.Device.UploadTexture(id, filter, size.X, size.Y, rgba.Pix)

	t := &Texture{
		name:   name,
		id:     id,
		width:  size.X,
		height: size.Y,
		r:      r,
	}
	r.track(t)
	r.log.Debug(fmt.Sprintf("Created Texture '%s' (%d)", name, id))
	return t
}

func (t *Texture) Name() registry.Identifier { return t.name }
func (t *Texture) ID() uint32                { return t.id }
func (t *Texture) Type() string              { return "Texture" }
func (t *Texture) Width() float64            { return float64(t.width) }
func (t *Texture) Height() float64           { return float64(t.height) }
func (t *Texture) HalfWidth() float64        { return float64(t.width) / 2 }
func (t *Texture) HalfHeight() float64       { return float64(t.height) / 2 }

// Use binds the texture to the given texture unit.
func (t *Texture) Use(unit int) {
	t.r.Device.BindTexture(unit, t.id)
}

// Delete releases the texture ahead of Renderer.Cleanup.
func (t *Texture) Delete() {
	if t.r.untrack(t) {
		t.release()
	}
}

func (t *Texture) release() {
	t.r.Device.DeleteTexture(t.id)
}

func DecodePNG(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

var (
	missingA = color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	missingB = color.RGBA{A: 0xff}
)

// MissingImage is a magenta and black checkerboard of 2x2 squares, each
// square half the given size.
func MissingImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	half := size / 2
	if half == 0 {
		half = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := missingB
			if (x/half+y/half)%2 == 0 {
				c = missingA
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// SolidImage is a width by height image of a single color.
func SolidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}
