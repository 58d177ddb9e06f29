package gfx

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"math/bits"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/DoctorLogiq/Terrascape/internal/debug"
	"github.com/DoctorLogiq/Terrascape/internal/registry"
)

var ErrNoCell = errors.New("no such cell")

var cellBoundary = color.RGBA{R: 0xff, A: 0xff}

// UVRect is a region of a texture in normalized coordinates.
type UVRect struct {
	X1, Y1, X2, Y2 float64
}

func (r UVRect) String() string {
	return fmt.Sprintf("%v, %v, %v, %v", r.X1, r.Y1, r.X2, r.Y2)
}

// Cell is one source image stitched into an atlas.
type Cell struct {
	Index  int
	Name   registry.Identifier
	Width  int
	Height int
	UV     UVRect
}

func (c Cell) HalfWidth() float64  { return float64(c.Width) / 2 }
func (c Cell) HalfHeight() float64 { return float64(c.Height) / 2 }

// AtlasSource is an image to stitch under the given cell name.
type AtlasSource struct {
	Name  registry.Identifier
	Image image.Image
}

type AtlasOptions struct {
	// Prefix and Suffix are joined to each file's base name with underscores
	// to form its cell name.
	Prefix string
	Suffix string
	Filter TextureFilter
	// DumpDir, if set, receives a copy of the stitched image for inspection.
	DumpDir string
}

// Atlas is a square grid of equally sized cells in a single texture.
type Atlas struct {
	name     registry.Identifier
	texture  *Texture
	cellSize int
	rows     int
	cells    map[registry.Identifier]Cell
	log      *debug.Logger
}

func (a *Atlas) Name() registry.Identifier { return a.name }
func (a *Atlas) Texture() *Texture         { return a.texture }
func (a *Atlas) CellSize() int             { return a.cellSize }
func (a *Atlas) Rows() int                 { return a.rows }
func (a *Atlas) Len() int                  { return len(a.cells) }

// Use binds the atlas texture to the given unit.
func (a *Atlas) Use(unit int) {
	a.texture.Use(unit)
}

func (a *Atlas) Get(name registry.Identifier) (Cell, error) {
	if c, ok := a.cells[name]; ok {
		return c, nil
	}
	return Cell{}, errors.Wrapf(ErrNoCell, "could not find cell '%s' in the texture atlas '%s'", name, a.name)
}

// GetOrNone warns when the cell is missing.
func (a *Atlas) GetOrNone(name registry.Identifier) (Cell, bool) {
	c, ok := a.cells[name]
	if !ok {
		a.log.Warning(fmt.Sprintf("Could not find cell '%s' in the texture atlas '%s'", name, a.name))
	}
	return c, ok
}

// AtlasName appends "_texture_atlas" unless name already ends in "atlas".
func AtlasName(name string) string {
	if strings.HasSuffix(name, "atlas") {
		return name
	}
	return name + "_texture_atlas"
}

// NextPowerOfTwo returns the smallest power of two not less than n.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// CellName forms a cell identifier from a file's base name.
func CellName(file, prefix, suffix string) string {
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if prefix != "" {
		name = prefix + "_" + name
	}
	if suffix != "" {
		name = name + "_" + suffix
	}
	return name
}

// BuildAtlas stitches every PNG in dir into a new atlas texture.
func (r *Renderer) BuildAtlas(name, dir string, opts AtlasOptions) (*Atlas, error) {
	id, err := registry.Parse(AtlasName(name))
	if err != nil {
		return nil, err
	}
	r.log.Info(fmt.Sprintf("Stitching texture atlas '%s'", id), debug.After(debug.Indent))

	files, err := filepath.Glob(filepath.Join(dir, "*.png"))
	if err != nil {
		r.log.Unindent()
		return nil, errors.Wrapf(err, "list textures in %s", dir)
	}
	sort.Strings(files)

	sources := make([]AtlasSource, 0, len(files))
	for _, file := range files {
		cell, err := registry.Parse(CellName(file, opts.Prefix, opts.Suffix))
		if err != nil {
			r.log.Unindent()
			return nil, err
		}
		r.log.Debug(fmt.Sprintf("Loading '%s' from '%s'", cell, file), debug.VerboseOnly)

		img, err := DecodePNG(file)
		if err != nil {
			r.log.Unindent()
			return nil, errors.WithStack(&ResourceError{Op: "load texture", Name: cell.String(), Log: err.Error()})
		}
		sources = append(sources, AtlasSource{Name: cell, Image: img})
	}
	r.log.Info(fmt.Sprintf("Loaded %d textures", len(sources)))

	atlas, err := r.NewAtlas(id, sources, opts)
	if err != nil {
		r.log.Unindent()
		return nil, err
	}
	r.log.Info("Complete", debug.Before(debug.Unindent))
	return atlas, nil
}

// NewAtlas stitches already decoded sources into a new atlas texture.
func (r *Renderer) NewAtlas(name registry.Identifier, sources []AtlasSource, opts AtlasOptions) (*Atlas, error) {
	img, cellSize, rows, cells, err := Stitch(sources)
	if err != nil {
		return nil, errors.Wrapf(err, "stitch '%s'", name)
	}

	if opts.DumpDir != "" {
		if err := dumpPNG(filepath.Join(opts.DumpDir, name.String()+".png"), img); err != nil {
			r.log.Warning(fmt.Sprintf("Could not write a copy of the texture atlas '%s': %v", name, err))
		}
	}

	texName, err := registry.Parse(name.String() + "_texture")
	if err != nil {
		return nil, err
	}
	return &Atlas{
		name:     name,
		texture:  r.TextureFromImage(texName, img, opts.Filter),
		cellSize: cellSize,
		rows:     rows,
		cells:    cells,
		log:      r.log,
	}, nil
}

// Stitch lays the sources out row by row in a square grid. Each cell is the
// next power of two of the largest source dimension; unused cell space is
// transparent, with a red line along the cell's right and bottom edges.
func Stitch(sources []AtlasSource) (*image.RGBA, int, int, map[registry.Identifier]Cell, error) {
	if len(sources) == 0 {
		return nil, 0, 0, nil, errors.New("no textures to stitch")
	}

	cellSize := 0
	for _, s := range sources {
		b := s.Image.Bounds()
		cellSize = max(cellSize, b.Dx(), b.Dy())
	}
	cellSize = NextPowerOfTwo(cellSize)
	rows := int(math.Ceil(math.Sqrt(float64(len(sources)))))

	size := cellSize * rows
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cells := make(map[registry.Identifier]Cell, len(sources))
	scalar := 1.0 / float64(size)

	index := 0
	for column := 0; column < rows; column++ {
		for row := 0; row < rows; row++ {
			origin := image.Pt(row*cellSize, column*cellSize)
			w, h := 0, 0

			if index < len(sources) {
				src := sources[index]
				if _, dup := cells[src.Name]; dup {
					return nil, 0, 0, nil, errors.Wrapf(registry.ErrDuplicateRegistration, "cell '%s'", src.Name)
				}

				b := src.Image.Bounds()
				w, h = b.Dx(), b.Dy()
				draw.Draw(img, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}, src.Image, b.Min, draw.Src)

				x1 := scalar * float64(origin.X)
				y1 := scalar * float64(origin.Y)
				cells[src.Name] = Cell{
					Index:  index,
					Name:   src.Name,
					Width:  w,
					Height: h,
					UV:     UVRect{X1: x1, Y1: y1, X2: x1 + scalar*float64(w), Y2: y1 + scalar*float64(h)},
				}
			}

			for i := 0; i < cellSize; i++ {
				if i >= w || cellSize-1 >= h {
					img.SetRGBA(origin.X+i, origin.Y+cellSize-1, cellBoundary)
				}
				if i >= h || cellSize-1 >= w {
					img.SetRGBA(origin.X+cellSize-1, origin.Y+i, cellBoundary)
				}
			}
			index++
		}
	}
	return img, cellSize, rows, cells, nil
}

func dumpPNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
