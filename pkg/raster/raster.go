package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/egandro/fractal-render/pkg/dataset"
)

const (
	DefaultMin = -3.0
	DefaultMax = 3.0
)

var (
	ErrEmptySpace        = errors.New("spatial extent is empty")
	ErrInvalidResolution = errors.New("resolution must be positive")
)

// Space is the rectangle of the math plane covered by the image.
type Space struct {
	XMin, XMax float64
	YMin, YMax float64
}

// DefaultSpace returns the [-3,3]×[-3,3] plane.
func DefaultSpace() Space {
	return Space{XMin: DefaultMin, XMax: DefaultMax, YMin: DefaultMin, YMax: DefaultMax}
}

func (s Space) Validate() error {
	if !(s.XMax > s.XMin) || !(s.YMax > s.YMin) {
		return fmt.Errorf("%w: x [%v, %v], y [%v, %v]", ErrEmptySpace, s.XMin, s.XMax, s.YMin, s.YMax)
	}
	return nil
}

// Grid maps math coordinates onto pixels. Image y grows downwards, math y upwards.
type Grid struct {
	Space      Space
	Resolution float64
	Width      int
	Height     int
}

// NewGrid sizes the image so that one pixel spans resolution units.
func NewGrid(space Space, resolution float64) (Grid, error) {
	if err := space.Validate(); err != nil {
		return Grid{}, err
	}
	if !(resolution > 0) || math.IsInf(resolution, 0) {
		return Grid{}, fmt.Errorf("%w: %v", ErrInvalidResolution, resolution)
	}

	g := Grid{
		Space:      space,
		Resolution: resolution,
		Width:      int(math.RoundToEven((space.XMax - space.XMin) / resolution)),
		Height:     int(math.RoundToEven((space.YMax - space.YMin) / resolution)),
	}
	if g.Width <= 0 || g.Height <= 0 {
		return Grid{}, fmt.Errorf("%w: resolution %v yields a %dx%d image", ErrInvalidResolution, resolution, g.Width, g.Height)
	}
	return g, nil
}

// Rect returns the pixel rectangle covered by a box of side boxSize centered
// on (x, y), already flipped into image coordinates.
func (g Grid) Rect(x, y, boxSize float64) image.Rectangle {
	half := math.RoundToEven((boxSize/g.Resolution - 1) / 2)

	px := (x - g.Space.XMin) / ((g.Space.XMax - g.Space.XMin) / float64(g.Width))
	py := (y - g.Space.YMin) / ((g.Space.YMax - g.Space.YMin) / float64(g.Height))

	x0 := int(math.Floor(px - half))
	x1 := int(math.Floor(px + half))
	y0 := g.Height - int(math.Floor(py+half)) - 1
	y1 := g.Height - int(math.Floor(py-half)) - 1

	// Corners are inclusive.
	return image.Rect(x0, y0, x1+1, y1+1)
}

// ColorFunc returns the pixel color of a sample value.
type ColorFunc func(value float64) (color.RGBA, error)

// Render paints every sample onto a new image filled with background.
// Samples are painted in order, later samples cover earlier ones.
func Render(samples []dataset.Sample, grid Grid, colorOf ColorFunc, background color.Color) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for i, s := range samples {
		c, err := colorOf(s.Value)
		if err != nil {
			return nil, fmt.Errorf("sample %d (x=%v, y=%v): %w", i+1, s.X, s.Y, err)
		}
		r := grid.Rect(s.X, s.Y, s.BoxSize).Intersect(img.Bounds())
		if r.Empty() {
			continue
		}
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img, nil
}
