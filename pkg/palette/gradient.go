package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Gradient is an ordered list of colors, lowest value first.
type Gradient struct {
	// Colors holds Subdivisions shades for every segment, in segment order.
	Colors []colorful.Color
	// Subdivisions is the number of shades per segment the gradient was built with.
	Subdivisions int
}

// Len returns the number of colors in the gradient.
func (g Gradient) Len() int {
	return len(g.Colors)
}

// At returns the color at index i. The caller is responsible for bounds.
func (g Gradient) At(i int) colorful.Color {
	return g.Colors[i]
}

// Segments returns the number of segments the gradient spans.
func (g Gradient) Segments() int {
	if g.Subdivisions == 0 {
		return 0
	}
	return len(g.Colors) / g.Subdivisions
}

// Build concatenates the RGB ramps of the given segments.
// If limit is within [1, len(segments)] only the first limit segments are
// used, otherwise the whole palette is.
func Build(segments []Segment, subdivisions int, limit int) (Gradient, error) {
	if subdivisions <= 0 {
		return Gradient{}, ErrInvalidSubdivisions
	}
	if len(segments) == 0 {
		return Gradient{}, ErrNoSegments
	}
	if limit >= 1 && limit <= len(segments) {
		segments = segments[:limit]
	}

	colors := make([]colorful.Color, 0, len(segments)*subdivisions)
	for _, s := range segments {
		colors = append(colors, ramp(s.Start, s.End, subdivisions)...)
	}

	return Gradient{Colors: colors, Subdivisions: subdivisions}, nil
}

// ramp returns n colors from start to end, both inclusive.
func ramp(start, end colorful.Color, n int) []colorful.Color {
	if n == 1 {
		return []colorful.Color{start}
	}
	out := make([]colorful.Color, n)
	for i := range n {
		out[i] = start.BlendRgb(end, float64(i)/float64(n-1))
	}
	out[n-1] = end
	return out
}
