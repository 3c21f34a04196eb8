package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

const (
	// DefaultSubdivisions is the number of shades each segment is split into.
	// The multilog scale maps one decade onto exactly one segment, so this is
	// also the number of gradient entries per decade.
	DefaultSubdivisions = 1000

	DefaultOutOfScale = "white"
	DefaultBackground = "white"
)

var (
	ErrInvalidSubdivisions = errors.New("subdivisions must be positive")
	ErrNoSegments          = errors.New("palette has no segments")
	ErrInvalidColor        = errors.New("invalid color")
)

// Segment is one start→end color pair of a gradient.
type Segment struct {
	Start colorful.Color
	End   colorful.Color
}

// DefaultSegments returns the built-in palette, lowest values first:
//
//	black   value < 1 base unit
//	blue    (1, 10]
//	green   (10, 100]
//	red     (100, 1000]
//	purple  > 1000
func DefaultSegments() []Segment {
	return []Segment{
		{Start: MustParseColor("black"), End: MustParseColor("black")},
		{Start: MustParseColor("#040085"), End: MustParseColor("#47a9ff")},
		{Start: MustParseColor("#00631e"), End: MustParseColor("#47d171")},
		{Start: MustParseColor("#8f0000"), End: MustParseColor("#ff8080")},
		{Start: MustParseColor("#4b0066"), End: MustParseColor("#e18fff")},
	}
}

// ParseColor accepts "#rrggbb", "rrggbb", "#rgb" or an SVG color name.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		col, _ := colorful.MakeColor(c)
		return col, nil
	}

	hex := s
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 4 && len(hex) != 7 {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// MustParseColor is like ParseColor but panics on error.
// Only use it for compile-time constant inputs.
func MustParseColor(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic("MustParseColor: " + err.Error())
	}
	return c
}

// ParseSegments parses a palette written as "start:end,start:end,...".
func ParseSegments(s string) ([]Segment, error) {
	var segments []Segment
	for i, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ends := strings.Split(part, ":")
		if len(ends) != 2 {
			return nil, fmt.Errorf("segment %d %q: expected start:end", i+1, part)
		}
		start, err := ParseColor(ends[0])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		end, err := ParseColor(ends[1])
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i+1, err)
		}
		segments = append(segments, Segment{Start: start, End: end})
	}
	if len(segments) == 0 {
		return nil, ErrNoSegments
	}
	return segments, nil
}
