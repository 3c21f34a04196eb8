package scale

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/egandro/fractal-render/pkg/palette"
	"github.com/lucasb-eyer/go-colorful"
)

// Mode selects how a value is turned into a gradient index.
type Mode int

const (
	// ModeMultilog is an absolute logarithmic scale: one decade of
	// value/BaseSteps per gradient segment.
	ModeMultilog Mode = iota
	// ModeLog maps log10(value) linearly onto the gradient, relative to the maximum.
	ModeLog
	// ModeLinear maps value linearly onto the gradient, relative to the maximum.
	ModeLinear
)

const (
	DefaultMode      = ModeMultilog
	DefaultBaseSteps = 1

	// channelScale converts [0,1] channels to 8 bit. 254 rather than 255
	// keeps output identical to images produced by earlier versions.
	channelScale = 254
)

var (
	ErrUnknownMode      = errors.New("unknown scale mode")
	ErrEmptyGradient    = errors.New("gradient is empty")
	ErrInvalidBaseSteps = errors.New("base steps must be positive")
	ErrInvalidMax       = errors.New("maximum value must be positive and finite")
	ErrDegenerateLog    = errors.New("log scale needs a maximum value greater than 1")
	ErrDomain           = errors.New("value outside the scale domain")
)

// DomainError reports a value the scale cannot represent.
type DomainError struct {
	Value float64
	Mode  Mode
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s scale: value %v: %v", e.Mode, e.Value, ErrDomain)
}

func (e *DomainError) Unwrap() error {
	return ErrDomain
}

func (m Mode) String() string {
	switch m {
	case ModeMultilog:
		return "multilog"
	case ModeLog:
		return "log"
	case ModeLinear:
		return "linear"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts "multilog", "log" or "linear" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multilog":
		return ModeMultilog, nil
	case "log":
		return ModeLog, nil
	case "linear":
		return ModeLinear, nil
	}
	return 0, fmt.Errorf("%w: %q (valid: multilog, log, linear)", ErrUnknownMode, s)
}

// Config describes a scale. ValueMax is the largest value of the dataset.
type Config struct {
	Mode       Mode
	BaseSteps  int
	Gradient   palette.Gradient
	OutOfScale colorful.Color
	ValueMax   float64
}

// Scale is a validated, immutable Config. It is safe for concurrent use.
type Scale struct {
	cfg    Config
	last   float64
	logMax float64
}

// New validates cfg and returns a Scale ready to map values.
func New(cfg Config) (*Scale, error) {
	if cfg.Gradient.Len() == 0 {
		return nil, ErrEmptyGradient
	}
	if math.IsNaN(cfg.ValueMax) || math.IsInf(cfg.ValueMax, 0) || cfg.ValueMax <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMax, cfg.ValueMax)
	}

	s := &Scale{
		cfg:  cfg,
		last: float64(cfg.Gradient.Len() - 1),
	}
	s.cfg.Gradient.Colors = append([]colorful.Color(nil), cfg.Gradient.Colors...)

	switch cfg.Mode {
	case ModeLinear:
	case ModeLog:
		if cfg.ValueMax <= 1 {
			return nil, fmt.Errorf("%w: got %v", ErrDegenerateLog, cfg.ValueMax)
		}
		s.logMax = math.Log10(cfg.ValueMax)
	case ModeMultilog:
		if cfg.BaseSteps <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidBaseSteps, cfg.BaseSteps)
		}
		if cfg.Gradient.Subdivisions <= 0 {
			return nil, palette.ErrInvalidSubdivisions
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, cfg.Mode)
	}
	return s, nil
}

// Config returns a copy of the configuration the scale was built from.
func (s *Scale) Config() Config {
	cfg := s.cfg
	cfg.Gradient.Colors = append([]colorful.Color(nil), s.cfg.Gradient.Colors...)
	return cfg
}

// Color returns the color for value.
//
// The dataset maximum always maps to the out-of-scale color, as does any
// index past the end of the gradient.
func (s *Scale) Color(value float64) (colorful.Color, error) {
	if value == s.cfg.ValueMax {
		return s.cfg.OutOfScale, nil
	}
	if err := s.checkDomain(value); err != nil {
		return colorful.Color{}, err
	}

	var pos float64
	switch s.cfg.Mode {
	case ModeLinear:
		pos = value / s.cfg.ValueMax * s.last
	case ModeLog:
		pos = math.Log10(value) / s.logMax * s.last
	case ModeMultilog:
		raw := math.Log10(value/float64(s.cfg.BaseSteps)) + 1
		// Values below one decade under BaseSteps collapse onto the first color.
		raw = math.Max(raw, 0)
		pos = raw * float64(s.cfg.Gradient.Subdivisions)
	}

	pos = math.Floor(pos)
	if pos >= float64(s.cfg.Gradient.Len()) {
		return s.cfg.OutOfScale, nil
	}
	index := 0
	if pos > 0 {
		index = int(pos)
	}
	return s.cfg.Gradient.At(index), nil
}

// RGBA is Color followed by ToRGBA.
func (s *Scale) RGBA(value float64) (color.RGBA, error) {
	c, err := s.Color(value)
	if err != nil {
		return color.RGBA{}, err
	}
	return ToRGBA(c), nil
}

func (s *Scale) checkDomain(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return &DomainError{Value: value, Mode: s.cfg.Mode}
	}
	if value == 0 && s.cfg.Mode != ModeLinear {
		return &DomainError{Value: value, Mode: s.cfg.Mode}
	}
	return nil
}

// ToRGBA converts c to an opaque 8 bit color, truncating channel*254.
func ToRGBA(c colorful.Color) color.RGBA {
	return color.RGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	v = math.Max(0, math.Min(1, v))
	return uint8(v * channelScale)
}
