package scale

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/egandro/fractal-render/pkg/palette"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = palette.MustParseColor("white")

func grayGradient(t *testing.T, subdivisions int) palette.Gradient {
	t.Helper()
	g, err := palette.Build([]palette.Segment{
		{Start: palette.MustParseColor("black"), End: palette.MustParseColor("white")},
	}, subdivisions, 0)
	require.NoError(t, err)
	return g
}

func defaultGradient(t *testing.T, limit int) palette.Gradient {
	t.Helper()
	g, err := palette.Build(palette.DefaultSegments(), palette.DefaultSubdivisions, limit)
	require.NoError(t, err)
	return g
}

func newScale(t *testing.T, cfg Config) *Scale {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input    string
		expected Mode
		valid    bool
	}{
		{"multilog", ModeMultilog, true},
		{"log", ModeLog, true},
		{"linear", ModeLinear, true},
		{"LINEAR", ModeLinear, true},
		{" log ", ModeLog, true},
		{"", 0, false},
		{"exp", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMode(tt.input)
			if !tt.valid {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "multilog", ModeMultilog.String())
	assert.Equal(t, "log", ModeLog.String())
	assert.Equal(t, "linear", ModeLinear.String())
	assert.Equal(t, "Mode(7)", Mode(7).String())
}

func TestNew_Errors(t *testing.T) {
	g := grayGradient(t, 10)

	tests := []struct {
		name     string
		cfg      Config
		expected error
	}{
		{"empty gradient", Config{Mode: ModeLinear, ValueMax: 10}, ErrEmptyGradient},
		{"zero max", Config{Mode: ModeLinear, Gradient: g, ValueMax: 0}, ErrInvalidMax},
		{"negative max", Config{Mode: ModeLinear, Gradient: g, ValueMax: -1}, ErrInvalidMax},
		{"NaN max", Config{Mode: ModeLinear, Gradient: g, ValueMax: math.NaN()}, ErrInvalidMax},
		{"Inf max", Config{Mode: ModeLinear, Gradient: g, ValueMax: math.Inf(1)}, ErrInvalidMax},
		{"log max one", Config{Mode: ModeLog, Gradient: g, ValueMax: 1}, ErrDegenerateLog},
		{"log max below one", Config{Mode: ModeLog, Gradient: g, ValueMax: 0.5}, ErrDegenerateLog},
		{"multilog zero base", Config{Mode: ModeMultilog, Gradient: g, ValueMax: 10}, ErrInvalidBaseSteps},
		{"multilog negative base", Config{Mode: ModeMultilog, BaseSteps: -2, Gradient: g, ValueMax: 10}, ErrInvalidBaseSteps},
		{"unknown mode", Config{Mode: Mode(42), Gradient: g, ValueMax: 10}, ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg)
			assert.Nil(t, s)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestNew_AcceptsSmallMaxOutsideLog(t *testing.T) {
	g := grayGradient(t, 10)
	_, err := New(Config{Mode: ModeLinear, Gradient: g, ValueMax: 0.5})
	assert.NoError(t, err)
	_, err = New(Config{Mode: ModeMultilog, BaseSteps: 1, Gradient: g, ValueMax: 0.5})
	assert.NoError(t, err)
}

func TestColor_MaximumIsOutOfScale(t *testing.T) {
	g := defaultGradient(t, 0)
	for _, m := range []Mode{ModeLinear, ModeLog, ModeMultilog} {
		t.Run(m.String(), func(t *testing.T) {
			for _, vmax := range []float64{2, 100, 12345.678} {
				s := newScale(t, Config{Mode: m, BaseSteps: 1, Gradient: g, OutOfScale: white, ValueMax: vmax})
				c, err := s.Color(vmax)
				require.NoError(t, err)
				assert.Equal(t, white, c)
			}
		})
	}
}

func TestColor_Linear(t *testing.T) {
	g := grayGradient(t, 1000)
	s := newScale(t, Config{Mode: ModeLinear, Gradient: g, OutOfScale: white, ValueMax: 100})

	tests := []struct {
		value float64
		index int
	}{
		{50, 499},
		{1e-9, 0},
		{0, 0},
		{25, 249},
		{99.99, 998},
	}

	for _, tt := range tests {
		c, err := s.Color(tt.value)
		require.NoError(t, err)
		assert.Equal(t, g.At(tt.index), c, "value %v", tt.value)
	}
}

func TestColor_LinearNeverOutOfScaleBelowMax(t *testing.T) {
	g := grayGradient(t, 1000)
	s := newScale(t, Config{Mode: ModeLinear, Gradient: g, OutOfScale: colorful.Color{R: 1, G: 0, B: 1}, ValueMax: 100})

	for v := 0.01; v < 100; v += 0.37 {
		c, err := s.Color(v)
		require.NoError(t, err)
		assert.NotEqual(t, s.Config().OutOfScale, c, "value %v", v)
	}
	c, err := s.Color(math.Nextafter(100, 0))
	require.NoError(t, err)
	assert.Equal(t, g.At(998), c)
}

func TestColor_Log(t *testing.T) {
	g := grayGradient(t, 1000)
	s := newScale(t, Config{Mode: ModeLog, Gradient: g, OutOfScale: white, ValueMax: 100})

	// log10(2)/2*999 = 150.36
	c, err := s.Color(2)
	require.NoError(t, err)
	assert.Equal(t, g.At(150), c)

	// log10(1) = 0
	c, err = s.Color(1)
	require.NoError(t, err)
	assert.Equal(t, g.At(0), c)

	// Values below 1 would give a negative index and are pinned to the first color.
	c, err = s.Color(0.001)
	require.NoError(t, err)
	assert.Equal(t, g.At(0), c)

	for v := 1.0; v < 100; v += 0.73 {
		c, err := s.Color(v)
		require.NoError(t, err)
		assert.NotEqual(t, white, c, "value %v", v)
	}
}

func TestColor_Multilog(t *testing.T) {
	full := defaultGradient(t, 0)
	s := newScale(t, Config{Mode: ModeMultilog, BaseSteps: 1, Gradient: full, OutOfScale: white, ValueMax: 1e9})

	tests := []struct {
		name  string
		value float64
		index int
	}{
		{"one base unit starts second segment", 1, 1000},
		{"five", 5, 1698},
		{"below one decade under base", 0.05, 0},
		{"tiny", 1e-30, 0},
		{"half", 0.5, 698},
		{"in last segment", 5000, 4698},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := s.Color(tt.value)
			require.NoError(t, err)
			assert.Equal(t, full.At(tt.index), c)
		})
	}

	for _, v := range []float64{20000, 100000, 1e8} {
		c, err := s.Color(v)
		require.NoError(t, err)
		assert.Equal(t, white, c, "value %v", v)
	}
}

func TestColor_MultilogBaseSteps(t *testing.T) {
	full := defaultGradient(t, 0)
	s := newScale(t, Config{Mode: ModeMultilog, BaseSteps: 100, Gradient: full, OutOfScale: white, ValueMax: 1e9})

	// value/base = 1
	c, err := s.Color(100)
	require.NoError(t, err)
	assert.Equal(t, full.At(1000), c)

	// value/base = 5
	c, err = s.Color(500)
	require.NoError(t, err)
	assert.Equal(t, full.At(1698), c)
}

func TestColor_MultilogTruncatedPalette(t *testing.T) {
	// One segment only: 1000 entries, index 1000 is out of range.
	g := defaultGradient(t, 1)
	s := newScale(t, Config{Mode: ModeMultilog, BaseSteps: 1, Gradient: g, OutOfScale: white, ValueMax: 1e6})

	c, err := s.Color(1)
	require.NoError(t, err)
	assert.Equal(t, white, c)

	c, err = s.Color(0.5)
	require.NoError(t, err)
	assert.Equal(t, g.At(698), c)
}

func TestColor_MultilogIsAbsolute(t *testing.T) {
	g := defaultGradient(t, 0)
	a := newScale(t, Config{Mode: ModeMultilog, BaseSteps: 1, Gradient: g, OutOfScale: white, ValueMax: 50})
	b := newScale(t, Config{Mode: ModeMultilog, BaseSteps: 1, Gradient: g, OutOfScale: white, ValueMax: 5000})

	for _, v := range []float64{0.3, 1, 7, 42} {
		ca, err := a.Color(v)
		require.NoError(t, err)
		cb, err := b.Color(v)
		require.NoError(t, err)
		assert.Equal(t, ca, cb, "value %v", v)
	}
}

func TestColor_AboveMaxIsOutOfScale(t *testing.T) {
	g := grayGradient(t, 100)
	for _, m := range []Mode{ModeLinear, ModeLog} {
		s := newScale(t, Config{Mode: m, Gradient: g, OutOfScale: white, ValueMax: 100})
		for _, v := range []float64{101, 1e6, math.MaxFloat64} {
			c, err := s.Color(v)
			require.NoError(t, err)
			assert.Equal(t, white, c, "%s value %v", m, v)
		}
	}
}

func TestColor_DomainErrors(t *testing.T) {
	g := grayGradient(t, 100)

	tests := []struct {
		mode  Mode
		value float64
	}{
		{ModeLinear, -1},
		{ModeLinear, math.NaN()},
		{ModeLinear, math.Inf(1)},
		{ModeLog, 0},
		{ModeLog, -5},
		{ModeLog, math.Inf(-1)},
		{ModeMultilog, 0},
		{ModeMultilog, -0.1},
		{ModeMultilog, math.NaN()},
	}

	for _, tt := range tests {
		s := newScale(t, Config{Mode: tt.mode, BaseSteps: 1, Gradient: g, OutOfScale: white, ValueMax: 100})
		_, err := s.Color(tt.value)
		require.Error(t, err, "%s value %v", tt.mode, tt.value)
		assert.ErrorIs(t, err, ErrDomain)

		var de *DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, tt.mode, de.Mode)
	}
}

func TestColor_Pure(t *testing.T) {
	g := defaultGradient(t, 0)
	s := newScale(t, Config{Mode: ModeMultilog, BaseSteps: 1, Gradient: g, OutOfScale: white, ValueMax: 1e4})

	first, err := s.Color(3.3)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		_, _ = s.Color(float64(i) + 0.5)
		c, err := s.Color(3.3)
		require.NoError(t, err)
		assert.Equal(t, first, c)
	}
}

func TestNew_CopiesGradient(t *testing.T) {
	g := grayGradient(t, 10)
	s := newScale(t, Config{Mode: ModeLinear, Gradient: g, OutOfScale: white, ValueMax: 10})

	before, err := s.Color(5)
	require.NoError(t, err)
	g.Colors[4] = colorful.Color{R: 1}
	after, err := s.Color(5)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestConfig_ReturnsCopy(t *testing.T) {
	s := newScale(t, Config{Mode: ModeLinear, Gradient: grayGradient(t, 10), OutOfScale: white, ValueMax: 10})

	before, err := s.Color(5)
	require.NoError(t, err)
	s.Config().Gradient.Colors[4] = colorful.Color{R: 1}
	after, err := s.Color(5)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, before, s.Config().Gradient.Colors[4])
}

func TestToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    colorful.Color
		expected color.RGBA
	}{
		{"black", colorful.Color{}, color.RGBA{0, 0, 0, 255}},
		{"white", colorful.Color{R: 1, G: 1, B: 1}, color.RGBA{254, 254, 254, 255}},
		{"half", colorful.Color{R: 0.5, G: 0.25, B: 0.75}, color.RGBA{127, 63, 190, 255}},
		{"truncates", colorful.Color{R: 0.999, G: 0.001, B: 0.4995}, color.RGBA{253, 0, 126, 255}},
		{"clamps", colorful.Color{R: 1.5, G: -0.2, B: 1}, color.RGBA{254, 0, 254, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToRGBA(tt.input))
		})
	}
}

func TestRGBA_EndToEnd(t *testing.T) {
	g := grayGradient(t, 1000)
	s := newScale(t, Config{Mode: ModeLinear, Gradient: g, OutOfScale: white, ValueMax: 100})

	c, err := s.RGBA(100)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{254, 254, 254, 255}, c)

	// gradient index 499 of a 1000 shade black→white ramp: 499/999 * 254 = 126.87
	c, err = s.RGBA(50)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{126, 126, 126, 255}, c)

	_, err = s.RGBA(-1)
	assert.ErrorIs(t, err, ErrDomain)
}
