package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/egandro/fractal-render/pkg/dataset"
	"github.com/egandro/fractal-render/pkg/palette"
	"github.com/egandro/fractal-render/pkg/raster"
	"github.com/egandro/fractal-render/pkg/scale"
	"github.com/joho/godotenv"
)

const (
	ConstantConfigFilename = "/etc/default/fractal-render"

	DefaultSeparator    = dataset.DefaultSeparator
	DefaultBaseSteps    = scale.DefaultBaseSteps
	DefaultScale        = "multilog"
	DefaultSubdivisions = palette.DefaultSubdivisions
	DefaultOutOfScale   = palette.DefaultOutOfScale
	DefaultBackground   = palette.DefaultBackground

	// DefaultNColors of 0 keeps the whole palette.
	DefaultNColors = 0

	// logger
	DefaultLogLevel = "info"
)

type Config struct {
	Separator    string
	BaseSteps    int
	Scale        string
	NColors      int
	Subdivisions int
	// Palette is "start:end,..."; empty selects the built-in palette.
	Palette    string
	OutOfScale string
	Background string
	XMin       float64
	XMax       float64
	YMin       float64
	YMax       float64
	LogLevel   string
}

// Validate reports every invalid setting. NColors is not checked: an
// out of range value selects the whole palette.
func (c *Config) Validate() error {
	var errs []error
	if c.Separator == "" {
		errs = append(errs, errors.New("separator must not be empty"))
	}
	if c.BaseSteps <= 0 {
		errs = append(errs, fmt.Errorf("basesteps must be positive, got %d", c.BaseSteps))
	}
	if _, err := scale.ParseMode(c.Scale); err != nil {
		errs = append(errs, err)
	}
	if c.Subdivisions <= 0 {
		errs = append(errs, fmt.Errorf("subdivisions must be positive, got %d", c.Subdivisions))
	}
	if err := c.Space().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Space returns the configured spatial extent.
func (c *Config) Space() raster.Space {
	return raster.Space{XMin: c.XMin, XMax: c.XMax, YMin: c.YMin, YMax: c.YMax}
}

// Segments returns the configured palette segments.
func (c *Config) Segments() ([]palette.Segment, error) {
	if c.Palette == "" {
		return palette.DefaultSegments(), nil
	}
	return palette.ParseSegments(c.Palette)
}

// Load reads the optional dotenv file and builds the config from the
// environment, falling back to the defaults.
func Load(filename string) *Config {
	if filename == "" {
		filename = ConstantConfigFilename
	}
	_ = godotenv.Load(filename)

	return &Config{
		Separator:    getEnv("FRACTAL_SEPARATOR", DefaultSeparator),
		BaseSteps:    getEnvInt("FRACTAL_BASE_STEPS", DefaultBaseSteps),
		Scale:        getEnv("FRACTAL_SCALE", DefaultScale),
		NColors:      getEnvInt("FRACTAL_NCOLORS", DefaultNColors),
		Subdivisions: getEnvInt("FRACTAL_SUBDIVISIONS", DefaultSubdivisions),
		Palette:      getEnv("FRACTAL_PALETTE", ""),
		OutOfScale:   getEnv("FRACTAL_OUT_OF_SCALE_COLOR", DefaultOutOfScale),
		Background:   getEnv("FRACTAL_BACKGROUND_COLOR", DefaultBackground),
		XMin:         getEnvFloat("FRACTAL_X_MIN", raster.DefaultMin),
		XMax:         getEnvFloat("FRACTAL_X_MAX", raster.DefaultMax),
		YMin:         getEnvFloat("FRACTAL_Y_MIN", raster.DefaultMin),
		YMax:         getEnvFloat("FRACTAL_Y_MAX", raster.DefaultMax),
		LogLevel:     getEnv("FRACTAL_LOG_LEVEL", DefaultLogLevel),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}
