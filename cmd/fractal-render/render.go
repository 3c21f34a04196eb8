package main

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/egandro/fractal-render/pkg/config"
	"github.com/egandro/fractal-render/pkg/dataset"
	"github.com/egandro/fractal-render/pkg/palette"
	"github.com/egandro/fractal-render/pkg/raster"
	"github.com/egandro/fractal-render/pkg/scale"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
)

func addPaletteFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().IntVar(&cfg.NColors, "ncolors", cfg.NColors, "Limit the number of palette segments (out of range values use all)")
	cmd.Flags().IntVar(&cfg.Subdivisions, "subdivisions", cfg.Subdivisions, "Number of shades per palette segment")
	cmd.Flags().StringVar(&cfg.Palette, "palette", cfg.Palette, `Palette as "start:end,start:end,..." (default: built-in palette)`)
	cmd.Flags().StringVar(&cfg.OutOfScale, "out-of-scale-color", cfg.OutOfScale, "Color of the maximum and of out of scale values")
}

// buildGradient builds the configured palette, truncated to NColors segments.
func buildGradient(cfg *config.Config) (palette.Gradient, error) {
	segments, err := cfg.Segments()
	if err != nil {
		return palette.Gradient{}, fmt.Errorf("invalid palette: %w", err)
	}
	g, err := palette.Build(segments, cfg.Subdivisions, cfg.NColors)
	if err != nil {
		return palette.Gradient{}, fmt.Errorf("invalid palette: %w", err)
	}
	slog.Debug("Built gradient", "segments", g.Segments(), "colors", g.Len())
	return g, nil
}

// renderFile reads input, maps every sample to a color and writes the image
// to output. Nothing is written if any step fails.
func renderFile(input, output string, cfg *config.Config, onStage func(string)) error {
	if onStage == nil {
		onStage = func(string) {}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := raster.FormatFromPath(output); err != nil {
		return err
	}

	mode, err := scale.ParseMode(cfg.Scale)
	if err != nil {
		return err
	}
	gradient, err := buildGradient(cfg)
	if err != nil {
		return err
	}
	outOfScale, err := palette.ParseColor(cfg.OutOfScale)
	if err != nil {
		return fmt.Errorf("invalid out-of-scale color: %w", err)
	}
	background, err := palette.ParseColor(cfg.Background)
	if err != nil {
		return fmt.Errorf("invalid background color: %w", err)
	}

	onStage("Reading " + input)
	samples, err := dataset.ReadFile(input, cfg.Separator)
	if err != nil {
		return err
	}
	stats, err := dataset.Summarize(samples)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}
	slog.Info("Loaded samples", "count", stats.Count, "min", stats.ValueMin, "max", stats.ValueMax, "resolution", stats.MinBoxSize)

	sc, err := scale.New(scale.Config{
		Mode:       mode,
		BaseSteps:  cfg.BaseSteps,
		Gradient:   gradient,
		OutOfScale: outOfScale,
		ValueMax:   stats.ValueMax,
	})
	if err != nil {
		return fmt.Errorf("cannot build %s scale: %w", mode, err)
	}

	grid, err := raster.NewGrid(cfg.Space(), stats.MinBoxSize)
	if err != nil {
		return err
	}
	slog.Info("Image resolution", "width", grid.Width, "height", grid.Height)

	onStage(fmt.Sprintf("Rendering %dx%d image", grid.Width, grid.Height))
	img, err := raster.Render(samples, grid, sc.RGBA, opaque(background))
	if err != nil {
		return err
	}

	onStage("Writing " + output)
	if err := raster.Save(output, img); err != nil {
		return err
	}
	slog.Info("Image saved", "file", output, "scale", mode)
	return nil
}

// opaque converts c with the full 0-255 channel range, unlike scale.ToRGBA.
func opaque(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
