package main

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/egandro/fractal-render/pkg/config"
	"github.com/egandro/fractal-render/pkg/palette"
	"github.com/egandro/fractal-render/pkg/raster"
	"github.com/egandro/fractal-render/pkg/scale"
	"github.com/spf13/cobra"
)

const defaultLegendHeight = 32

func newLegendCmd(cfg *config.Config) *cobra.Command {
	var height int

	cmd := &cobra.Command{
		Use:   "legend <output-file>",
		Short: "Write the color gradient as an image strip",
		Long: `Write the gradient as a horizontal strip, lowest value on the left.
One column per gradient color, followed by a block in the out-of-scale color.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := legendImage(cfg, height)
			if err != nil {
				return err
			}
			if err := raster.Save(args[0], img); err != nil {
				return err
			}
			slog.Info("Legend saved", "file", args[0], "width", img.Bounds().Dx(), "height", img.Bounds().Dy())
			return nil
		},
	}
	addPaletteFlags(cmd, cfg)
	cmd.Flags().IntVar(&height, "height", defaultLegendHeight, "Height of the strip in pixels")
	return cmd
}

func legendImage(cfg *config.Config, height int) (*image.RGBA, error) {
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}
	gradient, err := buildGradient(cfg)
	if err != nil {
		return nil, err
	}
	outOfScale, err := palette.ParseColor(cfg.OutOfScale)
	if err != nil {
		return nil, fmt.Errorf("invalid out-of-scale color: %w", err)
	}

	block := max(1, gradient.Len()/50)
	img := image.NewRGBA(image.Rect(0, 0, gradient.Len()+block, height))
	for x := 0; x < gradient.Len(); x++ {
		col := image.Rect(x, 0, x+1, height)
		draw.Draw(img, col, image.NewUniform(scale.ToRGBA(gradient.At(x))), image.Point{}, draw.Src)
	}
	oos := image.Rect(gradient.Len(), 0, gradient.Len()+block, height)
	draw.Draw(img, oos, image.NewUniform(scale.ToRGBA(outOfScale)), image.Point{}, draw.Src)
	return img, nil
}
