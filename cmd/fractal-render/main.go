package main

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/egandro/fractal-render/pkg/config"
	"github.com/egandro/fractal-render/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	var quiet bool

	// Load config to get defaults
	cfg := config.Load(config.ConstantConfigFilename)

	cmd := &cobra.Command{
		Use:   "fractal-render <input-file> <output-file>",
		Short: "Render sampled fractal data into an image",
		Long: `Render a table of "x y boxsize value" samples into an image.

Each sample is painted as a square of its box size. The color encodes the
value on a linear, logarithmic or multi-decade logarithmic (multilog) scale.
The output format is chosen from the extension: .png, .bmp or .tiff.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg.LogLevel, verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s := newSpinner(quiet || verbose, " Rendering...")
			if s != nil {
				s.Start()
				defer s.Stop()
				defer pauseLogging(s)()
			}

			onStage := func(stage string) {
				slog.Debug("Stage", "name", stage)
				if s != nil {
					s.Lock()
					s.Suffix = " " + stage + "..."
					s.Unlock()
				}
			}
			return renderFile(args[0], args[1], cfg, onStage)
		},
	}

	addRenderFlags(cmd, cfg)
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output, disables the spinner")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable progress spinner")

	cmd.AddCommand(newLegendCmd(cfg))
	return cmd
}

func addRenderFlags(cmd *cobra.Command, cfg *config.Config) {
	cmd.Flags().StringVar(&cfg.Separator, "separator", cfg.Separator, "Field separator of the input file")
	cmd.Flags().IntVar(&cfg.BaseSteps, "basesteps", cfg.BaseSteps, "Unit number of steps the multilog scale is based on")
	cmd.Flags().StringVar(&cfg.Scale, "scale", cfg.Scale, "Color scale: multilog, log or linear")
	cmd.Flags().StringVar(&cfg.Background, "background", cfg.Background, "Color of pixels not covered by any sample")
	cmd.Flags().Float64Var(&cfg.XMin, "x-min", cfg.XMin, "Left edge of the rendered plane")
	cmd.Flags().Float64Var(&cfg.XMax, "x-max", cfg.XMax, "Right edge of the rendered plane")
	cmd.Flags().Float64Var(&cfg.YMin, "y-min", cfg.YMin, "Bottom edge of the rendered plane")
	cmd.Flags().Float64Var(&cfg.YMax, "y-max", cfg.YMax, "Top edge of the rendered plane")
	addPaletteFlags(cmd, cfg)
}

func setupLogging(levelName string, verbose bool) error {
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(&logger.SimpleHandler{Output: os.Stderr, Level: level}))
	return nil
}

// newSpinner returns nil when disabled or when stderr is not a terminal.
func newSpinner(disabled bool, suffix string) *spinner.Spinner {
	if disabled || !isTerminal(os.Stderr) {
		return nil
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	return s
}

type pauser interface {
	Start()
	Stop()
}

// pausingWriter stops the spinner for the duration of each write.
type pausingWriter struct {
	mu sync.Mutex
	p  pauser
	w  io.Writer
}

func (pw *pausingWriter) Write(b []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()
	pw.p.Stop()
	defer pw.p.Start()
	return pw.w.Write(b)
}

// pauseLogging routes the default logger through p and returns a func
// restoring the previous logger.
func pauseLogging(p pauser) func() {
	prev := slog.Default()
	h, ok := prev.Handler().(*logger.SimpleHandler)
	if !ok {
		return func() {}
	}
	paused := *h
	paused.Output = &pausingWriter{p: p, w: h.Output}
	slog.SetDefault(slog.New(&paused))
	return func() { slog.SetDefault(prev) }
}
