package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/mediatools/internal/config"
	"github.com/ivlev/mediatools/internal/logging"
	"github.com/ivlev/mediatools/internal/resize"
	"github.com/ivlev/mediatools/internal/system"
)

type resizeFlags struct {
	percent    float64
	minDim     int
	maxDim     int
	workers    int
	filter     string
	quality    int
	summary    bool
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	flags := &resizeFlags{}

	cmd := &cobra.Command{
		Use:   "imgresize INPUT OUTPUT",
		Short: "Resize images individually or in batch, keeping the aspect ratio",
		Long: `Resize a single image, or every jpg/jpeg/png under a directory.

INPUT is an image file or a directory; OUTPUT is the destination file or
directory. With no sizing flag images are scaled to half their size.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResize(cmd, flags, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&flags.percent, "percent", "p", 0, "Fraction (0 to 1] of the original size (default 0.5)")
	f.IntVarP(&flags.minDim, "min-dim", "m", 0, "Minimum dimension of the resized image")
	f.IntVarP(&flags.maxDim, "max-dim", "M", 0, "Maximum dimension of the resized image")
	f.IntVar(&flags.workers, "workers", 0, "Images resized in parallel (default from config, 1)")
	f.StringVar(&flags.filter, "filter", "", "Resampling filter: "+strings.Join(resize.Filters, ", "))
	f.IntVar(&flags.quality, "quality", 0, "JPEG quality 1-100")
	f.BoolVar(&flags.summary, "summary", false, "Print a table of resized files")
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")

	return cmd
}

// sizingFromFlags maps the flags onto resize.Options. Flags that were given
// explicitly must hold usable values; zero is not "unset" once typed. It
// needs no config, so bad flags are reported before any file is read.
func sizingFromFlags(cmd *cobra.Command, flags *resizeFlags) (resize.Options, error) {
	changed := cmd.Flags().Changed
	if changed("percent") && changed("max-dim") {
		return resize.Options{}, fmt.Errorf("Cannot use --percent (%g) with --max-dim (%d): %w", flags.percent, flags.maxDim, resize.ErrPercentWithMaxDim)
	}
	if changed("percent") && (flags.percent <= 0 || flags.percent > 1) {
		return resize.Options{}, fmt.Errorf("--percent %g: %w", flags.percent, resize.ErrInvalidPercent)
	}
	if changed("min-dim") && flags.minDim <= 0 {
		return resize.Options{}, fmt.Errorf("--min-dim %d: %w", flags.minDim, resize.ErrInvalidDimension)
	}
	if changed("max-dim") && flags.maxDim <= 0 {
		return resize.Options{}, fmt.Errorf("--max-dim %d: %w", flags.maxDim, resize.ErrInvalidDimension)
	}
	opts := resize.Options{
		Percent: flags.percent,
		MinDim:  flags.minDim,
		MaxDim:  flags.maxDim,
	}
	return opts, opts.Validate()
}

func runResize(cmd *cobra.Command, flags *resizeFlags, input, output string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	sizing, err := sizingFromFlags(cmd, flags)
	if err != nil {
		return err
	}

	cfg, _, err := config.Load(strings.TrimSpace(flags.configPath))
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	sizing.Default = cfg.Resize.Percent

	input = filepath.Clean(input)
	output = filepath.Clean(output)
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("Cannot find path: %s", filepath.ToSlash(input))
		}
		return err
	}

	if cfg.Resize.Workers > 1 {
		system.RaiseOpenFileLimit(logger, uint64(cfg.Resize.Workers)*16)
	}

	r, err := resize.New(resize.BatchOptions{
		Sizing:      sizing,
		Filter:      cfg.Resize.Filter,
		JPEGQuality: cfg.Resize.JPEGQuality,
		Workers:     cfg.Resize.Workers,
		Extensions:  cfg.Resize.Extensions,
		Progress:    out,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	logger.Debug("resize starting", "input", input, "output", output, "mode", sizing.Mode().String())
	results, runErr := r.Run(ctx, input, output)
	if flags.summary && len(results) > 0 {
		fmt.Fprintln(out, resize.RenderSummary(results))
	}
	if runErr != nil {
		return fmt.Errorf("resized %d images, some failed: %w", len(results), runErr)
	}
	return nil
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config, flags *resizeFlags) {
	changed := cmd.Flags().Changed
	if changed("workers") {
		cfg.Resize.Workers = flags.workers
	}
	if changed("filter") {
		cfg.Resize.Filter = strings.ToLower(strings.TrimSpace(flags.filter))
	}
	if changed("quality") {
		cfg.Resize.JPEGQuality = flags.quality
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
}
