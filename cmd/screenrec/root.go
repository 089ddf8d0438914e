package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/mediatools/internal/config"
	"github.com/ivlev/mediatools/internal/deps"
	"github.com/ivlev/mediatools/internal/logging"
	"github.com/ivlev/mediatools/internal/recorder"
	"github.com/ivlev/mediatools/internal/selection"
	"github.com/ivlev/mediatools/internal/system"
	"github.com/ivlev/mediatools/internal/video"
)

type recordFlags struct {
	resolution string
	fps        int
	output     string
	area       string
	codec      string
	quality    int
	screen     int
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:           "screenrec",
		Short:         "Record a selected area of the screen with ffmpeg",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.resolution, "resolution", "r", "", "Output resolution, e.g. 1280x720")
	f.IntVarP(&flags.fps, "fps", "f", 0, "Frames per second")
	f.StringVarP(&flags.output, "output", "o", "", "Output video file")
	f.StringVar(&flags.area, "area", "", `Record this area instead of asking, "X,Y WxH"`)
	f.StringVar(&flags.codec, "codec", "", "Video encoder, or auto to pick a hardware H.264 encoder")
	f.IntVar(&flags.quality, "quality", 0, "Encoder quality (CRF for libx264, CQ for NVENC, x100 kbit/s for VideoToolbox)")
	f.IntVar(&flags.screen, "screen", 0, "Display index used for full-screen recording")
	f.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	f.StringVar(&flags.logFormat, "log-format", "", "Log format: console or json")
	_ = cmd.MarkFlagRequired("resolution")
	_ = cmd.MarkFlagRequired("fps")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func loadConfig(path, level, format string) (*config.Config, *slog.Logger, error) {
	cfg, _, err := config.Load(strings.TrimSpace(path))
	if err != nil {
		return nil, nil, err
	}
	if level != "" {
		cfg.Logging.Level = level
	}
	if format != "" {
		cfg.Logging.Format = format
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runRecord(cmd *cobra.Command, flags *recordFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, logger, err := loadConfig(flags.configPath, flags.logLevel, flags.logFormat)
	if err != nil {
		return err
	}
	rc := cfg.Recorder

	width, height, err := video.ParseResolution(flags.resolution)
	if err != nil {
		return err
	}
	if flags.fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", flags.fps)
	}

	paths, err := deps.Require(deps.Tool{
		Name:    "ffmpeg",
		Command: rc.FFmpegPath,
		Hint:    "install ffmpeg or set recorder.ffmpeg_path",
	})
	if err != nil {
		return err
	}
	ffmpegPath := paths["ffmpeg"]

	area, cancelled, err := selectArea(ctx, cmd.InOrStdin(), out, flags, rc)
	if err != nil {
		return err
	}
	if cancelled {
		fmt.Fprintln(out, "\nNo area selected. Exiting.")
		return nil
	}
	area = area.Even()
	fmt.Fprintf(out, "\n[*] Selected area: %s\n", area)

	encoder := rc.Codec
	if flags.codec != "" {
		encoder = flags.codec
	}
	quality := rc.Quality
	if strings.EqualFold(encoder, "auto") {
		encoder = system.BestH264Encoder(ctx, ffmpegPath)
		quality = system.DefaultQuality(encoder)
		logger.Info("encoder selected", "encoder", encoder, "quality", quality)
	}
	if cmd.Flags().Changed("quality") {
		quality = flags.quality
	}

	args, err := video.CaptureArgs(area, video.CaptureOptions{
		FPS:         flags.fps,
		OutWidth:    width,
		OutHeight:   height,
		Output:      flags.output,
		Encoder:     encoder,
		Preset:      rc.Preset,
		Quality:     quality,
		PixelFormat: rc.PixelFormat,
		Grabber:     rc.Grabber,
		Display:     rc.Display,
	})
	if err != nil {
		return err
	}

	rule := strings.Repeat("=", 50)
	fmt.Fprintf(out, "\n%s\nFFmpeg command:\n%s\n%s\n\n", rule, video.CommandLine(ffmpegPath, args), rule)

	session, err := recorder.Start(ctx, recorder.Options{
		FFmpegPath:   ffmpegPath,
		Args:         args,
		Output:       out,
		StopTimeout:  rc.StopTimeout,
		PollInterval: rc.PollInterval,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "[*] Recording started! Press Ctrl+C to stop...")
	fmt.Fprintln(out, "FFmpeg output:")

	// ctx is cancelled by SIGINT/SIGTERM; Run turns that into a graceful stop.
	runErr := session.Run(ctx)
	_ = session.Wait()

	if errors.Is(runErr, recorder.ErrStoppedUnexpectedly) {
		fmt.Fprintln(out, "\n[!] FFmpeg stopped unexpectedly!")
		return runErr
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintln(out, "\n\n[*] Recording stopped.")
	if session.Killed() {
		fmt.Fprintln(out, "[!] FFmpeg did not finish in time and was killed; the file may be incomplete.")
	}
	if desc, err := recorder.DescribeOutput(flags.output); err == nil {
		fmt.Fprintf(out, "[+] Output file: %s\n", desc)
	} else {
		logger.Warn("output file missing", "path", flags.output, "error", err)
	}
	return nil
}

func selectArea(ctx context.Context, in io.Reader, out io.Writer, flags *recordFlags, rc config.Recorder) (selection.Area, bool, error) {
	var selector selection.Selector
	if flags.area != "" {
		area, err := selection.ParseArea(flags.area)
		if err != nil {
			return selection.Area{}, false, fmt.Errorf("--area: %w", err)
		}
		// Same floor as a dragged selection, which also keeps Even() above zero.
		area, ok := selection.FromDrag(area.X, area.Y, area.X+area.Width, area.Y+area.Height)
		if !ok {
			return selection.Area{}, false, fmt.Errorf("--area %q: both sides must be larger than %d px", flags.area, selection.MinSide)
		}
		selector = selection.Static{Area: area}
	} else {
		prompt := &selection.PromptSelector{
			Out: out,
			FullScreen: func() (selection.Area, error) {
				return selection.ScreenBounds(flags.screen)
			},
		}
		if f, ok := in.(*os.File); ok {
			prompt.In = f
		}
		// A missing picker only matters if the user asks to drag.
		if tool, err := selection.NewToolSelector(rc.SelectTool); err == nil {
			prompt.Drag = tool
		}
		selector = prompt
	}
	return selector.Select(ctx)
}
