package video

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/ivlev/mediatools/internal/selection"
)

// CaptureOptions describes one ffmpeg screen capture invocation.
type CaptureOptions struct {
	FPS         int
	OutWidth    int
	OutHeight   int
	Output      string
	Encoder     string
	Preset      string
	Quality     int
	PixelFormat string
	// Grabber selects the ffmpeg input device: gdigrab, x11grab or
	// avfoundation. Empty picks the one for runtime.GOOS.
	Grabber string
	// Display is the X11 display (":0.0") or the avfoundation screen index.
	Display string
}

// DefaultGrabber returns the ffmpeg capture device for the current platform.
func DefaultGrabber() string {
	return grabberFor(runtime.GOOS)
}

func grabberFor(goos string) string {
	switch goos {
	case "windows":
		return "gdigrab"
	case "darwin":
		return "avfoundation"
	default:
		return "x11grab"
	}
}

// CaptureArgs builds the ffmpeg argument list that records area and scales
// it to the requested output size.
func CaptureArgs(area selection.Area, opts CaptureOptions) ([]string, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", opts.FPS)
	}
	if opts.OutWidth <= 0 || opts.OutHeight <= 0 {
		return nil, fmt.Errorf("invalid output resolution %dx%d", opts.OutWidth, opts.OutHeight)
	}
	if area.Width <= 0 || area.Height <= 0 {
		return nil, fmt.Errorf("invalid capture area %s", area)
	}
	if strings.TrimSpace(opts.Output) == "" {
		return nil, fmt.Errorf("output path is required")
	}

	grabber := opts.Grabber
	if grabber == "" {
		grabber = DefaultGrabber()
	}
	encoder := opts.Encoder
	if encoder == "" {
		encoder = "libx264"
	}
	pixFmt := opts.PixelFormat
	if pixFmt == "" {
		pixFmt = "yuv420p"
	}
	size := fmt.Sprintf("%dx%d", area.Width, area.Height)
	scale := fmt.Sprintf("scale=%d:%d", opts.OutWidth, opts.OutHeight)

	args := []string{"-y", "-f", grabber, "-framerate", strconv.Itoa(opts.FPS)}
	filter := scale

	switch grabber {
	case "gdigrab":
		args = append(args,
			"-offset_x", strconv.Itoa(area.X),
			"-offset_y", strconv.Itoa(area.Y),
			"-video_size", size,
			"-i", "desktop",
		)
	case "x11grab":
		display := opts.Display
		if display == "" {
			display = ":0.0"
		}
		args = append(args,
			"-video_size", size,
			"-i", fmt.Sprintf("%s+%d,%d", display, area.X, area.Y),
		)
	case "avfoundation":
		// avfoundation has no offset options, so crop the full screen instead.
		screen := opts.Display
		if screen == "" {
			screen = "1"
		}
		args = append(args, "-capture_cursor", "1", "-i", screen+":none")
		filter = fmt.Sprintf("crop=%d:%d:%d:%d,%s", area.Width, area.Height, area.X, area.Y, scale)
	default:
		return nil, fmt.Errorf("unsupported grabber %q", grabber)
	}

	args = append(args, "-vf", filter, "-c:v", encoder)
	args = append(args, QualityArgs(encoder, opts.Preset, opts.Quality)...)
	args = append(args, "-pix_fmt", pixFmt, opts.Output)
	return args, nil
}

// QualityArgs maps a single quality knob onto the rate-control flags each
// encoder understands.
func QualityArgs(encoder, preset string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", strconv.Itoa(quality)}
	default:
		if preset == "" {
			preset = "ultrafast"
		}
		return []string{"-preset", preset, "-crf", strconv.Itoa(quality)}
	}
}

// ParseResolution parses "WxH".
func ParseResolution(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution %q: want WxH, e.g. 1280x720", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height %q: %w", parts[1], err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid resolution %q: dimensions must be positive", s)
	}
	return w, h, nil
}

// CommandLine renders binary and args as one printable line, quoting
// arguments that contain spaces.
func CommandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, binary)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"") {
			a = strconv.Quote(a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
