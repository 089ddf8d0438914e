package system

import (
	"context"
	"os/exec"
	"strings"
)

// Hardware encoders in priority order. libx264 is the software fallback.
var hardwareEncoders = []string{"h264_videotoolbox", "h264_nvenc"}

// BestH264Encoder asks ffmpeg for its encoder list and picks the first
// hardware H.264 encoder it reports, falling back to libx264.
func BestH264Encoder(ctx context.Context, ffmpegPath string) string {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	out, err := exec.CommandContext(ctx, ffmpegPath, "-hide_banner", "-encoders").CombinedOutput()
	if err != nil {
		return "libx264"
	}
	return pickEncoder(string(out))
}

func pickEncoder(encoderList string) string {
	for _, name := range hardwareEncoders {
		if strings.Contains(encoderList, " "+name+" ") {
			return name
		}
	}
	return "libx264"
}

// DefaultQuality returns a sensible quality value for encoder:
// a CRF for libx264, a CQ for NVENC, and a bitrate factor (x100 kbit/s) for
// VideoToolbox.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75
	case "h264_nvenc":
		return 28
	default:
		return 23
	}
}
