package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Recorder holds screen recording defaults. Flags override these values.
type Recorder struct {
	FFmpegPath   string        `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	Codec        string        `yaml:"codec" toml:"codec"`
	Preset       string        `yaml:"preset" toml:"preset"`
	Quality      int           `yaml:"quality" toml:"quality"`
	PixelFormat  string        `yaml:"pixel_format" toml:"pixel_format"`
	Display      string        `yaml:"display" toml:"display"`
	Grabber      string        `yaml:"grabber" toml:"grabber"`
	SelectTool   string        `yaml:"select_tool" toml:"select_tool"`
	StopTimeout  time.Duration `yaml:"stop_timeout" toml:"stop_timeout"`
	PollInterval time.Duration `yaml:"poll_interval" toml:"poll_interval"`
}

// Resize holds image resizing defaults.
type Resize struct {
	Percent     float64  `yaml:"percent" toml:"percent"`
	Filter      string   `yaml:"filter" toml:"filter"`
	JPEGQuality int      `yaml:"jpeg_quality" toml:"jpeg_quality"`
	Workers     int      `yaml:"workers" toml:"workers"`
	Extensions  []string `yaml:"extensions" toml:"extensions"`
}

// Logging controls diagnostic output.
type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config is shared by screenrec and imgresize; each tool reads its own section.
type Config struct {
	Recorder Recorder `yaml:"recorder" toml:"recorder"`
	Resize   Resize   `yaml:"resize" toml:"resize"`
	Logging  Logging  `yaml:"logging" toml:"logging"`
}

const defaultConfigPath = "~/.config/mediatools/config.yaml"

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Recorder: Recorder{
			FFmpegPath:   "ffmpeg",
			Codec:        "libx264",
			Preset:       "ultrafast",
			Quality:      23,
			PixelFormat:  "yuv420p",
			StopTimeout:  5 * time.Second,
			PollInterval: time.Second,
		},
		Resize: Resize{
			Percent:     0.5,
			Filter:      "lanczos",
			JPEGQuality: 95,
			Workers:     1,
			Extensions:  []string{"jpg", "jpeg", "png"},
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file yields Default(). The boolean reports whether
// a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultConfigPath
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &cfg, false, nil
		}
		return nil, false, fmt.Errorf("read config: %w", err)
	}

	if err := decode(resolved, data, &cfg); err != nil {
		return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, true, err
	}
	return &cfg, true, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		return yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
}

func (c *Config) normalize() {
	def := Default()
	c.Recorder.FFmpegPath = strings.TrimSpace(c.Recorder.FFmpegPath)
	if c.Recorder.FFmpegPath == "" {
		c.Recorder.FFmpegPath = def.Recorder.FFmpegPath
	}
	c.Recorder.Codec = strings.TrimSpace(c.Recorder.Codec)
	if c.Recorder.Codec == "" {
		c.Recorder.Codec = def.Recorder.Codec
	}
	if c.Recorder.PixelFormat == "" {
		c.Recorder.PixelFormat = def.Recorder.PixelFormat
	}
	c.Resize.Filter = strings.ToLower(strings.TrimSpace(c.Resize.Filter))
	if c.Resize.Filter == "" {
		c.Resize.Filter = def.Resize.Filter
	}
	exts := make([]string, 0, len(c.Resize.Extensions))
	for _, ext := range c.Resize.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	c.Resize.Extensions = exts
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
