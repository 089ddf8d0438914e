package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ivlev/mediatools/internal/config"
)

func TestLoadMissingDefaultReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, found, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if found {
		t.Fatal("expected no config file in temp HOME")
	}
	def := config.Default()
	if cfg.Recorder.FFmpegPath != def.Recorder.FFmpegPath {
		t.Fatalf("unexpected ffmpeg path: %q", cfg.Recorder.FFmpegPath)
	}
	if cfg.Resize.Percent != 0.5 {
		t.Fatalf("expected default percent 0.5, got %v", cfg.Resize.Percent)
	}
	if cfg.Recorder.StopTimeout != 5*time.Second {
		t.Fatalf("expected 5s stop timeout, got %v", cfg.Recorder.StopTimeout)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `recorder:
  codec: h264_nvenc
  stop_timeout: 2s
resize:
  filter: CatmullRom
  workers: 4
  extensions: [".JPG", "png"]
logging:
  level: DEBUG
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, found, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !found {
		t.Fatal("expected config file to be reported as found")
	}
	if cfg.Recorder.Codec != "h264_nvenc" {
		t.Fatalf("unexpected codec %q", cfg.Recorder.Codec)
	}
	if cfg.Recorder.StopTimeout != 2*time.Second {
		t.Fatalf("unexpected stop timeout %v", cfg.Recorder.StopTimeout)
	}
	if cfg.Recorder.Preset != "ultrafast" {
		t.Fatalf("expected untouched default preset, got %q", cfg.Recorder.Preset)
	}
	if cfg.Resize.Filter != "catmullrom" {
		t.Fatalf("expected normalized filter, got %q", cfg.Resize.Filter)
	}
	if cfg.Resize.Workers != 4 {
		t.Fatalf("unexpected workers %d", cfg.Resize.Workers)
	}
	if len(cfg.Resize.Extensions) != 2 || cfg.Resize.Extensions[0] != "jpg" {
		t.Fatalf("unexpected extensions %v", cfg.Resize.Extensions)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[resize]
percent = 0.25
jpeg_quality = 80

[recorder]
preset = "veryfast"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Resize.Percent != 0.25 {
		t.Fatalf("unexpected percent %v", cfg.Resize.Percent)
	}
	if cfg.Resize.JPEGQuality != 80 {
		t.Fatalf("unexpected jpeg quality %d", cfg.Resize.JPEGQuality)
	}
	if cfg.Recorder.Preset != "veryfast" {
		t.Fatalf("unexpected preset %q", cfg.Recorder.Preset)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"percent zero", func(c *config.Config) { c.Resize.Percent = 0 }, true},
		{"percent above one", func(c *config.Config) { c.Resize.Percent = 1.5 }, true},
		{"percent one", func(c *config.Config) { c.Resize.Percent = 1 }, false},
		{"bad filter", func(c *config.Config) { c.Resize.Filter = "box" }, true},
		{"no workers", func(c *config.Config) { c.Resize.Workers = 0 }, true},
		{"jpeg quality", func(c *config.Config) { c.Resize.JPEGQuality = 101 }, true},
		{"no extensions", func(c *config.Config) { c.Resize.Extensions = nil }, true},
		{"stop timeout", func(c *config.Config) { c.Recorder.StopTimeout = 0 }, true},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/conf/x.yaml")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "conf", "x.yaml")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
