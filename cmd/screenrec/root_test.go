package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ivlev/mediatools/internal/recorder"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setupStub writes a fake ffmpeg and a config pointing at it.
func setupStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are unix-only")
	}
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	stub := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "config.yaml")
	content := "recorder:\n  ffmpeg_path: " + stub + "\n  grabber: x11grab\n  stop_timeout: 2s\n  poll_interval: 50ms\nlogging:\n  level: error\n"
	if err := os.WriteFile(cfg, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func execute(ctx context.Context, args ...string) (string, error) {
	cmd := newRootCommand()
	out := &lockedBuffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRecordWithStaticArea(t *testing.T) {
	cfg := setupStub(t, `for last; do :; done
printf 'video' > "$last"
echo "frame=1"
while read line; do
  [ "$line" = "q" ] && exit 0
done
`)
	output := filepath.Join(t.TempDir(), "clip.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	stdout, err := execute(ctx, "-c", cfg, "-r", "640x360", "-f", "15", "-o", output, "--area", "10,20 301x201")
	if err != nil {
		t.Fatalf("screenrec: %v\n%s", err, stdout)
	}
	for _, want := range []string{
		"Selected area: 10,20 300x200",
		"FFmpeg command:",
		"-video_size 300x200",
		"scale=640:360",
		"  frame=1",
		"Output file: " + output + " (5 B, 5 bytes)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestRecordStoppedUnexpectedly(t *testing.T) {
	cfg := setupStub(t, "echo 'device busy'\nexit 1\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stdout, err := execute(ctx, "-c", cfg, "-r", "640x360", "-f", "15", "-o", filepath.Join(t.TempDir(), "x.mp4"), "--area", "0,0 100x100")
	if !errors.Is(err, recorder.ErrStoppedUnexpectedly) {
		t.Fatalf("expected ErrStoppedUnexpectedly, got %v", err)
	}
	if !strings.Contains(stdout, "FFmpeg stopped unexpectedly!") || !strings.Contains(stdout, "  device busy") {
		t.Fatalf("unexpected output:\n%s", stdout)
	}
}

func TestRecordRejectsTinyArea(t *testing.T) {
	cfg := setupStub(t, "exit 0\n")
	for _, area := range []string{"0,0 1x300", "5,5 300x10"} {
		t.Run(area, func(t *testing.T) {
			_, err := execute(context.Background(), "-c", cfg, "-r", "640x360", "-f", "15", "-o", "x.mp4", "--area", area)
			if err == nil || !strings.Contains(err.Error(), "larger than 10 px") {
				t.Fatalf("expected minimum size error, got %v", err)
			}
		})
	}
}

func TestRecordValidatesFlags(t *testing.T) {
	cfg := setupStub(t, "exit 0\n")
	tests := [][]string{
		{"-c", cfg, "-r", "640", "-f", "15", "-o", "x.mp4", "--area", "0,0 100x100"},
		{"-c", cfg, "-r", "640x360", "-f", "0", "-o", "x.mp4", "--area", "0,0 100x100"},
		{"-c", cfg, "-r", "640x360", "-f", "15", "-o", "x.mp4", "--area", "bogus"},
		{"-c", cfg, "-r", "640x360", "-f", "15"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			if _, err := execute(context.Background(), args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
