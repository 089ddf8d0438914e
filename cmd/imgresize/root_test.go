package main

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/ivlev/mediatools/internal/resize"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestPercentWithMaxDimRejected(t *testing.T) {
	_, err := runCLI(t, "in", "out", "-p", "0.5", "-M", "100")
	if !errors.Is(err, resize.ErrPercentWithMaxDim) {
		t.Fatalf("expected ErrPercentWithMaxDim, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Cannot use --percent (0.5) with --max-dim (100)") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPercentWithMaxDimReportedBeforeConfig(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".config", "mediatools")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("resize: [not, a, map\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", home)

	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"in", "out", "-p", "0.5", "-M", "100"})
	if err := cmd.Execute(); !errors.Is(err, resize.ErrPercentWithMaxDim) {
		t.Fatalf("expected ErrPercentWithMaxDim, got %v", err)
	}
}

func TestMissingInputPath(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := runCLI(t, missing, t.TempDir())
	if err == nil || err.Error() != "Cannot find path: "+filepath.ToSlash(missing) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestInvalidFlagValues(t *testing.T) {
	in := t.TempDir()
	tests := [][]string{
		{in, "out", "-p", "0"},
		{in, "out", "-p", "1.5"},
		{in, "out", "-m", "-3"},
		{in, "out", "-M", "0"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			if _, err := runCLI(t, args...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestResizeDirectoryWithSummary(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "small")
	img := imaging.New(400, 200, color.NRGBA{G: 255, A: 255})
	if err := imaging.Save(img, filepath.Join(in, "wide.png")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(in, "readme.md"), []byte("#"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, err := runCLI(t, in, out, "--max-dim", "100", "--summary", "--workers", "2")
	if err != nil {
		t.Fatalf("imgresize: %v", err)
	}
	if !strings.Contains(stdout, filepath.Join(in, "wide.png")+" -> "+filepath.Join(out, "wide.png")) {
		t.Fatalf("missing progress line in %q", stdout)
	}
	if !strings.Contains(stdout, "1 files") {
		t.Fatalf("missing summary in %q", stdout)
	}
	got, err := imaging.Open(filepath.Join(out, "wide.png"))
	if err != nil {
		t.Fatal(err)
	}
	if b := got.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("unexpected size %v", b)
	}
}

func TestRequiresTwoArgs(t *testing.T) {
	if _, err := runCLI(t, "only-one"); err == nil {
		t.Fatal("expected argument error")
	}
}
