package deps

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs are unix-only")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRequireResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	byPath := writeStub(t, dir, "ffmpeg-custom")
	writeStub(t, dir, "ffmpeg")
	t.Setenv("PATH", dir)

	paths, err := Require(
		Tool{Name: "configured", Command: byPath},
		Tool{Name: "ffmpeg", Command: " ffmpeg "},
	)
	if err != nil {
		t.Fatalf("Require: %v", err)
	}
	if paths["configured"] != byPath {
		t.Fatalf("unexpected configured path %q", paths["configured"])
	}
	if paths["ffmpeg"] != filepath.Join(dir, "ffmpeg") {
		t.Fatalf("unexpected PATH lookup %q", paths["ffmpeg"])
	}
}

func TestRequireReportsEveryMissingTool(t *testing.T) {
	dir := t.TempDir()
	present := writeStub(t, dir, "present")
	t.Setenv("PATH", dir)

	paths, err := Require(
		Tool{Name: "present", Command: present},
		Tool{Name: "ffmpeg", Command: "clearly-not-present-binary", Hint: "install ffmpeg"},
		Tool{Name: "blank", Command: "  "},
	)
	var merr *multierror.Error
	if !errors.As(err, &merr) || len(merr.Errors) != 2 {
		t.Fatalf("expected two collected errors, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{`"clearly-not-present-binary" not found (install ffmpeg)`, "blank: command not configured"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
	if paths["present"] != present {
		t.Fatalf("resolved tools should still be returned, got %v", paths)
	}
}

func TestFirstAvailable(t *testing.T) {
	dir := t.TempDir()
	writeStub(t, dir, "slop")
	t.Setenv("PATH", dir)

	got, ok := FirstAvailable("slurp", "slop")
	if !ok || got != "slop" {
		t.Fatalf("expected slop, got %q (ok=%v)", got, ok)
	}
	if _, ok := FirstAvailable("slurp"); ok {
		t.Fatal("expected no match")
	}
}
