package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rote/internal/config"
	"rote/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_CreatesMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "decks")
	result := CheckDirectoryAccess("test", path)
	if !result.Passed {
		t.Fatalf("expected missing dir to be created, got: %s", result.Detail)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s, err=%v", path, err)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFontFile(t *testing.T) {
	font := filepath.Join(t.TempDir(), "face.ttf")
	if err := os.WriteFile(font, []byte("glyphs"), 0o644); err != nil {
		t.Fatal(err)
	}

	if result := CheckFontFile("font", font); !result.Passed {
		t.Fatalf("expected pass for readable font, got: %s", result.Detail)
	}
	if result := CheckFontFile("font", filepath.Join(t.TempDir(), "nope.ttf")); result.Passed {
		t.Fatal("expected failure for missing font")
	}
	if result := CheckFontFile("font", t.TempDir()); result.Passed {
		t.Fatal("expected failure for directory path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	chunks := filepath.Join(t.TempDir(), "chunks.js")
	if err := os.WriteFile(chunks, []byte("const a = []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if result := CheckFileReadable("chunks", chunks); !result.Passed {
		t.Fatalf("expected pass for readable file, got: %s", result.Detail)
	}
	if result := CheckFileReadable("chunks", filepath.Join(t.TempDir(), "gone.js")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_CoversToolsFontsAndDirs(t *testing.T) {
	base := t.TempDir()
	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	script := []byte("#!/bin/sh\necho \"stub version 1.0\"\n")
	for _, name := range []string{"edge-tts", "ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	font := filepath.Join(base, "sans.ttf")
	if err := os.WriteFile(font, []byte("glyphs"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Video.FontRegular = font
	cfg.Video.FontBold = font

	results := RunAll(context.Background(), &cfg)
	if len(results) != 8 {
		t.Fatalf("expected 8 results, got %d: %#v", len(results), results)
	}
	for _, result := range results {
		if !result.Passed {
			t.Errorf("check %q failed: %s", result.Name, result.Detail)
		}
	}
	if err := Gate(results); err != nil {
		t.Fatalf("expected gate to pass: %v", err)
	}
}

func TestGateReportsEveryFailure(t *testing.T) {
	results := []Result{
		{Name: "edge-tts", Passed: false, Detail: `binary "edge-tts" not found`},
		{Name: "Output directory", Passed: true, Detail: "/out (read/write ok)"},
		{Name: "Bold font", Passed: false, Detail: "/fonts/bold.ttf (error: does not exist)"},
	}

	err := Gate(results)
	if err == nil {
		t.Fatal("expected gate error")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "edge-tts") || !strings.Contains(msg, "Bold font") {
		t.Fatalf("expected both failures in message, got %q", msg)
	}
	if strings.Contains(msg, "Output directory") {
		t.Fatalf("passing check leaked into message: %q", msg)
	}
}

func TestResultFromStatusIncludesVersion(t *testing.T) {
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "ffmpeg")
	script := []byte("#!/bin/sh\necho \"ffmpeg version 6.1.1\"\n")
	if err := os.WriteFile(tool, script, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	statuses := CheckSystemDeps(context.Background(), &cfg)
	for _, status := range statuses {
		if status.Name != "FFmpeg" {
			continue
		}
		result := resultFromStatus(status)
		if !result.Passed {
			t.Fatalf("expected ffmpeg check to pass: %#v", result)
		}
		if !strings.Contains(result.Detail, "ffmpeg version 6.1.1") {
			t.Fatalf("expected version in detail, got %q", result.Detail)
		}
		return
	}
	t.Fatal("FFmpeg status missing from system deps")
}
