package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory at %s", dir)
	}
}

func TestEnsureDirBlankIsNoop(t *testing.T) {
	if err := EnsureDir("  "); err != nil {
		t.Fatalf("blank dir should be a no-op, got %v", err)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !Exists(path) {
		t.Fatalf("expected %s to exist", path)
	}
	if Exists(filepath.Join(dir, "absent.txt")) {
		t.Fatal("expected missing file to report false")
	}
}

func TestListByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2-Travel.mp4", "1-Basics.mp4", "1-Basics.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.mp4"), 0o755); err != nil {
		t.Fatal(err)
	}

	names, err := ListByExtension(dir, ".mp4")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"1-Basics.mp4", "2-Travel.mp4"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestListByExtensionMissingDir(t *testing.T) {
	names, err := ListByExtension(filepath.Join(t.TempDir(), "missing"), ".mp4")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty list, got %v", names)
	}
}
