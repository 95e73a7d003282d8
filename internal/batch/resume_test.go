package batch_test

import (
	"os"
	"path/filepath"
	"testing"

	"rote/internal/batch"
)

func writeOutputs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestInferResumeStart(t *testing.T) {
	cases := []struct {
		name  string
		files []string
		want  int
	}{
		{name: "empty dir", files: nil, want: 1},
		{name: "numeric prefixes", files: []string{"1-Greetings.mp4", "2-Numbers.mp4", "10-Food.mp4"}, want: 11},
		{name: "no numeric prefixes", files: []string{"intro.mp4", "outro.mp4"}, want: 3},
		{name: "mixed prefixes", files: []string{"5-Travel.mp4", "notes.mp4"}, want: 6},
		{name: "other extensions ignored", files: []string{"99-Old.mp3", "1-Greetings.mp4"}, want: 2},
		{name: "leading zeros", files: []string{"03-Weather.mp4"}, want: 4},
		{name: "uppercase extension", files: []string{"7-Shopping.MP4"}, want: 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeOutputs(t, dir, tc.files...)
			got, err := batch.InferResumeStart(dir)
			if err != nil {
				t.Fatalf("InferResumeStart returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("InferResumeStart = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestInferResumeStartMissingDir(t *testing.T) {
	got, err := batch.InferResumeStart(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("InferResumeStart returned error: %v", err)
	}
	if got != 1 {
		t.Fatalf("InferResumeStart = %d, want 1", got)
	}
}
