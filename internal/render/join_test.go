package render_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rote/internal/render"
	"rote/internal/services"
	"rote/internal/testsupport"
)

// joinStubScript records the ffmpeg argv and copies the concat list, which
// Join deletes once the command returns.
func joinStubScript(argsFile, listCopy string) string {
	return fmt.Sprintf(`#!/bin/sh
echo "ffmpeg $@" >> %s
prev=""
for a; do
  if [ "$prev" = "-i" ]; then
    cat "$a" >> %s
  fi
  prev="$a"
done
`, argsFile, listCopy)
}

func seedVideos(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("mp4"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
}

func TestJoinOrdersInputsAndReencodes(t *testing.T) {
	base := t.TempDir()
	argsFile := filepath.Join(base, "args.txt")
	listCopy := filepath.Join(base, "list.txt")
	testsupport.NewConfig(t, testsupport.WithBinaryScript("ffmpeg", joinStubScript(argsFile, listCopy)))

	dir := t.TempDir()
	seedVideos(t, dir, "2-Numbers.mp4", "1-Greetings.mp4", "10-Weather.mp4", "notes.mp4", "joined.mp4")

	inputs, err := render.Join(context.Background(), "ffmpeg", render.JoinOptions{Dir: dir})
	if err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	want := []string{"1-Greetings.mp4", "2-Numbers.mp4", "10-Weather.mp4", "notes.mp4"}
	if len(inputs) != len(want) {
		t.Fatalf("inputs = %v, want %v", inputs, want)
	}
	for i := range want {
		if inputs[i] != want[i] {
			t.Fatalf("inputs = %v, want %v", inputs, want)
		}
	}

	args := readFileString(t, argsFile)
	for _, fragment := range []string{
		"-f concat",
		"-safe 0",
		"-c:v libx264",
		"-preset medium",
		"-b:v 2000k",
		"-c:a aac",
		"-b:a 192k",
		filepath.Join(dir, "joined.mp4"),
	} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("ffmpeg args missing %q: %s", fragment, args)
		}
	}

	list := readFileString(t, listCopy)
	last := -1
	for _, name := range want {
		pos := strings.Index(list, name)
		if pos < 0 {
			t.Fatalf("concat list missing %q:\n%s", name, list)
		}
		if pos < last {
			t.Fatalf("concat list out of order:\n%s", list)
		}
		last = pos
	}
	if strings.Contains(list, "joined.mp4") {
		t.Fatalf("output file listed as input:\n%s", list)
	}
}

func TestJoinCopyModeAndOutputOverride(t *testing.T) {
	base := t.TempDir()
	argsFile := filepath.Join(base, "args.txt")
	listCopy := filepath.Join(base, "list.txt")
	testsupport.NewConfig(t, testsupport.WithBinaryScript("ffmpeg", joinStubScript(argsFile, listCopy)))

	dir := t.TempDir()
	seedVideos(t, dir, "1-Greetings.mp4")
	output := filepath.Join(base, "course.mp4")

	if _, err := render.Join(context.Background(), "ffmpeg", render.JoinOptions{
		Dir:        dir,
		OutputPath: output,
		Copy:       true,
	}); err != nil {
		t.Fatalf("Join returned error: %v", err)
	}

	args := readFileString(t, argsFile)
	if !strings.Contains(args, "-c copy") {
		t.Fatalf("copy mode missing from args: %s", args)
	}
	if strings.Contains(args, "libx264") {
		t.Fatalf("copy mode must not re-encode: %s", args)
	}
	if !strings.Contains(args, output) {
		t.Fatalf("output override missing from args: %s", args)
	}
}

func TestJoinEscapesQuotedNames(t *testing.T) {
	base := t.TempDir()
	argsFile := filepath.Join(base, "args.txt")
	listCopy := filepath.Join(base, "list.txt")
	testsupport.NewConfig(t, testsupport.WithBinaryScript("ffmpeg", joinStubScript(argsFile, listCopy)))

	dir := t.TempDir()
	seedVideos(t, dir, "1-it's time.mp4")

	if _, err := render.Join(context.Background(), "ffmpeg", render.JoinOptions{Dir: dir}); err != nil {
		t.Fatalf("Join returned error: %v", err)
	}
	if list := readFileString(t, listCopy); !strings.Contains(list, `it'\''s time`) {
		t.Fatalf("quote not escaped for concat list:\n%s", list)
	}
}

func TestJoinRequiresInputs(t *testing.T) {
	if _, err := render.Join(context.Background(), "ffmpeg", render.JoinOptions{Dir: t.TempDir()}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if _, err := render.Join(context.Background(), "ffmpeg", render.JoinOptions{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJoinToolFailure(t *testing.T) {
	testsupport.NewConfig(t,
		testsupport.WithBinaryScript("ffmpeg", "#!/bin/sh\necho 'moov atom not found' >&2\nexit 1\n"))

	dir := t.TempDir()
	seedVideos(t, dir, "1-Greetings.mp4")

	_, err := render.Join(context.Background(), "ffmpeg", render.JoinOptions{Dir: dir})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("stderr detail missing from error: %v", err)
	}
}
