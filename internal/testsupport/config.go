package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rote/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test
// and timings short enough to keep assembled buffers small. It applies any
// provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ChunksFile = filepath.Join(base, "chunks.js")
	cfgVal.Timing.Repetitions = 2
	cfgVal.Timing.RepetitionPauseSeconds = 1
	cfgVal.Timing.PhraseGapSeconds = 1
	cfgVal.Timing.TitleIntroSeconds = 2
	cfgVal.Synthesis.TimeoutSeconds = 5
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRepetitions overrides the repetition count on the test config.
func WithRepetitions(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Timing.Repetitions = n
	}
}

// WithNtfyTopic sets the notification topic on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default external binaries
// are stubbed. Each stub exits successfully without output.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"edge-tts", "ffmpeg", "ffprobe"}
		}
		for _, name := range names {
			writeStub(b, name, "#!/bin/sh\nexit 0\n")
		}
	}
}

// WithBinaryScript installs a stub executable with the given shell body and
// prepends the stub directory to PATH. Use it when a test needs the stub to
// produce output.
func WithBinaryScript(name, body string) ConfigOption {
	return func(b *configBuilder) {
		writeStub(b, name, body)
	}
}

func writeStub(b *configBuilder, name, body string) {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(body), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	prependPath(b, binDir)
}

func prependPath(b *configBuilder, binDir string) {
	oldPath := os.Getenv("PATH")
	if strings.HasPrefix(oldPath, binDir+string(os.PathListSeparator)) {
		return
	}
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
