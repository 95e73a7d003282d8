package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and file location configuration.
type Paths struct {
	OutputDir  string `toml:"output_dir"`
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
	ChunksFile string `toml:"chunks_file"`
}

// Synthesis contains text-to-speech configuration.
type Synthesis struct {
	Voice             string `toml:"voice"`
	Rate              string `toml:"rate"`
	Volume            string `toml:"volume"`
	MaxConcurrent     int    `toml:"max_concurrent"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Timing contains the repetition and pause layout of the generated track.
type Timing struct {
	Repetitions            int `toml:"repetitions"`
	RepetitionPauseSeconds int `toml:"repetition_pause_seconds"`
	PhraseGapSeconds       int `toml:"phrase_gap_seconds"`
	TitleIntroSeconds      int `toml:"title_intro_seconds"`
}

// Audio contains configuration for the exported audio track.
type Audio struct {
	Bitrate string `toml:"bitrate"`
}

// Video contains configuration for the rendered video.
type Video struct {
	Width            int    `toml:"width"`
	Height           int    `toml:"height"`
	FPS              int    `toml:"fps"`
	Background       string `toml:"background"`
	TextColor        string `toml:"text_color"`
	AccentColor      string `toml:"accent_color"`
	CounterColor     string `toml:"counter_color"`
	ProgressColor    string `toml:"progress_color"`
	FontRegular      string `toml:"font_regular"`
	FontBold         string `toml:"font_bold"`
	PhraseFontSize   int    `toml:"phrase_font_size"`
	CounterFontSize  int    `toml:"counter_font_size"`
	ProgressFontSize int    `toml:"progress_font_size"`
	TitleFontSize    int    `toml:"title_font_size"`
	Preset           string `toml:"preset"`
	Bitrate          string `toml:"bitrate"`
}

// Batch contains configuration for multi-deck batch runs.
type Batch struct {
	ContinueOnError bool `toml:"continue_on_error"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for rote.
//
// Configuration sections by subsystem:
//   - Paths: output/state/log directories and the default chunk library
//   - Synthesis: edge-tts voice, prosody, and concurrency settings
//   - Timing: repetitions and pause durations that shape the timeline
//   - Audio: exported MP3 settings
//   - Video: canvas, colors, fonts, and encoder settings
//   - Batch: multi-deck run behaviour
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Synthesis     Synthesis     `toml:"synthesis"`
	Timing        Timing        `toml:"timing"`
	Audio         Audio         `toml:"audio"`
	Video         Video         `toml:"video"`
	Batch         Batch         `toml:"batch"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rote/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/rote/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("rote.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ManifestPath returns the location of the run-history database.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Paths.StateDir, "manifest.db")
}

// EdgeTTSBinary returns the edge-tts executable name.
func (c *Config) EdgeTTSBinary() string {
	return "edge-tts"
}

// FFmpegBinary returns the ffmpeg executable name used for encoding and rendering.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// RepetitionPause returns the pause inserted after each repetition.
func (c *Config) RepetitionPause() time.Duration {
	return time.Duration(c.Timing.RepetitionPauseSeconds) * time.Second
}

// PhraseGap returns the extra gap inserted after the last repetition of a phrase.
func (c *Config) PhraseGap() time.Duration {
	return time.Duration(c.Timing.PhraseGapSeconds) * time.Second
}

// TitleIntro returns the silent lead-in during which the title card is shown.
func (c *Config) TitleIntro() time.Duration {
	return time.Duration(c.Timing.TitleIntroSeconds) * time.Second
}

// SynthesisTimeout returns the per-phrase synthesis deadline.
func (c *Config) SynthesisTimeout() time.Duration {
	return time.Duration(c.Synthesis.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
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
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
