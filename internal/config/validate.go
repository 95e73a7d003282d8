package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	colorPattern   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	bitratePattern = regexp.MustCompile(`^[0-9]+k$`)
	prosodyPattern = regexp.MustCompile(`^[+-][0-9]+%$`)
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSynthesis(); err != nil {
		return err
	}
	if err := c.validateTiming(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	return nil
}

func (c *Config) validateSynthesis() error {
	if c.Synthesis.Voice == "" {
		return errors.New("synthesis.voice must be set")
	}
	if c.Synthesis.Rate != "" && !prosodyPattern.MatchString(c.Synthesis.Rate) {
		return fmt.Errorf("synthesis.rate must look like -10%% or +20%%, got %q", c.Synthesis.Rate)
	}
	if c.Synthesis.Volume != "" && !prosodyPattern.MatchString(c.Synthesis.Volume) {
		return fmt.Errorf("synthesis.volume must look like +0%% or -50%%, got %q", c.Synthesis.Volume)
	}
	return nil
}

func (c *Config) validateTiming() error {
	if c.Timing.Repetitions <= 0 {
		return errors.New("timing.repetitions must be positive")
	}
	if c.Timing.RepetitionPauseSeconds < 0 {
		return errors.New("timing.repetition_pause_seconds must be >= 0")
	}
	if c.Timing.PhraseGapSeconds < 0 {
		return errors.New("timing.phrase_gap_seconds must be >= 0")
	}
	if c.Timing.TitleIntroSeconds < 0 {
		return errors.New("timing.title_intro_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if !bitratePattern.MatchString(c.Audio.Bitrate) {
		return fmt.Errorf("audio.bitrate must look like 192k, got %q", c.Audio.Bitrate)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if err := ensurePositiveMap(map[string]int{
		"video.width":              c.Video.Width,
		"video.height":             c.Video.Height,
		"video.fps":                c.Video.FPS,
		"video.phrase_font_size":   c.Video.PhraseFontSize,
		"video.counter_font_size":  c.Video.CounterFontSize,
		"video.progress_font_size": c.Video.ProgressFontSize,
		"video.title_font_size":    c.Video.TitleFontSize,
	}); err != nil {
		return err
	}
	for key, value := range map[string]string{
		"video.background":     c.Video.Background,
		"video.text_color":     c.Video.TextColor,
		"video.accent_color":   c.Video.AccentColor,
		"video.counter_color":  c.Video.CounterColor,
		"video.progress_color": c.Video.ProgressColor,
	} {
		if !colorPattern.MatchString(value) {
			return fmt.Errorf("%s must be a #RRGGBB color, got %q", key, value)
		}
	}
	if strings.TrimSpace(c.Video.FontRegular) == "" {
		return errors.New("video.font_regular must be set")
	}
	if strings.TrimSpace(c.Video.FontBold) == "" {
		return errors.New("video.font_bold must be set")
	}
	if !bitratePattern.MatchString(c.Video.Bitrate) {
		return fmt.Errorf("video.bitrate must look like 2000k, got %q", c.Video.Bitrate)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
