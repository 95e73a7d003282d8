package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeVideo(); err != nil {
		return err
	}
	c.normalizeSynthesis()
	c.normalizeAudio()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ChunksFile) != "" {
		if c.Paths.ChunksFile, err = expandPath(c.Paths.ChunksFile); err != nil {
			return fmt.Errorf("paths.chunks_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeSynthesis() {
	c.Synthesis.Voice = strings.TrimSpace(c.Synthesis.Voice)
	c.Synthesis.Rate = strings.TrimSpace(c.Synthesis.Rate)
	c.Synthesis.Volume = strings.TrimSpace(c.Synthesis.Volume)
	if c.Synthesis.Volume == "" {
		c.Synthesis.Volume = defaultVolume
	}
	if c.Synthesis.MaxConcurrent <= 0 {
		c.Synthesis.MaxConcurrent = defaultMaxConcurrent
	}
	if c.Synthesis.RequestsPerMinute < 0 {
		c.Synthesis.RequestsPerMinute = 0
	}
	if c.Synthesis.TimeoutSeconds <= 0 {
		c.Synthesis.TimeoutSeconds = defaultSynthesisTimeout
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.Bitrate = strings.ToLower(strings.TrimSpace(c.Audio.Bitrate))
	if c.Audio.Bitrate == "" {
		c.Audio.Bitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeVideo() error {
	var err error
	if c.Video.FontRegular, err = expandPath(c.Video.FontRegular); err != nil {
		return fmt.Errorf("video.font_regular: %w", err)
	}
	if c.Video.FontBold, err = expandPath(c.Video.FontBold); err != nil {
		return fmt.Errorf("video.font_bold: %w", err)
	}
	c.Video.Preset = strings.ToLower(strings.TrimSpace(c.Video.Preset))
	if c.Video.Preset == "" {
		c.Video.Preset = defaultVideoPreset
	}
	c.Video.Bitrate = strings.ToLower(strings.TrimSpace(c.Video.Bitrate))
	if c.Video.Bitrate == "" {
		c.Video.Bitrate = defaultVideoBitrate
	}
	for _, color := range []*string{
		&c.Video.Background,
		&c.Video.TextColor,
		&c.Video.AccentColor,
		&c.Video.CounterColor,
		&c.Video.ProgressColor,
	} {
		*color = strings.ToUpper(strings.TrimSpace(*color))
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("ROTE_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json", "auto":
	default:
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
