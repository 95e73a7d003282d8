package config

const (
	defaultOutputDir  = "~/rote/output"
	defaultStateDir   = "~/.local/share/rote"
	defaultLogDir     = "~/.local/share/rote/logs"
	defaultChunksFile = "~/rote/lexical-chunks.js"

	defaultVoice            = "en-US-GuyNeural"
	defaultRate             = "-10%"
	defaultVolume           = "+0%"
	defaultMaxConcurrent    = 10
	defaultSynthesisTimeout = 60
	defaultRepetitions      = 5
	defaultRepetitionPause  = 4
	defaultPhraseGap        = 1
	defaultTitleIntro       = 6
	defaultAudioBitrate     = "192k"
	defaultVideoWidth       = 1920
	defaultVideoHeight      = 1080
	defaultVideoFPS         = 24
	defaultBackground       = "#0F0F19"
	defaultTextColor        = "#FFFFFF"
	defaultAccentColor      = "#4FC3F7"
	defaultCounterColor     = "#FFAB40"
	defaultProgressColor    = "#888888"
	defaultFontRegular      = "/usr/share/fonts/liberation/LiberationSans-Regular.ttf"
	defaultFontBold         = "/usr/share/fonts/liberation/LiberationSans-Bold.ttf"
	defaultPhraseFontSize   = 120
	defaultCounterFontSize  = 56
	defaultProgressFontSize = 40
	defaultTitleFontSize    = 90
	defaultVideoPreset      = "ultrafast"
	defaultVideoBitrate     = "2000k"
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "auto"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir:  defaultOutputDir,
			StateDir:   defaultStateDir,
			LogDir:     defaultLogDir,
			ChunksFile: defaultChunksFile,
		},
		Synthesis: Synthesis{
			Voice:          defaultVoice,
			Rate:           defaultRate,
			Volume:         defaultVolume,
			MaxConcurrent:  defaultMaxConcurrent,
			TimeoutSeconds: defaultSynthesisTimeout,
		},
		Timing: Timing{
			Repetitions:            defaultRepetitions,
			RepetitionPauseSeconds: defaultRepetitionPause,
			PhraseGapSeconds:       defaultPhraseGap,
			TitleIntroSeconds:      defaultTitleIntro,
		},
		Audio: Audio{
			Bitrate: defaultAudioBitrate,
		},
		Video: Video{
			Width:            defaultVideoWidth,
			Height:           defaultVideoHeight,
			FPS:              defaultVideoFPS,
			Background:       defaultBackground,
			TextColor:        defaultTextColor,
			AccentColor:      defaultAccentColor,
			CounterColor:     defaultCounterColor,
			ProgressColor:    defaultProgressColor,
			FontRegular:      defaultFontRegular,
			FontBold:         defaultFontBold,
			PhraseFontSize:   defaultPhraseFontSize,
			CounterFontSize:  defaultCounterFontSize,
			ProgressFontSize: defaultProgressFontSize,
			TitleFontSize:    defaultTitleFontSize,
			Preset:           defaultVideoPreset,
			Bitrate:          defaultVideoBitrate,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
