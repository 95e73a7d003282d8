package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"rote/internal/config"
	"rote/internal/logging"
	"rote/internal/overlay"
	"rote/internal/services"
)

// commandContext allows tests to intercept process creation.
var commandContext = exec.CommandContext

// Spec describes one video render job.
type Spec struct {
	AudioPath   string
	OutputPath  string
	Descriptors []overlay.Descriptor
	DurationMS  int64
}

// Renderer composites the text overlays onto a solid background and muxes the
// narration audio into the final MP4.
type Renderer struct {
	ffmpeg       string
	ffprobe      string
	video        config.Video
	audioBitrate string
	builder      *graphBuilder
	logger       *slog.Logger
}

// New constructs a Renderer from the resolved configuration.
func New(cfg *config.Config, logger *slog.Logger) *Renderer {
	return &Renderer{
		ffmpeg:       cfg.FFmpegBinary(),
		ffprobe:      cfg.FFprobeBinary(),
		video:        cfg.Video,
		audioBitrate: cfg.Audio.Bitrate,
		builder:      newGraphBuilder(styleFromConfig(cfg.Video)),
		logger:       logging.NewComponentLogger(logger, "render"),
	}
}

// Render runs ffmpeg with the assembled filtergraph and verifies the result.
func (r *Renderer) Render(ctx context.Context, spec Spec) error {
	if err := spec.validate(); err != nil {
		return err
	}

	script := r.builder.Script(spec.Descriptors)
	scriptPath, err := writeScript(script)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "render", "render video",
			"write filtergraph script", err)
	}
	defer os.Remove(scriptPath)

	r.logger.Debug("starting video render",
		logging.String("output", spec.OutputPath),
		logging.Int("overlays", len(spec.Descriptors)),
		logging.String("duration", seconds(spec.DurationMS)+"s"))

	cmd := commandContext(ctx, r.ffmpeg, r.arguments(spec, scriptPath)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return services.Wrap(services.ErrExternalTool, "render", "render video",
			"ffmpeg video render", err)
	}

	return r.validateArtifact(ctx, spec)
}

func (s Spec) validate() error {
	if strings.TrimSpace(s.AudioPath) == "" {
		return services.Wrap(services.ErrValidation, "render", "render video",
			"audio path required", nil)
	}
	if strings.TrimSpace(s.OutputPath) == "" {
		return services.Wrap(services.ErrValidation, "render", "render video",
			"output path required", nil)
	}
	if s.DurationMS <= 0 {
		return services.Wrap(services.ErrValidation, "render", "render video",
			fmt.Sprintf("non-positive duration %dms", s.DurationMS), nil)
	}
	return nil
}

// arguments builds the full ffmpeg invocation: a lavfi color source for the
// background, the narration MP3 as the second input, the overlay filtergraph
// from the script file, and stillimage-tuned H.264 output.
func (r *Renderer) arguments(spec Spec, scriptPath string) []string {
	background := fmt.Sprintf("color=c=%s:s=%dx%d:r=%d",
		colorRef(r.video.Background), r.video.Width, r.video.Height, r.video.FPS)
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "lavfi",
		"-i", background,
		"-i", spec.AudioPath,
		"-filter_complex_script", scriptPath,
		"-map", "[v]",
		"-map", "1:a",
		"-c:v", "libx264",
		"-preset", r.video.Preset,
		"-tune", "stillimage",
		"-b:v", r.video.Bitrate,
		"-c:a", "aac",
		"-b:a", r.audioBitrate,
		"-movflags", "+faststart",
		"-t", seconds(spec.DurationMS),
		"-y", spec.OutputPath,
	}
}

// writeScript persists the filtergraph to a temp file. Long phrase lists
// overflow the command line, so ffmpeg reads the graph from disk instead.
func writeScript(script string) (string, error) {
	file, err := os.CreateTemp("", "rote-graph-*.txt")
	if err != nil {
		return "", err
	}
	if _, err := file.WriteString(script); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}
