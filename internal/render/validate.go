package render

import (
	"context"
	"fmt"
	"math"
	"os"

	"rote/internal/logging"
	"rote/internal/media/ffprobe"
	"rote/internal/services"
)

// minOutputBytes guards against ffmpeg exiting zero after writing a husk.
const minOutputBytes = 4096

// durationToleranceSeconds bounds the drift allowed between the timed audio
// and the encoded container's reported duration.
const durationToleranceSeconds = 2.0

// validateArtifact confirms the rendered file is a playable video of the
// expected length before it is reported as complete.
func (r *Renderer) validateArtifact(ctx context.Context, spec Spec) error {
	info, err := os.Stat(spec.OutputPath)
	if err != nil {
		r.logger.Error("rendered output missing",
			logging.String("path", spec.OutputPath),
			logging.Error(err))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			"rendered file missing", err)
	}
	if info.IsDir() {
		r.logger.Error("rendered output is a directory",
			logging.String("path", spec.OutputPath))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			"rendered path is a directory", nil)
	}
	if info.Size() < minOutputBytes {
		r.logger.Error("rendered output suspiciously small",
			logging.String("path", spec.OutputPath),
			logging.Int64("size_bytes", info.Size()))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			fmt.Sprintf("rendered file is only %d bytes", info.Size()), nil)
	}

	result, err := ffprobe.Inspect(ctx, r.ffprobe, spec.OutputPath)
	if err != nil {
		r.logger.Error("rendered output unreadable",
			logging.String("path", spec.OutputPath),
			logging.Error(err))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			"rendered file unreadable by ffprobe", err)
	}
	if result.VideoStreamCount() == 0 {
		r.logger.Error("rendered output has no video stream",
			logging.String("path", spec.OutputPath))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			"rendered file has no video stream", nil)
	}
	if result.AudioStreamCount() == 0 {
		r.logger.Error("rendered output has no audio stream",
			logging.String("path", spec.OutputPath))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			"rendered file has no audio stream", nil)
	}

	duration := result.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		r.logger.Error("rendered output reports no duration",
			logging.String("path", spec.OutputPath))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			"rendered file reports no duration", nil)
	}
	expected := float64(spec.DurationMS) / 1000.0
	if math.Abs(duration-expected) > durationToleranceSeconds {
		r.logger.Error("rendered duration diverges from timed audio",
			logging.String("path", spec.OutputPath),
			logging.Float64("expected_seconds", expected),
			logging.Float64("actual_seconds", duration))
		return services.Wrap(services.ErrValidation, "render", "validate output",
			fmt.Sprintf("rendered duration %.2fs diverges from expected %.2fs", duration, expected), nil)
	}

	r.logger.Debug("validated rendered output",
		logging.Group("artifact",
			logging.String("path", spec.OutputPath),
			logging.Int64("size_bytes", info.Size()),
			logging.Float64("duration_seconds", duration)))
	return nil
}
