package render

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"rote/internal/services"
	"rote/internal/timeline"
)

// EncodeAudio compresses an assembled mix to MP3 by piping the raw samples
// into ffmpeg. The stream format on the wire is s16le at the mix's sample
// rate and channel count.
func EncodeAudio(ctx context.Context, binary string, mix *timeline.Mix, path, bitrate string) error {
	if mix == nil || len(mix.Data) == 0 {
		return services.Wrap(services.ErrValidation, "render", "encode audio", "empty mix", nil)
	}
	if mix.Format.BitDepth != 16 {
		return services.Wrap(services.ErrValidation, "render", "encode audio",
			fmt.Sprintf("unsupported bit depth %d", mix.Format.BitDepth), nil)
	}
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, "render", "encode audio", "output path required", nil)
	}
	if strings.TrimSpace(bitrate) == "" {
		bitrate = "192k"
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(mix.Format.SampleRate),
		"-ac", strconv.Itoa(mix.Format.Channels),
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-b:a", bitrate,
		"-y", path,
	}
	cmd := commandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(mix.Data)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return services.Wrap(services.ErrExternalTool, "render", "encode audio", "ffmpeg mp3 encode", err)
	}
	return nil
}
