package synth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"rote/internal/logging"
	"rote/internal/media/ffprobe"
	"rote/internal/pcm"
	"rote/internal/services"
	"rote/internal/textutil"
)

var commandContext = exec.CommandContext

// Option configures the edge-tts client.
type Option func(*EdgeClient)

// WithProsody overrides the speaking rate and volume adjustments.
func WithProsody(rateAdj, volumeAdj string) Option {
	return func(c *EdgeClient) {
		if rateAdj != "" {
			c.rate = rateAdj
		}
		if volumeAdj != "" {
			c.volume = volumeAdj
		}
	}
}

// WithTimeout caps the duration of a single synthesis request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *EdgeClient) {
		c.timeout = timeout
	}
}

// WithRequestsPerMinute throttles outgoing requests. Zero disables the
// limiter.
func WithRequestsPerMinute(rpm int) Option {
	return func(c *EdgeClient) {
		if rpm > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1)
		}
	}
}

// WithDecoder overrides the ffmpeg and ffprobe binaries used to turn the
// synthesized MP3 into raw PCM.
func WithDecoder(ffmpegBinary, ffprobeBinary string) Option {
	return func(c *EdgeClient) {
		if ffmpegBinary != "" {
			c.ffmpeg = ffmpegBinary
		}
		if ffprobeBinary != "" {
			c.ffprobe = ffprobeBinary
		}
	}
}

// WithLogger attaches a logger for per-request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *EdgeClient) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "edge-tts")
		}
	}
}

// EdgeClient synthesizes speech through the edge-tts command line tool and
// decodes the result to raw PCM at its native sample parameters.
type EdgeClient struct {
	binary  string
	ffmpeg  string
	ffprobe string
	voice   string
	rate    string
	volume  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewEdgeClient constructs a client for the given binary and voice.
func NewEdgeClient(binary, voice string, opts ...Option) (*EdgeClient, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "edge-tts"
	}
	voice = strings.TrimSpace(voice)
	if voice == "" {
		return nil, services.Wrap(services.ErrConfiguration, "edge-tts", "new", "voice required", nil)
	}
	client := &EdgeClient{
		binary:  binary,
		ffmpeg:  "ffmpeg",
		ffprobe: "ffprobe",
		voice:   voice,
		rate:    "+0%",
		volume:  "+0%",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Synthesize speaks the phrase into a temporary MP3, probes its native
// format, and decodes it to a raw clip. The clip keeps the source sample
// rate and channel count; conversion to a shared format happens downstream.
func (c *EdgeClient) Synthesize(ctx context.Context, text string) (*pcm.Clip, error) {
	text = textutil.CleanPhrase(text)
	if text == "" {
		return nil, services.Wrap(services.ErrValidation, "edge-tts", "synthesize", "empty phrase", nil)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, services.Wrap(markerFor(ctx, err), "edge-tts", "synthesize", "rate limiter", err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp("", "rote-tts-")
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "edge-tts", "synthesize", "create work directory", err)
	}
	defer os.RemoveAll(workDir)

	mp3Path := filepath.Join(workDir, "speech.mp3")
	args := []string{
		"--voice", c.voice,
		"--rate", c.rate,
		"--volume", c.volume,
		"--text", text,
		"--write-media", mp3Path,
	}
	cmd := commandContext(ctx, c.binary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return nil, services.Wrap(markerFor(ctx, err), "edge-tts", "synthesize", "speak phrase", err)
	}

	if info, err := os.Stat(mp3Path); err != nil || info.Size() == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "edge-tts", "synthesize", "no audio produced", err)
	}

	clip, err := c.decode(ctx, mp3Path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("synthesized phrase",
		logging.Int("bytes", len(clip.Data)),
		logging.String("format", clip.Format.String()),
		logging.Duration("length", clip.Duration()))
	return clip, nil
}

// decode probes the MP3's native parameters and extracts raw s16le samples
// at exactly those parameters.
func (c *EdgeClient) decode(ctx context.Context, path string) (*pcm.Clip, error) {
	probed, err := ffprobe.Inspect(ctx, c.ffprobe, path)
	if err != nil {
		return nil, services.Wrap(markerFor(ctx, err), "edge-tts", "decode", "probe audio", err)
	}
	stream, ok := probed.FirstAudioStream()
	if !ok {
		return nil, services.Wrap(services.ErrExternalTool, "edge-tts", "decode", "no audio stream in synthesis output", nil)
	}
	format := pcm.Format{SampleRate: stream.SampleRateHz(), Channels: stream.Channels, BitDepth: 16}
	if err := format.Valid(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "edge-tts", "decode", "unusable audio parameters", err)
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", format.SampleRate),
		"-ac", fmt.Sprintf("%d", format.Channels),
		"pipe:1",
	}
	cmd := commandContext(ctx, c.ffmpeg, args...)
	data, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
				err = fmt.Errorf("%w: %s", err, detail)
			}
		}
		return nil, services.Wrap(markerFor(ctx, err), "edge-tts", "decode", "extract samples", err)
	}
	if len(data) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "edge-tts", "decode", "decoded zero samples", nil)
	}

	clip := pcm.Clip{Format: format, Data: data}
	if err := clip.Validate(); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "edge-tts", "decode", "misaligned samples", err)
	}
	return &clip, nil
}

// markerFor distinguishes deadline expiry from tool failure. The context is
// consulted because a killed subprocess reports a signal, not the deadline
// that triggered it.
func markerFor(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return services.ErrTimeout
	}
	return services.ErrExternalTool
}
