package synth

import (
	"context"

	"rote/internal/pcm"
)

// Engine turns phrase text into a PCM clip. Implementations own the full
// conversion: text to speech, then speech to raw samples at the source's
// native parameters.
type Engine interface {
	Synthesize(ctx context.Context, text string) (*pcm.Clip, error)
}
