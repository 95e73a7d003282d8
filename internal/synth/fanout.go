package synth

import (
	"context"
	"log/slog"
	"sync"

	"rote/internal/logging"
	"rote/internal/pcm"
)

// Take is the outcome of synthesizing one phrase: either a clip or the error
// that prevented one. Index is the phrase's 1-based position in the original
// list.
type Take struct {
	Index int
	Text  string
	Clip  *pcm.Clip
	Err   error
}

// Failed reports whether this take produced no usable audio.
func (t Take) Failed() bool {
	return t.Err != nil || t.Clip == nil || len(t.Clip.Data) == 0
}

// Gather synthesizes every phrase with at most limit requests in flight and
// returns the takes in original phrase order regardless of completion order.
// Each slot is written exactly once, by the goroutine that owns it. Phrase
// failures are recorded in their take; Gather itself never fails.
func Gather(ctx context.Context, engine Engine, phrases []string, limit int, logger *slog.Logger) []Take {
	if limit < 1 {
		limit = 1
	}
	log := logging.NewComponentLogger(logger, "synth")

	takes := make([]Take, len(phrases))
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	var mu sync.Mutex
	sampler := logging.NewProgressSampler(10)
	completed := 0
	report := func(take Take) {
		mu.Lock()
		defer mu.Unlock()
		completed++
		percent := float64(completed) / float64(len(phrases)) * 100
		if take.Err != nil {
			log.Warn("phrase synthesis failed",
				logging.Int("phrase", take.Index),
				logging.Error(take.Err))
		}
		if sampler.ShouldLog(percent, "synthesis") {
			log.Info("synthesis progress",
				logging.Int("completed", completed),
				logging.Int("total", len(phrases)))
		}
	}

	for i, text := range phrases {
		wg.Add(1)
		go func(index int, phrase string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				takes[index] = Take{Index: index + 1, Text: phrase, Err: ctx.Err()}
				report(takes[index])
				return
			}
			defer func() { <-sem }()

			clip, err := engine.Synthesize(ctx, phrase)
			takes[index] = Take{Index: index + 1, Text: phrase, Clip: clip, Err: err}
			report(takes[index])
		}(i, text)
	}

	wg.Wait()
	return takes
}
