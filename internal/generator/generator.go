package generator

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"rote/internal/config"
	"rote/internal/deck"
	"rote/internal/fileutil"
	"rote/internal/logging"
	"rote/internal/manifest"
	"rote/internal/notifications"
	"rote/internal/overlay"
	"rote/internal/render"
	"rote/internal/services"
	"rote/internal/synth"
	"rote/internal/timeline"
)

// Renderer renders the final video artifact from an audio track and overlay
// descriptors.
type Renderer interface {
	Render(ctx context.Context, spec render.Spec) error
}

// Result summarizes one generated deck.
type Result struct {
	Deck          deck.Deck
	AudioPath     string
	VideoPath     string
	DurationMS    int64
	PhraseCount   int
	FailedPhrases []int
	Elapsed       time.Duration
}

// Generator produces the timed audio track and overlay video for a deck.
type Generator struct {
	cfg      *config.Config
	store    *manifest.Store
	engine   synth.Engine
	renderer Renderer
	notifier notifications.Service
	base     *slog.Logger
	logger   *slog.Logger
}

// New wires a generator against the real edge-tts client and video renderer.
func New(cfg *config.Config, store *manifest.Store, logger *slog.Logger) (*Generator, error) {
	engine, err := synth.NewEdgeClient(cfg.EdgeTTSBinary(), cfg.Synthesis.Voice,
		synth.WithProsody(cfg.Synthesis.Rate, cfg.Synthesis.Volume),
		synth.WithTimeout(cfg.SynthesisTimeout()),
		synth.WithRequestsPerMinute(cfg.Synthesis.RequestsPerMinute),
		synth.WithDecoder(cfg.FFmpegBinary(), cfg.FFprobeBinary()),
		synth.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return NewWithDependencies(cfg, store, logger, engine, render.New(cfg, logger), notifications.NewService(cfg)), nil
}

// NewWithDependencies allows injecting custom collaborators (used for tests).
func NewWithDependencies(cfg *config.Config, store *manifest.Store, logger *slog.Logger, engine synth.Engine, renderer Renderer, notifier notifications.Service) *Generator {
	gen := &Generator{
		cfg:      cfg,
		store:    store,
		engine:   engine,
		renderer: renderer,
		notifier: notifier,
	}
	gen.SetLogger(logger)
	return gen
}

// SetLogger updates the generator's logging destination while preserving
// component labeling.
func (g *Generator) SetLogger(logger *slog.Logger) {
	g.base = logger
	g.logger = logging.NewComponentLogger(logger, "generator")
}

// Generate runs the full pipeline for one deck: synthesize every phrase,
// assemble the timeline, encode the MP3, derive the overlays, and render the
// MP4. A render failure leaves the already-written MP3 in place. Manifest
// recording is best effort and requires a run ID on ctx; a missing store or
// run ID only disables history, never the generation itself.
func (g *Generator) Generate(ctx context.Context, d deck.Deck) (*Result, error) {
	start := time.Now()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if len(d.Phrases) == 0 {
		return nil, services.Wrap(services.ErrSynthesis, "generator", "generate", "deck has no phrases", nil)
	}

	ctx = services.WithDeckIndex(ctx, d.Index)
	ctx = services.WithDeckTitle(ctx, d.Title)
	logger := logging.WithContext(ctx, g.logger)

	item := g.createItem(ctx, logger, d)

	logger.Info("starting deck generation",
		logging.Int("phrases", len(d.Phrases)),
		logging.Int("repetitions", g.cfg.Timing.Repetitions))

	g.updateItem(ctx, logger, item, func(it *manifest.Item) {
		it.Status = manifest.ItemSynthesizing
	})

	takes := synth.Gather(ctx, g.engine, d.Phrases, g.cfg.Synthesis.MaxConcurrent, g.base)
	phrases := make([]timeline.Phrase, len(takes))
	for i, take := range takes {
		phrases[i] = timeline.Phrase{Index: take.Index, Text: take.Text, Clip: take.Clip}
	}

	layout := g.layout()
	mix, err := timeline.Build(phrases, layout)
	if err != nil {
		return nil, g.fail(ctx, logger, item, d, err)
	}
	if failed := mix.Ledger.FailedPhrases; len(failed) > 0 {
		logger.Warn("phrases excluded after synthesis failure",
			logging.Int("failed", len(failed)),
			logging.Any("indices", failed))
	}

	if err := fileutil.EnsureDir(g.cfg.Paths.OutputDir); err != nil {
		return nil, g.fail(ctx, logger, item, d, err)
	}
	audioPath := filepath.Join(g.cfg.Paths.OutputDir, d.AudioFileName())
	videoPath := filepath.Join(g.cfg.Paths.OutputDir, d.VideoFileName())

	if err := render.EncodeAudio(ctx, g.cfg.FFmpegBinary(), mix, audioPath, g.cfg.Audio.Bitrate); err != nil {
		return nil, g.fail(ctx, logger, item, d, err)
	}
	logger.Info("audio track written",
		logging.String("path", audioPath),
		logging.Int64(logging.FieldDuration, mix.Ledger.TotalMS))

	g.updateItem(ctx, logger, item, func(it *manifest.Item) {
		it.Status = manifest.ItemRendering
		it.AudioPath = audioPath
		it.DurationMS = mix.Ledger.TotalMS
		it.FailedPhrases = len(mix.Ledger.FailedPhrases)
	})

	descriptors := overlay.Derive(mix.Ledger, overlay.Options{
		TitleText:         d.DisplayTitle(),
		TotalPhrases:      len(d.Phrases),
		Repetitions:       g.cfg.Timing.Repetitions,
		TitleIntroMS:      layout.TitleIntroMS,
		RepetitionPauseMS: layout.RepetitionPauseMS,
	})

	if err := g.renderer.Render(ctx, render.Spec{
		AudioPath:   audioPath,
		OutputPath:  videoPath,
		Descriptors: descriptors,
		DurationMS:  mix.Ledger.TotalMS,
	}); err != nil {
		return nil, g.fail(ctx, logger, item, d, err)
	}

	result := &Result{
		Deck:          d,
		AudioPath:     audioPath,
		VideoPath:     videoPath,
		DurationMS:    mix.Ledger.TotalMS,
		PhraseCount:   len(d.Phrases),
		FailedPhrases: mix.Ledger.FailedPhrases,
		Elapsed:       time.Since(start),
	}

	g.updateItem(ctx, logger, item, func(it *manifest.Item) {
		it.Status = manifest.ItemCompleted
		it.VideoPath = videoPath
	})

	logger.Info("deck generation complete",
		logging.String("audio", audioPath),
		logging.String("video", videoPath),
		logging.Int64(logging.FieldDuration, result.DurationMS),
		logging.Duration("elapsed", result.Elapsed))

	g.notify(ctx, logger, notifications.EventDeckCompleted, notifications.Payload{
		"title":    d.DisplayTitle(),
		"duration": notifications.FormatDuration(time.Duration(result.DurationMS) * time.Millisecond),
	})

	return result, nil
}

func (g *Generator) layout() timeline.Layout {
	return timeline.Layout{
		Repetitions:       g.cfg.Timing.Repetitions,
		RepetitionPauseMS: g.cfg.RepetitionPause().Milliseconds(),
		PhraseGapMS:       g.cfg.PhraseGap().Milliseconds(),
		TitleIntroMS:      g.cfg.TitleIntro().Milliseconds(),
	}
}

func (g *Generator) fail(ctx context.Context, logger *slog.Logger, item *manifest.Item, d deck.Deck, err error) error {
	logger.Error("deck generation failed",
		logging.Error(err),
		logging.String("kind", services.FailureKind(err)))
	g.updateItem(ctx, logger, item, func(it *manifest.Item) {
		it.Status = manifest.ItemFailed
		it.ErrorMsg = err.Error()
	})
	g.notify(ctx, logger, notifications.EventDeckFailed, notifications.Payload{
		"title": d.DisplayTitle(),
		"error": err.Error(),
	})
	return err
}

func (g *Generator) createItem(ctx context.Context, logger *slog.Logger, d deck.Deck) *manifest.Item {
	if g.store == nil {
		return nil
	}
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		return nil
	}
	item, err := g.store.CreateItem(ctx, runID, d.Index, d.Title, d.OutputBase(), len(d.Phrases))
	if err != nil {
		logger.Warn("failed to record deck in manifest", logging.Error(err))
		return nil
	}
	return item
}

func (g *Generator) updateItem(ctx context.Context, logger *slog.Logger, item *manifest.Item, mutate func(*manifest.Item)) {
	if item == nil {
		return
	}
	mutate(item)
	if err := g.store.UpdateItem(ctx, item); err != nil {
		logger.Warn("failed to update manifest item", logging.Error(err))
	}
}

func (g *Generator) notify(ctx context.Context, logger *slog.Logger, event notifications.Event, data notifications.Payload) {
	if g.notifier == nil {
		return
	}
	if err := g.notifier.Publish(ctx, event, data); err != nil {
		logger.Warn("notification failed", logging.Error(err))
	}
}
