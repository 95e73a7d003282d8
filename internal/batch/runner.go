package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"rote/internal/config"
	"rote/internal/deck"
	"rote/internal/generator"
	"rote/internal/logging"
	"rote/internal/manifest"
	"rote/internal/notifications"
	"rote/internal/services"
)

// Generator produces the artifacts for one deck.
type Generator interface {
	Generate(ctx context.Context, d deck.Deck) (*generator.Result, error)
}

// RunOptions control one batch run.
type RunOptions struct {
	ChunksFile      string
	Selection       Selection
	Resume          bool
	ContinueOnError bool
	DryRun          bool
}

// Summary reports the outcome of a batch run.
type Summary struct {
	RunID     string
	Selected  int
	Completed int
	Failed    []int
	Elapsed   time.Duration
}

// Runner drives deck generation for every selected chunk of a library.
type Runner struct {
	cfg      *config.Config
	gen      Generator
	store    *manifest.Store
	notifier notifications.Service
	logger   *slog.Logger
}

// NewRunner builds a batch runner. The store and notifier may be nil; the
// runner then skips history recording or notifications respectively.
func NewRunner(cfg *config.Config, gen Generator, store *manifest.Store, notifier notifications.Service, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		gen:      gen,
		store:    store,
		notifier: notifier,
		logger:   logging.NewComponentLogger(logger, "batch"),
	}
}

// Run parses the chunk library, applies selection and resume inference, and
// generates each selected deck in file order. Deck failures either halt the
// run or are collected per ContinueOnError; an empty selection is success.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	start := time.Now()

	chunksFile := opts.ChunksFile
	if chunksFile == "" {
		chunksFile = r.cfg.Paths.ChunksFile
	}
	chunks, err := ParseChunksFile(chunksFile)
	if err != nil {
		return nil, err
	}

	selection := opts.Selection
	if selection.Start == 0 && opts.Resume {
		inferred, err := InferResumeStart(r.cfg.Paths.OutputDir)
		if err != nil {
			return nil, err
		}
		selection.Start = inferred
		r.logger.Info("resuming from inferred index", logging.Int("start", inferred))
	}
	selected, err := selection.Apply(chunks)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Selected: len(selected)}
	if len(selected) == 0 {
		r.logger.Info("nothing to run",
			logging.String("chunks_file", chunksFile),
			logging.Int("chunks", len(chunks)))
		summary.Elapsed = time.Since(start)
		return summary, nil
	}
	if opts.DryRun {
		r.logger.Info("dry run: selection resolved, skipping generation",
			logging.Int("decks", len(selected)))
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	run := r.startRun(ctx, chunksFile)
	if run != nil {
		ctx = services.WithRunID(ctx, run.ID)
		summary.RunID = run.ID
	}
	r.logger.Info("starting batch run",
		logging.Int("decks", len(selected)),
		logging.String("chunks_file", chunksFile))
	r.notify(ctx, notifications.EventRunStarted, notifications.Payload{
		"decks": strconv.Itoa(len(selected)),
	})

	var runErr error
	var firstErr error
	for _, chunk := range selected {
		if ctx.Err() != nil {
			runErr = ctx.Err()
			break
		}
		d := deck.Deck{Title: chunk.Title, Index: chunk.Index, Phrases: chunk.Phrases}
		if _, err := r.gen.Generate(ctx, d); err != nil {
			summary.Failed = append(summary.Failed, chunk.Index)
			if firstErr == nil {
				firstErr = err
			}
			r.logger.Error("deck failed",
				logging.Int(logging.FieldDeckIndex, chunk.Index),
				logging.String(logging.FieldDeckTitle, chunk.Title),
				logging.Error(err))
			if !opts.ContinueOnError {
				runErr = err
				break
			}
			continue
		}
		summary.Completed++
	}
	if runErr == nil && len(summary.Failed) > 0 {
		runErr = services.Wrap(services.ErrSynthesis, "batch", "run",
			fmt.Sprintf("%d of %d decks failed", len(summary.Failed), len(selected)), firstErr)
	}
	summary.Elapsed = time.Since(start)

	r.finishRun(ctx, run, runErr)
	r.notify(ctx, notifications.EventRunCompleted, notifications.Payload{
		"processed": strconv.Itoa(summary.Completed),
		"failed":    strconv.Itoa(len(summary.Failed)),
		"duration":  notifications.FormatDuration(summary.Elapsed),
	})
	r.logger.Info("batch run finished",
		logging.Int("completed", summary.Completed),
		logging.Int("failed", len(summary.Failed)),
		logging.Duration("elapsed", summary.Elapsed))

	return summary, runErr
}

func (r *Runner) startRun(ctx context.Context, chunksFile string) *manifest.Run {
	if r.store == nil {
		return nil
	}
	run, err := r.store.StartRun(ctx, manifest.RunKindBatch, chunksFile)
	if err != nil {
		r.logger.Warn("failed to record batch run", logging.Error(err))
		return nil
	}
	return run
}

func (r *Runner) finishRun(ctx context.Context, run *manifest.Run, runErr error) {
	if r.store == nil || run == nil {
		return
	}
	if err := r.store.FinishRun(ctx, run.ID, runErr); err != nil {
		r.logger.Warn("failed to finish batch run record", logging.Error(err))
	}
}

func (r *Runner) notify(ctx context.Context, event notifications.Event, data notifications.Payload) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(ctx, event, data); err != nil {
		r.logger.Warn("notification failed", logging.Error(err))
	}
}
