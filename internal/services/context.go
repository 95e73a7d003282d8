package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	stageKey     contextKey = "stage"
	deckIndexKey contextKey = "deck_index"
	deckTitleKey contextKey = "deck_title"
)

// WithRunID annotates context with the run correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithDeckIndex annotates context with the 1-based deck output index.
func WithDeckIndex(ctx context.Context, index int) context.Context {
	if index <= 0 {
		return ctx
	}
	return context.WithValue(ctx, deckIndexKey, index)
}

// DeckIndexFromContext extracts the deck output index if present.
func DeckIndexFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(deckIndexKey)
	if idx, ok := v.(int); ok && idx > 0 {
		return idx, true
	}
	return 0, false
}

// WithDeckTitle annotates context with the deck title.
func WithDeckTitle(ctx context.Context, title string) context.Context {
	if title == "" {
		return ctx
	}
	return context.WithValue(ctx, deckTitleKey, title)
}

// DeckTitleFromContext extracts the deck title if present.
func DeckTitleFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(deckTitleKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
