package logging

import (
	"context"
	"log/slog"

	"rote/internal/services"
)

// Canonical attribute keys shared by every component logger.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	FieldDeckIndex = "deck_index"
	FieldDeckTitle = "deck_title"
	FieldEvent     = "event"
	FieldDuration  = "duration_ms"
)

// ContextFields extracts the request-scoped identifiers carried on ctx
// into slog attributes. Missing values are omitted.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := make([]slog.Attr, 0, 4)
	if runID, ok := services.RunIDFromContext(ctx); ok {
		attrs = append(attrs, slog.String(FieldRunID, runID))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		attrs = append(attrs, slog.String(FieldStage, stage))
	}
	if index, ok := services.DeckIndexFromContext(ctx); ok {
		attrs = append(attrs, slog.Int(FieldDeckIndex, index))
	}
	if title, ok := services.DeckTitleFromContext(ctx); ok {
		attrs = append(attrs, slog.String(FieldDeckTitle, title))
	}
	return attrs
}

// WithContext returns a logger that carries the identifiers from ctx as
// permanent attributes.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return nil
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	args := make([]any, 0, len(fields))
	for _, attr := range fields {
		args = append(args, attr)
	}
	return logger.With(args...)
}
