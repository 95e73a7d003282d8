package services_test

import (
	"context"
	"testing"

	"rote/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "synthesis")
	ctx = services.WithDeckIndex(ctx, 7)
	ctx = services.WithDeckTitle(ctx, "Greetings")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "synthesis" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if idx, ok := services.DeckIndexFromContext(ctx); !ok || idx != 7 {
		t.Fatalf("unexpected deck index: %v %v", idx, ok)
	}
	if title, ok := services.DeckTitleFromContext(ctx); !ok || title != "Greetings" {
		t.Fatalf("unexpected deck title: %v %v", title, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithDeckIndex(ctx, 0)
	ctx = services.WithDeckTitle(ctx, "")

	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.DeckIndexFromContext(ctx); ok {
		t.Fatal("expected no deck index value")
	}
	if _, ok := services.DeckTitleFromContext(ctx); ok {
		t.Fatal("expected no deck title value")
	}
}
