package services_test

import (
	"context"
	"testing"

	"foodreel/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithItemID(ctx, "7301")
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithProvider(ctx, "yelp")

	if id, ok := services.ItemIDFromContext(ctx); !ok || id != "7301" {
		t.Fatalf("unexpected item id: %v %v", id, ok)
	}
	if rid, ok := services.RunIDFromContext(ctx); !ok || rid != "run-123" {
		t.Fatalf("unexpected run id: %v %v", rid, ok)
	}
	if name, ok := services.ProviderFromContext(ctx); !ok || name != "yelp" {
		t.Fatalf("unexpected provider: %v %v", name, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithItemID(ctx, "")
	ctx = services.WithProvider(ctx, "")
	if _, ok := services.ItemIDFromContext(ctx); ok {
		t.Fatal("expected no item id value")
	}
	if _, ok := services.ProviderFromContext(ctx); ok {
		t.Fatal("expected no provider value")
	}
}
