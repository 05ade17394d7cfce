package pipeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"foodreel/internal/catalog"
	"foodreel/internal/ingest"
	"foodreel/internal/pipeline"
	"foodreel/internal/services"
	"foodreel/internal/testsupport"
)

func TestIngestMergesIntoItemsDocument(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.SeedItems(t, cfg, []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach", RestaurantKey: "tatiana", Likes: 10, Thumbnail: "https://cdn.example/1.jpg"},
	})
	source := filepath.Join(testsupport.BaseDir(cfg), "scrape.json")
	testsupport.WriteJSON(t, source, []catalog.Item{
		{ID: "1", Caption: "ignored", Likes: 25, Thumbnail: "thumbs/1.jpg"},
		{ID: "2", Caption: "Roberta's has the best margherita"},
		{Caption: "no id"},
	})

	runner, err := pipeline.New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stats, err := runner.Ingest(context.Background(), source, false)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	want := ingest.Stats{Added: 1, Updated: 1, DroppedWithoutID: 1, ThumbnailsReplaced: 1}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	_, items := testsupport.LoadState(t, cfg)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].RestaurantKey != "tatiana" || items[0].Likes != 25 || items[0].Caption != "Tatiana in Brighton Beach" {
		t.Fatalf("existing item mishandled: %+v", items[0])
	}
	if items[0].Thumbnail != "thumbs/1.jpg" {
		t.Fatalf("thumbnail not replaced: %q", items[0].Thumbnail)
	}
}

func TestIngestRejectsMalformedSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	source := filepath.Join(testsupport.BaseDir(cfg), "scrape.json")
	testsupport.WriteFile(t, source, `{"id": "1"}`)

	runner, _ := pipeline.New(cfg, nil)
	if _, err := runner.Ingest(context.Background(), source, false); !errors.Is(err, services.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
}
