package pipeline

import (
	"context"
	"fmt"
	"os"

	"foodreel/internal/catalog"
	"foodreel/internal/ingest"
	"foodreel/internal/logging"
	"foodreel/internal/services"
)

// Ingest merges the items document at source into the configured items
// document. Classification already present is kept.
func (r *Runner) Ingest(ctx context.Context, source string, dryRun bool) (ingest.Stats, error) {
	logger := logging.WithContext(ctx, r.logger)

	data, err := os.ReadFile(source)
	if err != nil {
		return ingest.Stats{}, services.Wrap(services.ErrNotFound, "pipeline", "ingest", source, err)
	}
	incoming, err := catalog.DecodeItems(data, source)
	if err != nil {
		return ingest.Stats{}, err
	}

	unlock, err := acquireLock(r.cfg.LockPath(), logger)
	if err != nil {
		return ingest.Stats{}, err
	}
	defer unlock()

	store := catalog.NewStore(r.cfg.Paths.ItemsFile, r.cfg.Paths.RestaurantsFile)
	existing, err := store.LoadItems()
	if err != nil {
		return ingest.Stats{}, err
	}
	merged, stats := ingest.Merge(existing, incoming)
	if stats.DroppedWithoutID > 0 {
		logging.WarnWithContext(logger, "incoming records without id dropped", "ingest_missing_id",
			logging.Int("dropped", stats.DroppedWithoutID),
			logging.String(logging.FieldImpact, "records skipped"),
		)
	}
	if !dryRun {
		if err := store.SaveItems(merged); err != nil {
			return stats, fmt.Errorf("ingest %s: %w", source, err)
		}
	}
	logger.Info("items ingested",
		logging.String("source", source),
		logging.Int("added", stats.Added),
		logging.Int("updated", stats.Updated),
		logging.Int("unchanged", stats.Unchanged),
		logging.Int("thumbnails_replaced", stats.ThumbnailsReplaced),
		logging.Bool("dry_run", dryRun),
	)
	return stats, nil
}
