package testsupport

import (
	"testing"

	"foodreel/internal/catalog"
	"foodreel/internal/config"
	"foodreel/internal/ledger"
)

// MustOpenLedger opens the run ledger for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg.Paths.LedgerPath)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// CatalogStore returns the document store the config points at.
func CatalogStore(cfg *config.Config) *catalog.Store {
	return catalog.NewStore(cfg.Paths.ItemsFile, cfg.Paths.RestaurantsFile)
}

// SeedItems writes items to the configured items document.
func SeedItems(t testing.TB, cfg *config.Config, items []catalog.Item) {
	t.Helper()

	if err := CatalogStore(cfg).SaveItems(items); err != nil {
		t.Fatalf("seed items: %v", err)
	}
}

// LoadState reads back the configured registry and items.
func LoadState(t testing.TB, cfg *config.Config) (*catalog.Registry, []catalog.Item) {
	t.Helper()

	store := CatalogStore(cfg)
	registry, err := store.LoadRegistry()
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	items, err := store.LoadItems()
	if err != nil {
		t.Fatalf("load items: %v", err)
	}
	return registry, items
}
