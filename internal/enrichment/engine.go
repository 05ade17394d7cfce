package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"foodreel/internal/catalog"
	"foodreel/internal/extraction"
	"foodreel/internal/logging"
	"foodreel/internal/ratings"
	"foodreel/internal/services"
	"foodreel/internal/textutil"
)

// Extractor resolves caption text into a restaurant identity.
type Extractor interface {
	Extract(caption, itemID string) extraction.Result
}

// Summary counts what one run did.
type Summary struct {
	RunID         string   `json:"run_id"`
	Total         int      `json:"total"`
	Extracted     int      `json:"extracted"`
	Enriched      int      `json:"enriched"`
	Skipped       int      `json:"skipped"`
	Unresolved    int      `json:"unresolved"`
	Errored       int      `json:"errored"`
	UnresolvedIDs []string `json:"unresolved_ids"`
	Interrupted   bool     `json:"interrupted,omitempty"`
}

// Engine applies extraction and provider enrichment to a registry.
type Engine struct {
	extractor Extractor
	providers []ratings.Provider
	overrides extraction.OverrideLookup
	regionFor func(string) string
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOverrides lets items that would otherwise be skipped be re-examined when
// an override pins them to a different restaurant than their stored key.
func WithOverrides(lookup extraction.OverrideLookup) Option {
	return func(e *Engine) {
		e.overrides = lookup
	}
}

// WithRegionLookup overrides the city to region table used for new restaurants.
func WithRegionLookup(fn func(string) string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.regionFor = fn
		}
	}
}

// NewEngine builds an engine. Providers are consulted in the given order.
func NewEngine(extractor Extractor, providers []ratings.Provider, opts ...Option) *Engine {
	if extractor == nil {
		extractor = extraction.New()
	}
	e := &Engine{
		extractor: extractor,
		providers: providers,
		regionFor: extraction.RegionFor,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "enrichment")
	return e
}

type itemOutcome int

const (
	outcomeFailed itemOutcome = iota
	outcomeSkipped
	outcomeUnresolved
	outcomeResolved
)

// Run mutates registry and items in place and returns the run summary.
// Failures inside one item are logged and counted; the batch continues. A
// cancelled context stops the loop before the next item.
func (e *Engine) Run(ctx context.Context, registry *catalog.Registry, items []catalog.Item) Summary {
	summary := Summary{Total: len(items), UnresolvedIDs: []string{}}
	if runID, ok := services.RunIDFromContext(ctx); ok {
		summary.RunID = runID
	}
	logger := logging.WithContext(ctx, e.logger)
	logger.Info("enrichment started",
		logging.Int("items", len(items)),
		logging.Int("restaurants", registry.Len()),
		logging.Int("providers", len(e.enabledProviders())),
	)

	for i := range items {
		if ctx.Err() != nil {
			summary.Interrupted = true
			logging.WarnWithContext(logger, "enrichment interrupted", "run_interrupted",
				logging.Int("processed", i),
				logging.String(logging.FieldImpact, "remaining items left untouched"),
				logging.String(logging.FieldErrorHint, "rerun the pipeline"),
			)
			break
		}
		item := &items[i]
		outcome, enriched, errored := e.processItem(services.WithItemID(ctx, item.ID), registry, item)
		switch outcome {
		case outcomeSkipped:
			summary.Skipped++
		case outcomeUnresolved:
			summary.Unresolved++
			summary.UnresolvedIDs = append(summary.UnresolvedIDs, item.ID)
		case outcomeResolved:
			summary.Extracted++
		}
		if enriched {
			summary.Enriched++
		}
		if errored {
			summary.Errored++
		}
	}

	logger.Info("enrichment finished",
		logging.Int("total", summary.Total),
		logging.Int("extracted", summary.Extracted),
		logging.Int("enriched", summary.Enriched),
		logging.Int("skipped", summary.Skipped),
		logging.Int("unresolved", summary.Unresolved),
		logging.Int("errored", summary.Errored),
	)
	return summary
}

func (e *Engine) processItem(ctx context.Context, registry *catalog.Registry, item *catalog.Item) (outcome itemOutcome, enriched, errored bool) {
	logger := logging.WithContext(ctx, e.logger)
	defer func() {
		if r := recover(); r != nil {
			errored = true
			logging.ErrorWithContext(logger, "item processing panicked", "item_panic",
				logging.String("panic", fmt.Sprint(r)),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "partial changes for this item were kept"),
			)
		}
	}()

	if item.RestaurantKey != "" && registry.Has(item.RestaurantKey) && item.City != "" && !e.overridden(item) {
		return outcomeSkipped, false, false
	}

	result := e.extractor.Extract(item.Caption, item.ID)

	key, name := item.RestaurantKey, ""
	if result.Found {
		name = result.Name
	}
	derived := textutil.Slugify(name)
	switch {
	case key == "":
		key = derived
	case derived == "" || derived == key:
		// stored key stands
	case result.Source == extraction.SourceOverride:
		if previous, ok := registry.Get(key); ok {
			previous.UnlinkItem(item.ID)
		}
		logger.Info("item re-keyed by override",
			logging.String(logging.FieldEventType, "override_rekey"),
			logging.String("previous_key", key),
			logging.String("key", derived),
		)
		key = derived
	case !registry.Has(key):
		// dangling key: follow the extracted name
		logger.Info("dangling key replaced",
			logging.String(logging.FieldEventType, "dangling_rekey"),
			logging.String("previous_key", key),
			logging.String("key", derived),
		)
		key = derived
	}
	if key == "" {
		logger.Info("restaurant not identified; needs override",
			logging.String(logging.FieldEventType, "needs_override"),
			logging.String("caption", item.Caption),
		)
		return outcomeUnresolved, false, false
	}

	if item.City == "" {
		item.City = result.City
	}
	if item.Cuisine == "" {
		item.Cuisine = result.Cuisine
	}
	item.RestaurantKey = key

	restaurant := e.upsert(registry, key, name, item)
	restaurant.LinkItem(item.ID)
	logger = logger.With(logging.String(logging.FieldRestaurant, key))
	logger.Debug("item classified",
		logging.String("source", string(result.Source)),
		logging.String("city", item.City),
		logging.String("cuisine", item.Cuisine),
	)

	for _, provider := range e.providers {
		if provider == nil || !provider.Enabled() {
			continue
		}
		patched, err := e.enrich(ctx, provider, restaurant)
		if err != nil {
			errored = true
			logging.WarnWithContext(logging.WithContext(services.WithProvider(ctx, provider.Name()), e.logger),
				"provider lookup failed", "provider_failed",
				logging.String(logging.FieldRestaurant, key),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "retried on the next pipeline run"),
				logging.String(logging.FieldImpact, "provider fields left unenriched"),
			)
			continue
		}
		enriched = enriched || patched
	}

	return outcomeResolved, enriched, errored
}

// upsert returns the registry entry for key, creating a shell when needed and
// filling only empty location fields on existing entries.
func (e *Engine) upsert(registry *catalog.Registry, key, name string, item *catalog.Item) *catalog.Restaurant {
	restaurant, ok := registry.Get(key)
	if !ok {
		if textutil.Slugify(name) != key {
			name = strings.ReplaceAll(key, "-", " ")
		}
		shell := catalog.NewRestaurant(name, key)
		shell.City = item.City
		shell.Cuisine = item.Cuisine
		shell.Region = e.regionFor(item.City)
		return registry.Put(key, shell)
	}
	if restaurant.City == "" {
		restaurant.City = item.City
	}
	if restaurant.Cuisine == "" {
		restaurant.Cuisine = item.Cuisine
	}
	if restaurant.Region == "" {
		restaurant.Region = e.regionFor(restaurant.City)
	}
	return restaurant
}

// overridden reports whether an override names a restaurant other than the
// one the item is keyed to.
func (e *Engine) overridden(item *catalog.Item) bool {
	if e.overrides == nil {
		return false
	}
	name, ok := e.overrides.Lookup(item.ID)
	if !ok {
		return false
	}
	slug := textutil.Slugify(name)
	return slug != "" && slug != item.RestaurantKey
}

// enrich queries provider when its record is still open and patches the
// fields it owns. It reports whether anything changed.
func (e *Engine) enrich(ctx context.Context, provider ratings.Provider, restaurant *catalog.Restaurant) (bool, error) {
	source := provider.Name()
	record := restaurant.Rating(source)
	if record.ID != "" && record.Rating != 0 {
		return false, nil
	}
	query := restaurant.Name
	if query == "" {
		query = restaurant.Slug
	}
	result, err := provider.Search(services.WithProvider(ctx, source), query, restaurant.City)
	if err != nil {
		return false, err
	}
	if result == nil {
		return false, nil
	}
	return applyResult(restaurant, source, result), nil
}

func applyResult(restaurant *catalog.Restaurant, source string, result *ratings.Result) bool {
	changed := false

	record := restaurant.Rating(source)
	patched := record
	if record.IsAbsent() {
		patched.Rating = result.Rating
		patched.ReviewCount = result.ReviewCount
	}
	if patched.ID == "" {
		patched.ID = result.ID
	}
	if patched.URL == "" {
		patched.URL = result.URL
	}
	if patched != record {
		restaurant.SetRating(source, patched)
		changed = true
	}

	if restaurant.Address == "" && result.Address != "" {
		restaurant.Address = result.Address
		changed = true
	}
	if restaurant.Coordinates == nil && result.Coordinates != nil {
		coords := *result.Coordinates
		restaurant.Coordinates = &coords
		changed = true
	}

	if len(result.Snippets) > 0 {
		merged := make([]catalog.Snippet, 0, len(result.Snippets)+len(restaurant.Snippets))
		for _, snippet := range result.Snippets {
			snippet.Source = source
			merged = append(merged, snippet)
		}
		for _, snippet := range restaurant.Snippets {
			if snippet.Source != source {
				merged = append(merged, snippet)
			}
		}
		restaurant.Snippets = merged
		changed = true
	}
	return changed
}

func (e *Engine) enabledProviders() []string {
	names := make([]string, 0, len(e.providers))
	for _, provider := range e.providers {
		if provider != nil && provider.Enabled() {
			names = append(names, provider.Name())
		}
	}
	return names
}
