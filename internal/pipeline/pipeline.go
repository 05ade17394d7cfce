package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"foodreel/internal/catalog"
	"foodreel/internal/config"
	"foodreel/internal/enrichment"
	"foodreel/internal/ledger"
	"foodreel/internal/logging"
	"foodreel/internal/overrides"
	"foodreel/internal/ratings"
	"foodreel/internal/services"
)

// Result reports what a run did.
type Result struct {
	enrichment.Summary
	DryRun     bool              `json:"dry_run"`
	Saved      bool              `json:"saved"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Problems   []catalog.Problem `json:"problems,omitempty"`
}

// Runner executes pipeline runs against one configuration.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
	newRunID  func() string
	providers []ratings.Provider
	throttle  []ratings.ThrottleOption
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time source used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunIDs overrides run id generation.
func WithRunIDs(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// WithProviders replaces the configured rating providers. Passing none
// runs extraction only.
func WithProviders(providers ...ratings.Provider) Option {
	return func(r *Runner) {
		r.providers = append([]ratings.Provider{}, providers...)
	}
}

// WithThrottleOptions is passed to every configured provider's throttle.
func WithThrottleOptions(opts ...ratings.ThrottleOption) Option {
	return func(r *Runner) {
		r.throttle = append(r.throttle, opts...)
	}
}

// New constructs a Runner.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "new", "config is required", nil)
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run performs one enrichment pass. With dryRun set the documents are not
// replaced and the needs-override queue is left alone. A cancelled context
// stops the pass early; the documents are then left untouched and the
// returned error wraps the context error.
func (r *Runner) Run(ctx context.Context, dryRun bool) (Result, error) {
	runID := r.newRunID()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)
	result := Result{DryRun: dryRun, StartedAt: r.now().UTC()}
	result.RunID = runID
	result.UnresolvedIDs = []string{}

	unlock, err := acquireLock(r.cfg.LockPath(), logger)
	if err != nil {
		return result, err
	}
	defer unlock()

	// Fatal input problems surface here, before anything is mutated.
	store := catalog.NewStore(r.cfg.Paths.ItemsFile, r.cfg.Paths.RestaurantsFile)
	items, err := store.LoadItems()
	if err != nil {
		return result, err
	}
	registry, err := store.LoadRegistry()
	if err != nil {
		return result, err
	}
	table := overrides.NewTable(r.cfg.Paths.OverridesFile, logging.NewComponentLogger(logger, "overrides"))
	if err := table.Load(); err != nil {
		return result, err
	}
	extractor, err := buildExtractor(r.cfg, table, logger)
	if err != nil {
		return result, err
	}
	providers := r.providers
	if providers == nil {
		if providers, err = buildProviders(r.cfg, logger, r.throttle...); err != nil {
			return result, err
		}
	}
	if !anyEnabled(providers) {
		logging.WarnWithContext(logger, "no rating provider credentials; running extraction only", "extraction_only",
			logging.String(logging.FieldImpact, "restaurants keep their current ratings"),
			logging.String(logging.FieldErrorHint, "set GOOGLE_PLACES_API_KEY or YELP_API_KEY"),
		)
	}

	book, err := ledger.Open(r.cfg.Paths.LedgerPath)
	if err != nil {
		return result, fmt.Errorf("open ledger: %w", err)
	}
	defer book.Close()

	engine := enrichment.NewEngine(extractor, providers,
		enrichment.WithLogger(logger),
		enrichment.WithOverrides(table),
		enrichment.WithRegionLookup(extractor.RegionFor),
	)
	summary := engine.Run(ctx, registry, items)
	summary.RunID = runID
	result.Summary = summary
	result.Problems = catalog.Validate(items, registry)
	for _, problem := range result.Problems {
		logging.WarnWithContext(logger, "registry inconsistency", "registry_inconsistent",
			logging.String(logging.FieldItemID, problem.ItemID),
			logging.String(logging.FieldRestaurant, problem.RestaurantKey),
			logging.String("problem", problem.Message),
		)
	}

	var runErr error
	switch {
	case summary.Interrupted:
		runErr = fmt.Errorf("pipeline interrupted: %w", context.Cause(ctx))
	case dryRun:
		logger.Info("dry run; documents not written")
	default:
		runErr = r.flush(store, registry, items)
		result.Saved = runErr == nil
	}

	result.FinishedAt = r.now().UTC()
	// The ledger write must survive a cancelled run.
	recordCtx := context.WithoutCancel(ctx)
	if err := book.RecordRun(recordCtx, runRecord(result, runErr)); err != nil {
		logging.WarnWithContext(logger, "failed to record run", "ledger_write_failed", logging.Error(err))
	}
	if result.Saved {
		if err := book.SyncUnresolved(recordCtx, runID, result.FinishedAt, pendingFor(items, summary.UnresolvedIDs)); err != nil {
			logging.WarnWithContext(logger, "failed to update needs-override queue", "ledger_write_failed", logging.Error(err))
		}
	}
	if runErr != nil {
		return result, runErr
	}
	logger.Info("pipeline run finished",
		logging.Bool("saved", result.Saved),
		logging.Duration("duration", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// flush replaces the registry first so every key the items reference
// already exists when the items document changes.
func (r *Runner) flush(store *catalog.Store, registry *catalog.Registry, items []catalog.Item) error {
	if err := store.SaveRegistry(registry); err != nil {
		return err
	}
	return store.SaveItems(items)
}

func anyEnabled(providers []ratings.Provider) bool {
	for _, p := range providers {
		if p != nil && p.Enabled() {
			return true
		}
	}
	return false
}

func runRecord(result Result, runErr error) ledger.Run {
	run := ledger.Run{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		DryRun:     result.DryRun,
		Status:     ledger.StatusCompleted,
		Total:      result.Total,
		Extracted:  result.Extracted,
		Enriched:   result.Enriched,
		Skipped:    result.Skipped,
		Unresolved: result.Unresolved,
		Errored:    result.Errored,
	}
	switch {
	case result.Interrupted:
		run.Status = ledger.StatusInterrupted
	case runErr != nil:
		run.Status = ledger.StatusFailed
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		run.Error = runErr.Error()
	}
	return run
}

func pendingFor(items []catalog.Item, ids []string) []ledger.Pending {
	captions := make(map[string]string, len(items))
	for _, item := range items {
		captions[item.ID] = item.Caption
	}
	pending := make([]ledger.Pending, 0, len(ids))
	for _, id := range ids {
		pending = append(pending, ledger.Pending{ItemID: id, Caption: captions[id]})
	}
	return pending
}
