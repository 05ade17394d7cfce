package testsupport

import (
	"path/filepath"
	"testing"

	"foodreel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Provider credentials are left empty and pacing is disabled.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	dataDir := filepath.Join(base, "data")
	cfgVal.Paths.DataDir = dataDir
	cfgVal.Paths.ItemsFile = filepath.Join(dataDir, "items.json")
	cfgVal.Paths.RestaurantsFile = filepath.Join(dataDir, "restaurants.json")
	cfgVal.Paths.OverridesFile = filepath.Join(dataDir, "overrides.json")
	cfgVal.Paths.LedgerPath = filepath.Join(dataDir, "ledger.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Enrichment.RequestDelayMS = 0
	cfgVal.Extraction.RecognizerEnabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithGooglePlaces enables the Google Places provider against baseURL.
func WithGooglePlaces(key, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GooglePlaces.APIKey = key
		if baseURL != "" {
			b.cfg.GooglePlaces.BaseURL = baseURL
		}
	}
}

// WithYelp enables the Yelp provider against baseURL.
func WithYelp(key, baseURL string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Yelp.APIKey = key
		if baseURL != "" {
			b.cfg.Yelp.BaseURL = baseURL
		}
	}
}

// WithExtraPatterns appends caption rules evaluated before the defaults.
func WithExtraPatterns(patterns ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.ExtraPatterns = append(b.cfg.Extraction.ExtraPatterns, patterns...)
	}
}

// WithRecognizer toggles the entity recognizer fallback.
func WithRecognizer(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.RecognizerEnabled = enabled
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
