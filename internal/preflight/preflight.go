package preflight

import (
	"context"

	"foodreel/internal/config"
)

// Result reports the outcome of a single preflight check. A Warning result
// passed but flags a degraded mode.
type Result struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Warning bool   `json:"warning,omitempty"`
	Detail  string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckDocuments(cfg.Paths.ItemsFile, cfg.Paths.RestaurantsFile)...)
	results = append(results,
		CheckOverrides(cfg.Paths.OverridesFile),
		CheckLedger(ctx, cfg.Paths.LedgerPath),
		CheckCredentials("Google Places", cfg.GooglePlaces.APIKey, "GOOGLE_PLACES_API_KEY"),
		CheckCredentials("Yelp", cfg.Yelp.APIKey, "YELP_API_KEY"),
	)
	return results
}

// Failed reports whether any result failed outright.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
