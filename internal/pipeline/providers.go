package pipeline

import (
	"log/slog"

	"foodreel/internal/config"
	"foodreel/internal/extraction"
	"foodreel/internal/logging"
	"foodreel/internal/overrides"
	"foodreel/internal/ratings"
	"foodreel/internal/ratings/places"
	"foodreel/internal/ratings/yelp"
	"foodreel/internal/services"
)

// buildProviders returns the rating providers in lookup order, each wrapped
// in the request throttle. Providers without credentials stay in the list
// but report themselves disabled.
func buildProviders(cfg *config.Config, logger *slog.Logger, opts ...ratings.ThrottleOption) ([]ratings.Provider, error) {
	placesClient, err := places.New(cfg.GooglePlaces.APIKey, cfg.GooglePlaces.BaseURL, cfg.GooglePlaces.Language,
		places.WithTimeout(cfg.RequestTimeout()),
		places.WithMaxSnippets(cfg.Enrichment.MaxSnippets),
		places.WithMinSimilarity(cfg.Enrichment.MinNameSimilarity),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "google places", "", err)
	}
	yelpClient, err := yelp.New(cfg.Yelp.APIKey, cfg.Yelp.BaseURL,
		yelp.WithTimeout(cfg.RequestTimeout()),
		yelp.WithMaxSnippets(cfg.Enrichment.MaxSnippets),
		yelp.WithMinSimilarity(cfg.Enrichment.MinNameSimilarity),
		yelp.WithLogger(logging.NewComponentLogger(logger, "yelp")),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "yelp", "", err)
	}

	delay := cfg.RequestDelay()
	return []ratings.Provider{
		ratings.NewThrottled(placesClient, delay, opts...),
		ratings.NewThrottled(yelpClient, delay, opts...),
	}, nil
}

// buildExtractor assembles the caption extractor from configuration.
func buildExtractor(cfg *config.Config, table *overrides.Table, logger *slog.Logger) (*extraction.Extractor, error) {
	extra, err := extraction.CompileRules(cfg.Extraction.ExtraPatterns)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "extraction rules", "", err)
	}
	opts := []extraction.Option{
		extraction.WithOverrides(table),
		extraction.WithExtraRules(extra),
		extraction.WithLogger(logging.NewComponentLogger(logger, "extraction")),
	}
	if cfg.Extraction.RecognizerEnabled {
		opts = append(opts, extraction.WithRecognizer(extraction.NewProseRecognizer()))
	}
	return extraction.New(opts...), nil
}
