package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeGooglePlaces()
	c.normalizeYelp()
	c.normalizeEnrichment()
	c.normalizeExtraction()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.ItemsFile, err = resolveUnder(c.Paths.DataDir, c.Paths.ItemsFile, defaultItemsFile); err != nil {
		return fmt.Errorf("paths.items_file: %w", err)
	}
	if c.Paths.RestaurantsFile, err = resolveUnder(c.Paths.DataDir, c.Paths.RestaurantsFile, defaultRestaurantsFile); err != nil {
		return fmt.Errorf("paths.restaurants_file: %w", err)
	}
	if c.Paths.OverridesFile, err = resolveUnder(c.Paths.DataDir, c.Paths.OverridesFile, defaultOverridesFile); err != nil {
		return fmt.Errorf("paths.overrides_file: %w", err)
	}
	if c.Paths.LedgerPath, err = resolveUnder(c.Paths.DataDir, c.Paths.LedgerPath, defaultLedgerFile); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeGooglePlaces() {
	c.GooglePlaces.APIKey = strings.TrimSpace(c.GooglePlaces.APIKey)
	if c.GooglePlaces.APIKey == "" {
		if value, ok := os.LookupEnv("GOOGLE_PLACES_API_KEY"); ok {
			c.GooglePlaces.APIKey = strings.TrimSpace(value)
		}
	}
	c.GooglePlaces.BaseURL = strings.TrimSpace(c.GooglePlaces.BaseURL)
	if c.GooglePlaces.BaseURL == "" {
		c.GooglePlaces.BaseURL = defaultGooglePlacesBaseURL
	}
	c.GooglePlaces.Language = strings.TrimSpace(c.GooglePlaces.Language)
}

func (c *Config) normalizeYelp() {
	c.Yelp.APIKey = strings.TrimSpace(c.Yelp.APIKey)
	if c.Yelp.APIKey == "" {
		if value, ok := os.LookupEnv("YELP_API_KEY"); ok {
			c.Yelp.APIKey = strings.TrimSpace(value)
		}
	}
	c.Yelp.BaseURL = strings.TrimSpace(c.Yelp.BaseURL)
	if c.Yelp.BaseURL == "" {
		c.Yelp.BaseURL = defaultYelpBaseURL
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.RequestTimeoutSeconds <= 0 {
		c.Enrichment.RequestTimeoutSeconds = defaultRequestTimeoutSeconds
	}
}

func (c *Config) normalizeExtraction() {
	if len(c.Extraction.ExtraPatterns) == 0 {
		return
	}
	patterns := make([]string, 0, len(c.Extraction.ExtraPatterns))
	for _, pattern := range c.Extraction.ExtraPatterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		patterns = append(patterns, pattern)
	}
	c.Extraction.ExtraPatterns = patterns
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
