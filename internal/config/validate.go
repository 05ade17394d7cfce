package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.ItemsFile == c.Paths.RestaurantsFile {
		return errors.New("paths.items_file and paths.restaurants_file must differ")
	}
	return nil
}

func (c *Config) validateEnrichment() error {
	if c.Enrichment.RequestDelayMS < 0 {
		return errors.New("enrichment.request_delay_ms must be zero or positive")
	}
	if c.Enrichment.MaxSnippets < 0 {
		return errors.New("enrichment.max_snippets must be zero or positive")
	}
	if c.Enrichment.MinNameSimilarity < 0 || c.Enrichment.MinNameSimilarity > 1 {
		return errors.New("enrichment.min_name_similarity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	for i, pattern := range c.Extraction.ExtraPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("extraction.extra_patterns[%d]: %w", i, err)
		}
		if re.NumSubexp() < 1 {
			return fmt.Errorf("extraction.extra_patterns[%d]: pattern needs a capture group for the name", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

// ProvidersConfigured reports which rating providers have credentials.
func (c *Config) ProvidersConfigured() (googlePlaces, yelp bool) {
	return c.GooglePlaces.APIKey != "", c.Yelp.APIKey != ""
}
