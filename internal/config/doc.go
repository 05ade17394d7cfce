// Package config loads, normalizes, and validates foodreel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GOOGLE_PLACES_API_KEY and YELP_API_KEY. A missing provider credential is
// not an error: the provider is simply disabled and the pipeline runs in
// extraction-only mode for it.
//
// Always obtain settings through this package so downstream code receives
// absolute document paths, canonical log formats, and clear validation errors.
package config
