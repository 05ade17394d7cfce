// Package services defines shared utilities consumed by the enrichment
// pipeline and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, item IDs, and provider names for
//     logging.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     recoverable provider failure from fatal input or configuration errors.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform.
package services
