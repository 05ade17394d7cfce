// Package pipeline runs one enrichment pass end to end.
//
// A run takes the data directory lock, loads the items and registry
// documents along with the override table, classifies and enriches every
// item through the enrichment engine, and then replaces both documents.
// Malformed input aborts before anything is mutated. An interrupted or
// dry run leaves the documents untouched. Every run is recorded in the
// ledger together with the items that still need a manual override.
package pipeline
