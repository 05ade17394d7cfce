// Package catalog defines the persisted foodreel documents and the in-memory
// restaurant registry the pipeline mutates.
//
// Items mirror source videos; Restaurants are keyed by slug and carry one
// rating record per provider, review snippets, and back-references to the
// items that mention them. The Registry keeps insertion order so rewritten
// documents stay stable across runs.
//
// Store reads each document whole at the start of a run and replaces it whole
// at the end via temp-file-and-rename, so an interrupted run never leaves a
// half-written document behind.
package catalog
