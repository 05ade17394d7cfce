// Package dataset is the read side consumed by the site renderer: lookups,
// case-insensitive filters, rankings, site path helpers, and the per-page
// FAQ generator. Every accessor returns freshly allocated values; callers
// may mutate results without affecting the dataset.
package dataset
