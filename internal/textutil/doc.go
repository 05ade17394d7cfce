// Package textutil provides the text normalization used wherever foodreel
// needs a stable key.
//
// The primary use cases are:
//   - Slugify: the single identifier transform behind restaurant keys and
//     city, cuisine, and item path segments
//   - ItemSlug: per-item path segment derived from a caption and item ID
//   - Token fingerprints and cosine similarity, used to compare a candidate
//     restaurant name against provider search results
//
// Fingerprints use term frequency vectors. Tokenization lowercases text,
// splits on non-alphanumeric characters, and drops single-character tokens.
package textutil
