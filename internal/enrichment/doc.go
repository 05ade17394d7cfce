// Package enrichment runs the per-item merge pipeline: extract a restaurant
// identity from each item, upsert it into the registry, enrich it from the
// rating providers without overwriting populated fields, and cross-link the
// item.
//
// Items are processed strictly one at a time. Provider lookups are rate
// limited, and the enrichment gate must observe writes made for earlier items
// that resolved to the same restaurant.
package enrichment
