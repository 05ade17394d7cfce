// Package ratings defines the rating provider capability consumed by the
// enrichment engine, along with the shared throttle and candidate matching
// used by the concrete adapters in the places and yelp subpackages.
package ratings
