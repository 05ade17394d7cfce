// Package ingest folds freshly scraped item records into the persisted item
// list without disturbing pipeline-owned classification fields.
package ingest

import (
	"strings"

	"foodreel/internal/catalog"
)

// Stats counts what a merge did.
type Stats struct {
	Added              int `json:"added"`
	Updated            int `json:"updated"`
	Unchanged          int `json:"unchanged"`
	DroppedWithoutID   int `json:"dropped_without_id"`
	ThumbnailsReplaced int `json:"thumbnails_replaced"`
}

// Merge returns existing extended with unseen incoming items, in incoming
// order. Known ids get fresh engagement counters and, when the stored
// thumbnail is missing or still remote, the incoming thumbnail. Records
// without an id are dropped. Neither input slice is modified.
func Merge(existing, incoming []catalog.Item) ([]catalog.Item, Stats) {
	var stats Stats
	merged := make([]catalog.Item, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	index := make(map[string]int, len(merged))
	for i, item := range merged {
		if _, seen := index[item.ID]; !seen {
			index[item.ID] = i
		}
	}

	for _, record := range incoming {
		id := strings.TrimSpace(record.ID)
		if id == "" {
			stats.DroppedWithoutID++
			continue
		}
		pos, known := index[id]
		if !known {
			record.ID = id
			record.RestaurantKey = ""
			record.City = ""
			record.Cuisine = ""
			index[id] = len(merged)
			merged = append(merged, record)
			stats.Added++
			continue
		}

		current := &merged[pos]
		changed := false
		if current.Likes != record.Likes || current.Comments != record.Comments || current.Shares != record.Shares {
			current.Likes = record.Likes
			current.Comments = record.Comments
			current.Shares = record.Shares
			changed = true
		}
		if replaceThumbnail(current.Thumbnail, record.Thumbnail) {
			current.Thumbnail = record.Thumbnail
			stats.ThumbnailsReplaced++
			changed = true
		}
		if changed {
			stats.Updated++
		} else {
			stats.Unchanged++
		}
	}
	return merged, stats
}

// replaceThumbnail reports whether an incoming thumbnail should win. A
// stored local path is kept; empty or remote references are refreshed.
func replaceThumbnail(current, incoming string) bool {
	incoming = strings.TrimSpace(incoming)
	if incoming == "" || incoming == current {
		return false
	}
	return strings.TrimSpace(current) == "" || IsRemote(current)
}

// IsRemote reports whether ref is an http(s) URL rather than a local asset.
func IsRemote(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}
