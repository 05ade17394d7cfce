package ratings

import (
	"context"
	"errors"

	"foodreel/internal/catalog"
	"foodreel/internal/textutil"
)

// ErrNotQueried is returned by adapters that decline a lookup without
// touching the network (for example a query with no usable location).
// Throttled reports it as "no result" and does not start a delay window.
var ErrNotQueried = errors.New("lookup not attempted")

// Result is one provider's normalized view of a restaurant.
type Result struct {
	Rating      float64
	ReviewCount int
	ID          string
	URL         string
	Address     string
	Coordinates *catalog.Coordinates
	Snippets    []catalog.Snippet
}

// Record projects the result onto the persisted rating record shape.
func (r *Result) Record() catalog.RatingRecord {
	if r == nil {
		return catalog.RatingRecord{}
	}
	return catalog.RatingRecord{
		Rating:      r.Rating,
		ReviewCount: r.ReviewCount,
		ID:          r.ID,
		URL:         r.URL,
	}
}

// Provider looks up a restaurant by name and city. (nil, nil) means the
// provider has nothing for the query.
type Provider interface {
	Name() string
	Enabled() bool
	Search(ctx context.Context, name, city string) (*Result, error)
}

// BestMatch returns the index of the candidate name most similar to query,
// or -1 when none reaches floor. Ties keep the earlier candidate.
func BestMatch(query string, candidates []string, floor float64) (int, float64) {
	best := -1
	bestScore := 0.0
	for i, candidate := range candidates {
		score := textutil.NameSimilarity(query, candidate)
		if score < floor || score <= bestScore && best >= 0 {
			continue
		}
		best = i
		bestScore = score
	}
	return best, bestScore
}

// TrimSnippets caps snippets at limit. A negative limit keeps everything.
func TrimSnippets(snippets []catalog.Snippet, limit int) []catalog.Snippet {
	if limit >= 0 && len(snippets) > limit {
		snippets = snippets[:limit]
	}
	return snippets
}
