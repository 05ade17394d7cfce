package dataset

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"foodreel/internal/catalog"
)

// RankKey selects the metric for TopItems.
type RankKey string

const (
	RankLikes      RankKey = "likes"
	RankComments   RankKey = "comments"
	RankShares     RankKey = "shares"
	RankEngagement RankKey = "engagement"
	RankRating     RankKey = "rating"
)

// ParseRankKey validates a user-supplied rank key.
func ParseRankKey(value string) (RankKey, bool) {
	key := RankKey(strings.ToLower(strings.TrimSpace(value)))
	switch key {
	case RankLikes, RankComments, RankShares, RankEngagement, RankRating:
		return key, true
	default:
		return "", false
	}
}

// Dataset is an immutable snapshot of the registry and item list.
type Dataset struct {
	registry *catalog.Registry
	items    []catalog.Item
}

// New snapshots registry and items.
func New(registry *catalog.Registry, items []catalog.Item) *Dataset {
	if registry == nil {
		registry = catalog.NewRegistry()
	}
	return &Dataset{
		registry: registry.Clone(),
		items:    slices.Clone(items),
	}
}

// Items returns every item in stored order.
func (d *Dataset) Items() []catalog.Item {
	return slices.Clone(d.items)
}

// Restaurants returns every restaurant in registry order.
func (d *Dataset) Restaurants() []catalog.Restaurant {
	out := make([]catalog.Restaurant, 0, d.registry.Len())
	d.registry.Each(func(_ string, r *catalog.Restaurant) bool {
		out = append(out, r.Clone())
		return true
	})
	return out
}

// ItemByID returns the first item with id.
func (d *Dataset) ItemByID(id string) (catalog.Item, bool) {
	for _, item := range d.items {
		if item.ID == id {
			return item, true
		}
	}
	return catalog.Item{}, false
}

// RestaurantBySlug returns the restaurant registered under slug.
func (d *Dataset) RestaurantBySlug(slug string) (catalog.Restaurant, bool) {
	r, ok := d.registry.Get(slug)
	if !ok {
		return catalog.Restaurant{}, false
	}
	return r.Clone(), true
}

// ItemsForRestaurant returns the items classified under slug, in item order.
func (d *Dataset) ItemsForRestaurant(slug string) []catalog.Item {
	out := []catalog.Item{}
	for _, item := range d.items {
		if item.RestaurantKey == slug && slug != "" {
			out = append(out, item)
		}
	}
	return out
}

// ItemsByCity returns items whose city equals city under Unicode case folding.
func (d *Dataset) ItemsByCity(city string) []catalog.Item {
	return d.filterItems(city, func(item catalog.Item) string { return item.City })
}

// ItemsByCuisine returns items whose cuisine equals cuisine under case folding.
func (d *Dataset) ItemsByCuisine(cuisine string) []catalog.Item {
	return d.filterItems(cuisine, func(item catalog.Item) string { return item.Cuisine })
}

// RestaurantsByCity returns restaurants whose city equals city under case folding.
func (d *Dataset) RestaurantsByCity(city string) []catalog.Restaurant {
	return d.filterRestaurants(city, func(r *catalog.Restaurant) string { return r.City })
}

// RestaurantsByCuisine returns restaurants whose cuisine equals cuisine under case folding.
func (d *Dataset) RestaurantsByCuisine(cuisine string) []catalog.Restaurant {
	return d.filterRestaurants(cuisine, func(r *catalog.Restaurant) string { return r.Cuisine })
}

func (d *Dataset) filterItems(query string, field func(catalog.Item) string) []catalog.Item {
	out := []catalog.Item{}
	match := newMatcher(query)
	if match == nil {
		return out
	}
	for _, item := range d.items {
		if match(field(item)) {
			out = append(out, item)
		}
	}
	return out
}

func (d *Dataset) filterRestaurants(query string, field func(*catalog.Restaurant) string) []catalog.Restaurant {
	out := []catalog.Restaurant{}
	match := newMatcher(query)
	if match == nil {
		return out
	}
	d.registry.Each(func(_ string, r *catalog.Restaurant) bool {
		if match(field(r)) {
			out = append(out, r.Clone())
		}
		return true
	})
	return out
}

// newMatcher returns a case-folded equality test, or nil for a blank query.
func newMatcher(query string) func(string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	folder := cases.Fold()
	want := folder.String(query)
	return func(value string) bool {
		return value != "" && folder.String(strings.TrimSpace(value)) == want
	}
}

// TopItems returns up to n items ranked by key, highest first. Ties keep
// stored order.
func (d *Dataset) TopItems(n int, key RankKey) []catalog.Item {
	score := d.itemScorer(key)
	ranked := slices.Clone(d.items)
	slices.SortStableFunc(ranked, func(a, b catalog.Item) int {
		return cmp.Compare(score(b), score(a))
	})
	return limit(ranked, n)
}

func (d *Dataset) itemScorer(key RankKey) func(catalog.Item) float64 {
	switch key {
	case RankComments:
		return func(it catalog.Item) float64 { return float64(it.Comments) }
	case RankShares:
		return func(it catalog.Item) float64 { return float64(it.Shares) }
	case RankEngagement:
		return func(it catalog.Item) float64 { return float64(it.Engagement()) }
	case RankRating:
		return func(it catalog.Item) float64 {
			r, ok := d.registry.Get(it.RestaurantKey)
			if !ok {
				return 0
			}
			return CombinedRating(*r)
		}
	default:
		return func(it catalog.Item) float64 { return float64(it.Likes) }
	}
}

// TopRestaurants returns up to n restaurants by combined rating, highest
// first. Ties keep registry order.
func (d *Dataset) TopRestaurants(n int) []catalog.Restaurant {
	ranked := d.Restaurants()
	slices.SortStableFunc(ranked, func(a, b catalog.Restaurant) int {
		return cmp.Compare(CombinedRating(b), CombinedRating(a))
	})
	return limit(ranked, n)
}

// LatestItems returns up to n items by creation time, newest first. Ties keep
// stored order.
func (d *Dataset) LatestItems(n int) []catalog.Item {
	ranked := slices.Clone(d.items)
	slices.SortStableFunc(ranked, func(a, b catalog.Item) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return limit(ranked, n)
}

// Cities returns the distinct item cities in first-seen order.
func (d *Dataset) Cities() []string {
	return d.distinct(func(item catalog.Item) string { return item.City })
}

// Cuisines returns the distinct item cuisines in first-seen order.
func (d *Dataset) Cuisines() []string {
	return d.distinct(func(item catalog.Item) string { return item.Cuisine })
}

func (d *Dataset) distinct(field func(catalog.Item) string) []string {
	folder := cases.Fold()
	seen := make(map[string]struct{})
	out := []string{}
	for _, item := range d.items {
		value := strings.TrimSpace(field(item))
		if value == "" {
			continue
		}
		key := folder.String(value)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, value)
	}
	return out
}

// CombinedRating averages the present provider ratings weighted by review
// count. With no reviews counted it falls back to the plain mean; with no
// provider data it is 0.
func CombinedRating(r catalog.Restaurant) float64 {
	records := []catalog.RatingRecord{r.Google, r.Yelp}
	var weighted, sum float64
	var totalCount, present int
	for _, record := range records {
		if record.IsAbsent() {
			continue
		}
		present++
		sum += record.Rating
		weighted += record.Rating * float64(record.ReviewCount)
		totalCount += record.ReviewCount
	}
	switch {
	case present == 0:
		return 0
	case totalCount == 0:
		return sum / float64(present)
	default:
		return weighted / float64(totalCount)
	}
}

// DisplayLabel title-cases a free-form city or cuisine query for headings.
func DisplayLabel(value string) string {
	return cases.Title(language.English).String(strings.TrimSpace(value))
}

func limit[T any](values []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n < len(values) {
		values = values[:n]
	}
	return values
}
