package catalog

import (
	"slices"
	"time"
)

// Provider names tag rating records and review snippets.
const (
	ProviderGooglePlaces = "google"
	ProviderYelp         = "yelp"
)

// Item is one source video. The classification fields (RestaurantKey, City,
// Cuisine) are written by the pipeline and stay empty until resolved.
type Item struct {
	ID            string    `json:"id"`
	Caption       string    `json:"caption"`
	CreatedAt     time.Time `json:"created_at"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	RestaurantKey string    `json:"restaurant_key"`
	City          string    `json:"city"`
	Cuisine       string    `json:"cuisine"`
	Likes         int64     `json:"likes"`
	Comments      int64     `json:"comments"`
	Shares        int64     `json:"shares"`
}

// Resolved reports whether the item carries a restaurant classification.
func (it Item) Resolved() bool {
	return it.RestaurantKey != ""
}

// Engagement sums the informational engagement counters.
func (it Item) Engagement() int64 {
	return it.Likes + it.Comments + it.Shares
}

// RatingRecord holds one provider's view of a restaurant. A zero rating with
// zero reviews means "not enriched yet", not "rated zero".
type RatingRecord struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	ID          string  `json:"id,omitempty"`
	URL         string  `json:"url,omitempty"`
}

// IsAbsent reports whether the record carries no rating data.
func (r RatingRecord) IsAbsent() bool {
	return r.Rating == 0 && r.ReviewCount == 0
}

// HasData is the inverse of IsAbsent.
func (r RatingRecord) HasData() bool {
	return !r.IsAbsent()
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Snippet is a short review excerpt attributed to its provider.
type Snippet struct {
	Source string  `json:"source"`
	Author string  `json:"author,omitempty"`
	Rating float64 `json:"rating,omitempty"`
	Text   string  `json:"text"`
	Date   string  `json:"date,omitempty"`
}

// Restaurant is one distinct restaurant identity. Slug is its registry key.
type Restaurant struct {
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	City        string       `json:"city"`
	Region      string       `json:"region"`
	Cuisine     string       `json:"cuisine"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Google      RatingRecord `json:"google"`
	Yelp        RatingRecord `json:"yelp"`
	Snippets    []Snippet    `json:"snippets"`
	ItemIDs     []string     `json:"item_ids"`
}

// NewRestaurant builds an unenriched shell for a freshly seen key.
func NewRestaurant(name, slug string) Restaurant {
	return Restaurant{
		Name:     name,
		Slug:     slug,
		Snippets: []Snippet{},
		ItemIDs:  []string{},
	}
}

// Rating returns the record owned by provider.
func (r *Restaurant) Rating(provider string) RatingRecord {
	switch provider {
	case ProviderGooglePlaces:
		return r.Google
	case ProviderYelp:
		return r.Yelp
	default:
		return RatingRecord{}
	}
}

// SetRating replaces the record owned by provider. Unknown providers are ignored.
func (r *Restaurant) SetRating(provider string, record RatingRecord) {
	switch provider {
	case ProviderGooglePlaces:
		r.Google = record
	case ProviderYelp:
		r.Yelp = record
	}
}

// LinkItem appends id to ItemIDs unless already present.
func (r *Restaurant) LinkItem(id string) bool {
	if id == "" || slices.Contains(r.ItemIDs, id) {
		return false
	}
	r.ItemIDs = append(r.ItemIDs, id)
	return true
}

// UnlinkItem removes id from ItemIDs and reports whether it was present.
func (r *Restaurant) UnlinkItem(id string) bool {
	i := slices.Index(r.ItemIDs, id)
	if id == "" || i < 0 {
		return false
	}
	r.ItemIDs = slices.Delete(r.ItemIDs, i, i+1)
	return true
}

// Clone returns a deep copy.
func (r Restaurant) Clone() Restaurant {
	out := r
	if r.Coordinates != nil {
		coords := *r.Coordinates
		out.Coordinates = &coords
	}
	out.Snippets = append([]Snippet{}, r.Snippets...)
	out.ItemIDs = append([]string{}, r.ItemIDs...)
	return out
}
