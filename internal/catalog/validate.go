package catalog

import "fmt"

// Problem describes one referential inconsistency between the documents.
type Problem struct {
	ItemID        string `json:"item_id,omitempty"`
	RestaurantKey string `json:"restaurant_key"`
	Message       string `json:"message"`
}

func (p Problem) String() string {
	if p.ItemID == "" {
		return fmt.Sprintf("restaurant %q: %s", p.RestaurantKey, p.Message)
	}
	return fmt.Sprintf("item %q -> %q: %s", p.ItemID, p.RestaurantKey, p.Message)
}

// Validate reports items whose restaurant key is not registered and
// registry entries whose key disagrees with their slug.
func Validate(items []Item, registry *Registry) []Problem {
	var problems []Problem
	for _, item := range items {
		if item.RestaurantKey == "" {
			continue
		}
		if !registry.Has(item.RestaurantKey) {
			problems = append(problems, Problem{
				ItemID:        item.ID,
				RestaurantKey: item.RestaurantKey,
				Message:       "restaurant key not in registry",
			})
		}
	}
	registry.Each(func(key string, restaurant *Restaurant) bool {
		if restaurant.Slug != key {
			problems = append(problems, Problem{
				RestaurantKey: key,
				Message:       fmt.Sprintf("slug %q differs from key", restaurant.Slug),
			})
		}
		return true
	})
	return problems
}
