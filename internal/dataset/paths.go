package dataset

import (
	"foodreel/internal/catalog"
	"foodreel/internal/textutil"
)

// ItemPath is the page path for one video under its restaurant.
func ItemPath(restaurantSlug string, item catalog.Item) string {
	return "/" + restaurantSlug + "/" + textutil.ItemSlug(item.Caption, item.ID) + "/"
}

// RestaurantPath is the restaurant landing page.
func RestaurantPath(restaurantSlug string) string {
	return "/" + restaurantSlug + "/"
}

// CityPath is the city listing page.
func CityPath(city string) string {
	return "/city/" + textutil.Slugify(city) + "/"
}

// CuisinePath is the cuisine listing page.
func CuisinePath(cuisine string) string {
	return "/cuisine/" + textutil.Slugify(cuisine) + "/"
}
