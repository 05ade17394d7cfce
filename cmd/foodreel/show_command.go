package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"foodreel/internal/catalog"
	"foodreel/internal/dataset"
	"foodreel/internal/services"
)

type restaurantPage struct {
	Restaurant catalog.Restaurant `json:"restaurant"`
	Path       string             `json:"path"`
	Items      []itemRow          `json:"items"`
	FAQ        []dataset.QA       `json:"faq"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var itemID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show a restaurant with its videos and page FAQ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			page, err := buildRestaurantPage(ds, strings.TrimSpace(args[0]), strings.TrimSpace(itemID))
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, page)
			}
			printRestaurantPage(cmd, page)
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "Build the FAQ for this item instead of the latest one")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the page data as JSON")
	return cmd
}

func buildRestaurantPage(ds *dataset.Dataset, slug, itemID string) (restaurantPage, error) {
	restaurant, ok := ds.RestaurantBySlug(slug)
	if !ok {
		return restaurantPage{}, services.Wrap(services.ErrNotFound, "cli", "show", fmt.Sprintf("no restaurant with slug %q", slug), nil)
	}
	items := ds.ItemsForRestaurant(slug)
	page := restaurantPage{
		Restaurant: restaurant,
		Path:       dataset.RestaurantPath(slug),
		Items:      make([]itemRow, 0, len(items)),
	}
	for _, item := range items {
		page.Items = append(page.Items, itemRow{Item: item, Path: dataset.ItemPath(slug, item)})
	}
	featured, ok := featuredItem(items, itemID)
	if !ok {
		return restaurantPage{}, services.Wrap(services.ErrNotFound, "cli", "show", fmt.Sprintf("item %q is not linked to %q", itemID, slug), nil)
	}
	page.FAQ = dataset.FAQ(restaurant, featured)
	return page, nil
}

// featuredItem picks the item the FAQ is written for: the requested id, or
// the newest item when none is requested.
func featuredItem(items []catalog.Item, itemID string) (catalog.Item, bool) {
	if itemID != "" {
		for _, item := range items {
			if item.ID == itemID {
				return item, true
			}
		}
		return catalog.Item{}, false
	}
	var newest catalog.Item
	for i, item := range items {
		if i == 0 || item.CreatedAt.After(newest.CreatedAt) {
			newest = item
		}
	}
	return newest, true
}

func printRestaurantPage(cmd *cobra.Command, page restaurantPage) {
	out := cmd.OutOrStdout()
	status := newStatusPrinter(out)
	r := page.Restaurant

	status.header(r.Name)
	fmt.Fprintf(out, "Slug:     %s\n", r.Slug)
	fmt.Fprintf(out, "Page:     %s\n", page.Path)
	if r.City != "" {
		location := dataset.DisplayLabel(r.City)
		if r.Region != "" {
			location += ", " + r.Region
		}
		fmt.Fprintf(out, "Location: %s\n", location)
	}
	if r.Address != "" {
		fmt.Fprintf(out, "Address:  %s\n", r.Address)
	}
	if r.Cuisine != "" {
		fmt.Fprintf(out, "Cuisine:  %s\n", r.Cuisine)
	}
	fmt.Fprintf(out, "Google:   %s\n", describeRating(r.Google))
	fmt.Fprintf(out, "Yelp:     %s\n", describeRating(r.Yelp))
	fmt.Fprintln(out)

	if len(page.Items) > 0 {
		rows := make([][]string, 0, len(page.Items))
		for _, item := range page.Items {
			rows = append(rows, []string{item.ID, item.Path, truncate(item.Caption, 40)})
		}
		fmt.Fprintln(out, renderTable([]string{"Item", "Path", "Caption"}, rows))
		fmt.Fprintln(out)
	}

	status.header("FAQ")
	for _, qa := range page.FAQ {
		fmt.Fprintf(out, "Q: %s\nA: %s\n\n", qa.Question, qa.Answer)
	}
}

func describeRating(record catalog.RatingRecord) string {
	if record.IsAbsent() {
		return "not enriched"
	}
	return fmt.Sprintf("%.1f (%d reviews)", record.Rating, record.ReviewCount)
}
