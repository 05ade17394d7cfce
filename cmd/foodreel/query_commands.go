package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"foodreel/internal/catalog"
	"foodreel/internal/dataset"
)

type queryFlags struct {
	limit int
	json  bool
}

func (f *queryFlags) register(cmd *cobra.Command, defaultLimit int) {
	cmd.Flags().IntVarP(&f.limit, "limit", "n", defaultLimit, "Maximum number of rows")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print results as JSON")
}

func newQueryCommand(ctx *commandContext) *cobra.Command {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Inspect the dataset the site is rendered from",
	}

	queryCmd.AddCommand(newQueryTopCommand(ctx))
	queryCmd.AddCommand(newQueryLatestCommand(ctx))
	queryCmd.AddCommand(newQueryFacetCommand(ctx, "city", "Items or restaurants in a city", (*dataset.Dataset).Cities, (*dataset.Dataset).ItemsByCity, (*dataset.Dataset).RestaurantsByCity, dataset.CityPath))
	queryCmd.AddCommand(newQueryFacetCommand(ctx, "cuisine", "Items or restaurants serving a cuisine", (*dataset.Dataset).Cuisines, (*dataset.Dataset).ItemsByCuisine, (*dataset.Dataset).RestaurantsByCuisine, dataset.CuisinePath))

	return queryCmd
}

func newQueryTopCommand(ctx *commandContext) *cobra.Command {
	var flags queryFlags
	var by string
	var restaurants bool

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Highest ranked items, or restaurants by combined rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			if restaurants {
				return printRestaurants(cmd, ds.TopRestaurants(flags.limit), flags.json)
			}
			key, ok := dataset.ParseRankKey(by)
			if !ok {
				return fmt.Errorf("unknown rank key %q (use likes, comments, shares, engagement, or rating)", by)
			}
			return printItems(cmd, ds, ds.TopItems(flags.limit, key), flags.json)
		},
	}

	flags.register(cmd, 10)
	cmd.Flags().StringVar(&by, "by", string(dataset.RankLikes), "Rank items by likes, comments, shares, engagement, or rating")
	cmd.Flags().BoolVar(&restaurants, "restaurants", false, "Rank restaurants instead of items")
	return cmd
}

func newQueryLatestCommand(ctx *commandContext) *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Most recently published items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			return printItems(cmd, ds, ds.LatestItems(flags.limit), flags.json)
		},
	}

	flags.register(cmd, 10)
	return cmd
}

// newQueryFacetCommand builds the city and cuisine listings. Without an
// argument it lists the distinct values.
func newQueryFacetCommand(
	ctx *commandContext,
	name, short string,
	values func(*dataset.Dataset) []string,
	items func(*dataset.Dataset, string) []catalog.Item,
	restaurantsFor func(*dataset.Dataset, string) []catalog.Restaurant,
	path func(string) string,
) *cobra.Command {
	var flags queryFlags
	var restaurants bool

	cmd := &cobra.Command{
		Use:   name + " [" + name + "]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := ctx.loadDataset()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				listed := values(ds)
				if flags.json {
					return writeJSON(cmd, listed)
				}
				rows := make([][]string, 0, len(listed))
				for _, value := range listed {
					rows = append(rows, []string{dataset.DisplayLabel(value), path(value)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{dataset.DisplayLabel(name), "Path"}, rows))
				return nil
			}
			if restaurants {
				return printRestaurants(cmd, limitRows(restaurantsFor(ds, args[0]), flags.limit), flags.json)
			}
			return printItems(cmd, ds, limitRows(items(ds, args[0]), flags.limit), flags.json)
		},
	}

	flags.register(cmd, 50)
	cmd.Flags().BoolVar(&restaurants, "restaurants", false, "List restaurants instead of items")
	return cmd
}

type itemRow struct {
	catalog.Item
	Path string `json:"path,omitempty"`
}

func printItems(cmd *cobra.Command, ds *dataset.Dataset, items []catalog.Item, asJSON bool) error {
	if asJSON {
		rows := make([]itemRow, 0, len(items))
		for _, item := range items {
			row := itemRow{Item: item}
			if item.Resolved() {
				row.Path = dataset.ItemPath(item.RestaurantKey, item)
			}
			rows = append(rows, row)
		}
		return writeJSON(cmd, rows)
	}
	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintln(out, "No items")
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		restaurant := "-"
		if r, ok := ds.RestaurantBySlug(item.RestaurantKey); ok {
			restaurant = r.Name
		}
		created := ""
		if !item.CreatedAt.IsZero() {
			created = item.CreatedAt.Format(time.DateOnly)
		}
		rows = append(rows, []string{
			item.ID,
			restaurant,
			dataset.DisplayLabel(item.City),
			item.Cuisine,
			strconv.FormatInt(item.Likes, 10),
			created,
			truncate(item.Caption, 40),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Item", "Restaurant", "City", "Cuisine", "Likes", "Posted", "Caption"},
		rows,
		4,
	))
	return nil
}

func printRestaurants(cmd *cobra.Command, restaurants []catalog.Restaurant, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, restaurants)
	}
	out := cmd.OutOrStdout()
	if len(restaurants) == 0 {
		fmt.Fprintln(out, "No restaurants")
		return nil
	}
	rows := make([][]string, 0, len(restaurants))
	for _, r := range restaurants {
		rows = append(rows, []string{
			r.Slug,
			r.Name,
			dataset.DisplayLabel(r.City),
			r.Cuisine,
			formatRating(dataset.CombinedRating(r)),
			strconv.Itoa(r.Google.ReviewCount + r.Yelp.ReviewCount),
			strconv.Itoa(len(r.ItemIDs)),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Slug", "Name", "City", "Cuisine", "Rating", "Reviews", "Videos"},
		rows,
		4, 5, 6,
	))
	return nil
}

func formatRating(value float64) string {
	if value == 0 {
		return "-"
	}
	return strconv.FormatFloat(value, 'f', 1, 64)
}

// limitRows caps rows at n. A negative n keeps everything.
func limitRows[T any](rows []T, n int) []T {
	if n >= 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}
