package enrichment_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"foodreel/internal/catalog"
	"foodreel/internal/enrichment"
	"foodreel/internal/extraction"
	"foodreel/internal/overrides"
	"foodreel/internal/ratings"
	"foodreel/internal/services"
	"foodreel/internal/textutil"
)

type fakeProvider struct {
	name     string
	disabled bool
	results  map[string]*ratings.Result
	err      error
	panicOn  string
	queries  []string
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Enabled() bool { return !f.disabled }
func (f *fakeProvider) Search(_ context.Context, name, city string) (*ratings.Result, error) {
	f.queries = append(f.queries, name+"|"+city)
	if f.panicOn != "" && name == f.panicOn {
		panic("provider blew up")
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results[name], nil
}

func newEngine(providers ...ratings.Provider) *enrichment.Engine {
	return enrichment.NewEngine(extraction.New(), providers)
}

func snapshot(t *testing.T, reg *catalog.Registry, items []catalog.Item) string {
	t.Helper()
	regJSON, err := reg.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	return string(regJSON) + "\n" + string(itemsJSON)
}

func TestRunBrightonBeachScenario(t *testing.T) {
	google := &fakeProvider{name: catalog.ProviderGooglePlaces, results: map[string]*ratings.Result{
		"Tatiana": {
			Rating: 4.3, ReviewCount: 2100, ID: "p-2", URL: "https://maps.google.com/?cid=2",
			Address:     "3152 Brighton 6th St",
			Coordinates: &catalog.Coordinates{Lat: 40.57, Lng: -73.96},
			Snippets:    []catalog.Snippet{{Text: "Great show", Author: "Ann"}},
		},
	}}
	yelp := &fakeProvider{name: catalog.ProviderYelp, disabled: true}
	reg := catalog.NewRegistry()
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"}}

	ctx := services.WithRunID(context.Background(), "run-1")
	summary := newEngine(google, yelp).Run(ctx, reg, items)

	if items[0].RestaurantKey != "tatiana" || items[0].City != "New York" {
		t.Fatalf("item not classified: %+v", items[0])
	}
	entry, ok := reg.Get("tatiana")
	if !ok {
		t.Fatal("restaurant not registered")
	}
	if entry.Name != "Tatiana" || entry.Slug != "tatiana" || entry.Region != "NY" || entry.City != "New York" {
		t.Fatalf("unexpected shell %+v", entry)
	}
	if entry.Google.Rating != 4.3 || entry.Google.ID != "p-2" || entry.Address == "" || entry.Coordinates == nil {
		t.Fatalf("google fields not patched: %+v", entry)
	}
	if len(entry.Snippets) != 1 || entry.Snippets[0].Source != catalog.ProviderGooglePlaces {
		t.Fatalf("snippet not tagged: %+v", entry.Snippets)
	}
	if !entry.Yelp.IsAbsent() || len(yelp.queries) != 0 {
		t.Fatalf("disabled provider must not be queried")
	}
	if !reflect.DeepEqual(entry.ItemIDs, []string{"1"}) {
		t.Fatalf("item not linked: %v", entry.ItemIDs)
	}
	want := enrichment.Summary{RunID: "run-1", Total: 1, Extracted: 1, Enriched: 1, UnresolvedIDs: []string{}}
	if !reflect.DeepEqual(summary, want) {
		t.Fatalf("summary = %+v, want %+v", summary, want)
	}
}

func TestRunIsIdempotentWithoutProviderData(t *testing.T) {
	silent := &fakeProvider{name: catalog.ProviderGooglePlaces}
	reg := catalog.NewRegistry()
	items := []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"},
		{ID: "2", Caption: "Roberta's has the best margherita"},
		{ID: "3", Caption: "so good omg #foodie"},
		{ID: "4", Caption: "Tatiana — round two, Brooklyn"},
	}
	engine := newEngine(silent)

	first := engine.Run(context.Background(), reg, items)
	after1 := snapshot(t, reg, items)
	second := engine.Run(context.Background(), reg, items)
	after2 := snapshot(t, reg, items)

	if after1 != after2 {
		t.Fatalf("second run changed state:\n%s\n---\n%s", after1, after2)
	}
	if first.Unresolved != 1 || !reflect.DeepEqual(first.UnresolvedIDs, []string{"3"}) {
		t.Fatalf("unexpected unresolved: %+v", first)
	}
	if second.Skipped != 2 {
		t.Fatalf("items with key and city should take the fast path, got %+v", second)
	}
	entry, _ := reg.Get("tatiana")
	if !reflect.DeepEqual(entry.ItemIDs, []string{"1", "4"}) {
		t.Fatalf("items sharing a restaurant should both link once: %v", entry.ItemIDs)
	}
	if got := reg.Keys(); !reflect.DeepEqual(got, []string{"tatiana", "robertas"}) {
		t.Fatalf("unexpected registry order %v", got)
	}
}

func TestRunNeverClobbersPopulatedRatings(t *testing.T) {
	google := &fakeProvider{name: catalog.ProviderGooglePlaces, results: map[string]*ratings.Result{
		"Tatiana": {Rating: 2.0, ReviewCount: 5, ID: "new-id", Address: "elsewhere"},
	}}
	reg := catalog.NewRegistry()
	seeded := catalog.NewRestaurant("Tatiana", "tatiana")
	seeded.City = "New York"
	seeded.Address = "3152 Brighton 6th St"
	seeded.Google = catalog.RatingRecord{Rating: 4.5, ReviewCount: 900, ID: "p-2"}
	reg.Put("tatiana", seeded)
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"}}

	newEngine(google).Run(context.Background(), reg, items)

	entry, _ := reg.Get("tatiana")
	if entry.Google != seeded.Google || entry.Address != seeded.Address {
		t.Fatalf("populated fields overwritten: %+v", entry)
	}
	if len(google.queries) != 0 {
		t.Fatalf("enriched provider should not be queried again: %v", google.queries)
	}
}

func TestRunFillsIdentifierWithoutTouchingRating(t *testing.T) {
	google := &fakeProvider{name: catalog.ProviderGooglePlaces, results: map[string]*ratings.Result{
		"Tatiana": {Rating: 2.0, ReviewCount: 5, ID: "p-2", URL: "https://maps"},
	}}
	reg := catalog.NewRegistry()
	seeded := catalog.NewRestaurant("Tatiana", "tatiana")
	seeded.Google = catalog.RatingRecord{Rating: 4.5, ReviewCount: 900}
	reg.Put("tatiana", seeded)
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"}}

	newEngine(google).Run(context.Background(), reg, items)

	entry, _ := reg.Get("tatiana")
	want := catalog.RatingRecord{Rating: 4.5, ReviewCount: 900, ID: "p-2", URL: "https://maps"}
	if entry.Google != want {
		t.Fatalf("google record = %+v, want %+v", entry.Google, want)
	}
	if entry.City != "New York" || entry.Region != "NY" {
		t.Fatalf("empty location fields should be filled: %+v", entry)
	}
}

func TestRunMergesSnippetsAcrossProviders(t *testing.T) {
	google := &fakeProvider{name: catalog.ProviderGooglePlaces, results: map[string]*ratings.Result{
		"Tatiana": {Rating: 4.1, ReviewCount: 3, Snippets: []catalog.Snippet{{Text: "g-new-1"}, {Text: "g-new-2"}}},
	}}
	reg := catalog.NewRegistry()
	seeded := catalog.NewRestaurant("Tatiana", "tatiana")
	seeded.Snippets = []catalog.Snippet{
		{Source: catalog.ProviderYelp, Text: "y-old"},
		{Source: catalog.ProviderGooglePlaces, Text: "g-old"},
	}
	reg.Put("tatiana", seeded)
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"}}

	newEngine(google).Run(context.Background(), reg, items)

	entry, _ := reg.Get("tatiana")
	var texts []string
	for _, s := range entry.Snippets {
		texts = append(texts, s.Text)
	}
	if !reflect.DeepEqual(texts, []string{"g-new-1", "g-new-2", "y-old"}) {
		t.Fatalf("unexpected snippet order %v", texts)
	}
}

func TestRunContinuesAfterProviderFailure(t *testing.T) {
	failing := &fakeProvider{name: catalog.ProviderGooglePlaces, err: services.Wrap(services.ErrProvider, "google", "search", "", errors.New("503"))}
	yelp := &fakeProvider{name: catalog.ProviderYelp, results: map[string]*ratings.Result{
		"Tatiana": {Rating: 4.0, ReviewCount: 10, ID: "y-1"},
	}}
	reg := catalog.NewRegistry()
	items := []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"},
		{ID: "2", Caption: "Roberta's has the best margherita"},
	}

	summary := newEngine(failing, yelp).Run(context.Background(), reg, items)

	if summary.Errored != 2 || summary.Extracted != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	entry, _ := reg.Get("tatiana")
	if !entry.Google.IsAbsent() || entry.Yelp.ID != "y-1" {
		t.Fatalf("failing provider should leave its record absent while others enrich: %+v", entry)
	}
	if items[1].RestaurantKey == "" {
		t.Fatal("second item should still be processed")
	}
}

func TestRunRecoversFromPanics(t *testing.T) {
	google := &fakeProvider{name: catalog.ProviderGooglePlaces, panicOn: "Tatiana"}
	reg := catalog.NewRegistry()
	items := []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"},
		{ID: "2", Caption: "Roberta's has the best margherita"},
	}

	summary := newEngine(google).Run(context.Background(), reg, items)

	if summary.Errored != 1 || summary.Extracted != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	entry, ok := reg.Get("tatiana")
	if items[0].RestaurantKey != "tatiana" || !ok || len(entry.ItemIDs) != 1 {
		t.Fatalf("partial progress before the panic should be kept: %+v", items[0])
	}
	if items[1].RestaurantKey == "" {
		t.Fatal("processing must continue after a panic")
	}
}

func TestRunKeepsExistingKeyAndValues(t *testing.T) {
	reg := catalog.NewRegistry()
	reg.Put("manual-key", catalog.NewRestaurant("Manual Name", "manual-key"))
	items := []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach — ramen night", RestaurantKey: "manual-key", Cuisine: "Russian"},
	}

	newEngine().Run(context.Background(), reg, items)

	if items[0].RestaurantKey != "manual-key" {
		t.Fatalf("existing key must not be re-derived, got %q", items[0].RestaurantKey)
	}
	if items[0].City != "New York" || items[0].Cuisine != "Russian" {
		t.Fatalf("existing values must win and empty ones fill: %+v", items[0])
	}
	if reg.Has("tatiana") {
		t.Fatal("no new restaurant should be created for a kept key")
	}
}

func TestRunOverrideDrivesKey(t *testing.T) {
	table := overrides.FromMap(map[string]string{"1": "Di Fara Pizza"})
	engine := enrichment.NewEngine(extraction.New(extraction.WithOverrides(table)), nil)
	reg := catalog.NewRegistry()
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"}}

	engine.Run(context.Background(), reg, items)

	if items[0].RestaurantKey != "di-fara-pizza" {
		t.Fatalf("override should drive the key, got %q", items[0].RestaurantKey)
	}
	entry, _ := reg.Get("di-fara-pizza")
	if entry == nil || entry.Name != "Di Fara Pizza" {
		t.Fatalf("unexpected restaurant %+v", entry)
	}
}

func TestRunOverrideRekeysMisclassifiedItem(t *testing.T) {
	tests := []struct {
		name string
		city string
	}{
		{name: "no city", city: ""},
		{name: "city already known", city: "New York"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := overrides.FromMap(map[string]string{"1": "Joe's Pizza"})
			engine := enrichment.NewEngine(
				extraction.New(extraction.WithOverrides(table)), nil,
				enrichment.WithOverrides(table),
			)
			reg := catalog.NewRegistry()
			wrong := reg.Put("best-pizza", catalog.NewRestaurant("Best Pizza", "best-pizza"))
			wrong.LinkItem("1")
			items := []catalog.Item{{ID: "1", Caption: "Best pizza ever", RestaurantKey: "best-pizza", City: tt.city}}

			summary := engine.Run(context.Background(), reg, items)

			if items[0].RestaurantKey != "joes-pizza" || summary.Skipped != 0 {
				t.Fatalf("override should re-key the item, got %q (%+v)", items[0].RestaurantKey, summary)
			}
			entry, ok := reg.Get("joes-pizza")
			if !ok || entry.Name != "Joe's Pizza" || !reflect.DeepEqual(entry.ItemIDs, []string{"1"}) {
				t.Fatalf("unexpected restaurant %+v", entry)
			}
			if previous, _ := reg.Get("best-pizza"); len(previous.ItemIDs) != 0 {
				t.Fatalf("old restaurant still lists the item: %v", previous.ItemIDs)
			}
			if problems := catalog.Validate(items, reg); len(problems) != 0 {
				t.Fatalf("unexpected problems: %v", problems)
			}
		})
	}
}

func TestRunSkipsItemWhoseOverrideMatchesKey(t *testing.T) {
	table := overrides.FromMap(map[string]string{"1": "Joe's Pizza"})
	engine := enrichment.NewEngine(extraction.New(extraction.WithOverrides(table)), nil, enrichment.WithOverrides(table))
	reg := catalog.NewRegistry()
	reg.Put("joes-pizza", catalog.NewRestaurant("Joe's Pizza", "joes-pizza"))
	items := []catalog.Item{{ID: "1", Caption: "Best pizza ever", RestaurantKey: "joes-pizza", City: "New York"}}

	summary := engine.Run(context.Background(), reg, items)

	if summary.Skipped != 1 {
		t.Fatalf("item already keyed to its override should be skipped: %+v", summary)
	}
}

func TestRunDanglingKeyFollowsExtractedName(t *testing.T) {
	reg := catalog.NewRegistry()
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant", RestaurantKey: "ghost"}}

	newEngine().Run(context.Background(), reg, items)

	if items[0].RestaurantKey != "tatiana" || reg.Has("ghost") {
		t.Fatalf("dangling key should follow the extracted name, got %q", items[0].RestaurantKey)
	}
	entry, _ := reg.Get("tatiana")
	if entry == nil || entry.Name != "Tatiana" || textutil.Slugify(entry.Name) != entry.Slug {
		t.Fatalf("unexpected restaurant %+v", entry)
	}
}

func TestRunRegionFromCustomCityDictionary(t *testing.T) {
	ext := extraction.New(extraction.WithCityAliases([]extraction.CityAlias{
		{City: "Springfield", Region: "OR", Aliases: []string{"springfield"}},
	}))
	engine := enrichment.NewEngine(ext, nil, enrichment.WithRegionLookup(ext.RegionFor))
	reg := catalog.NewRegistry()
	items := []catalog.Item{{ID: "1", Caption: "Lard Lad in Springfield"}}

	engine.Run(context.Background(), reg, items)

	entry, ok := reg.Get("lard-lad")
	if !ok || entry.City != "Springfield" || entry.Region != "OR" {
		t.Fatalf("unexpected restaurant %+v", entry)
	}
}

func TestRunLeavesNoOrphans(t *testing.T) {
	reg := catalog.NewRegistry()
	items := []catalog.Item{
		{ID: "1", Caption: "Tatiana in Brighton Beach — the best restaurant"},
		{ID: "2", Caption: "Golden Diner pancakes"},
		{ID: "3", Caption: "!!!"},
		{ID: "4", Caption: "stale", RestaurantKey: "ghost", City: "Chicago"},
	}

	summary := newEngine().Run(context.Background(), reg, items)

	if problems := catalog.Validate(items, reg); len(problems) != 0 {
		t.Fatalf("orphans after run: %v", problems)
	}
	if summary.Unresolved != 1 || summary.UnresolvedIDs[0] != "3" {
		t.Fatalf("expected only item 3 unresolved, got %+v", summary)
	}
	if ghost, ok := reg.Get("ghost"); !ok || ghost.Slug != "ghost" || ghost.Name != "ghost" || ghost.ItemIDs[0] != "4" {
		t.Fatalf("dangling key should get a restaurant shell: %+v", ghost)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reg := catalog.NewRegistry()
	items := []catalog.Item{{ID: "1", Caption: "Tatiana in Brighton Beach"}}

	summary := newEngine().Run(ctx, reg, items)

	if !summary.Interrupted || items[0].RestaurantKey != "" || reg.Len() != 0 {
		t.Fatalf("cancelled run must not touch items: %+v", summary)
	}
}
