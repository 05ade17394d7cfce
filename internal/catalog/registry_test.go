package catalog_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"foodreel/internal/catalog"
)

func TestRegistryPreservesInsertionOrder(t *testing.T) {
	reg := catalog.NewRegistry()
	for _, key := range []string{"zeta", "alpha", "mid"} {
		reg.Put(key, catalog.NewRestaurant(key, key))
	}
	reg.Put("alpha", catalog.NewRestaurant("Alpha Renamed", "alpha"))

	if got := reg.Keys(); !reflect.DeepEqual(got, []string{"zeta", "alpha", "mid"}) {
		t.Fatalf("unexpected key order: %v", got)
	}
	entry, ok := reg.Get("alpha")
	if !ok || entry.Name != "Alpha Renamed" {
		t.Fatalf("expected replaced value, got %+v", entry)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", reg.Len())
	}
}

func TestRegistryJSONRoundTripKeepsDocumentOrder(t *testing.T) {
	doc := `{"tatiana":{"name":"Tatiana","slug":"tatiana","city":"New York","google":{"rating":4.5,"review_count":10}},` +
		`"di-fara":{"name":"Di Fara","slug":"di-fara"},` +
		`"blue-ribbon":{"name":"Blue Ribbon","slug":"blue-ribbon"}}`

	reg := catalog.NewRegistry()
	if err := json.Unmarshal([]byte(doc), reg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"tatiana", "di-fara", "blue-ribbon"}
	if got := reg.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("decoded order = %v, want %v", got, want)
	}

	out, err := reg.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := string(out)
	if !(strings.Index(encoded, `"tatiana"`) < strings.Index(encoded, `"di-fara"`) &&
		strings.Index(encoded, `"di-fara"`) < strings.Index(encoded, `"blue-ribbon"`)) {
		t.Fatalf("encoded order lost: %s", encoded)
	}

	entry, _ := reg.Get("tatiana")
	if entry.Google.Rating != 4.5 || entry.Google.ReviewCount != 10 {
		t.Fatalf("rating not decoded: %+v", entry.Google)
	}
}

func TestRegistryRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"array":     `[]`,
		"duplicate": `{"a":{"slug":"a"},"a":{"slug":"a"}}`,
		"truncated": `{"a":{"slug":"a"}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			reg := catalog.NewRegistry()
			if err := json.Unmarshal([]byte(doc), reg); err == nil {
				t.Fatalf("expected error for %s", doc)
			}
		})
	}
}

func TestRegistryCloneIsDeep(t *testing.T) {
	reg := catalog.NewRegistry()
	r := catalog.NewRestaurant("Tatiana", "tatiana")
	r.Coordinates = &catalog.Coordinates{Lat: 40.5, Lng: -73.9}
	r.LinkItem("1")
	reg.Put("tatiana", r)

	clone := reg.Clone()
	entry, _ := clone.Get("tatiana")
	entry.Coordinates.Lat = 0
	entry.LinkItem("2")

	orig, _ := reg.Get("tatiana")
	if orig.Coordinates.Lat != 40.5 {
		t.Fatalf("coordinates shared with clone")
	}
	if len(orig.ItemIDs) != 1 {
		t.Fatalf("item ids shared with clone: %v", orig.ItemIDs)
	}
}

func TestRestaurantLinkItemDeduplicates(t *testing.T) {
	r := catalog.NewRestaurant("Di Fara", "di-fara")
	if !r.LinkItem("7") {
		t.Fatal("first link should be added")
	}
	if r.LinkItem("7") {
		t.Fatal("duplicate link should be ignored")
	}
	if r.LinkItem("") {
		t.Fatal("empty id should be ignored")
	}
	if !reflect.DeepEqual(r.ItemIDs, []string{"7"}) {
		t.Fatalf("unexpected ids: %v", r.ItemIDs)
	}
}

func TestRestaurantUnlinkItem(t *testing.T) {
	r := catalog.NewRestaurant("Di Fara", "di-fara")
	r.LinkItem("7")
	r.LinkItem("8")
	if !r.UnlinkItem("7") {
		t.Fatal("linked id should be removed")
	}
	if r.UnlinkItem("7") || r.UnlinkItem("") {
		t.Fatal("missing or empty id should report false")
	}
	if !reflect.DeepEqual(r.ItemIDs, []string{"8"}) {
		t.Fatalf("unexpected ids: %v", r.ItemIDs)
	}
}

func TestRatingRecordAbsence(t *testing.T) {
	if !(catalog.RatingRecord{}).IsAbsent() {
		t.Fatal("zero record should be absent")
	}
	if !(catalog.RatingRecord{ID: "abc"}).IsAbsent() {
		t.Fatal("record with only an id carries no data")
	}
	if (catalog.RatingRecord{ReviewCount: 3}).IsAbsent() {
		t.Fatal("record with reviews is present")
	}
}
