package places_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"foodreel/internal/catalog"
	"foodreel/internal/ratings/places"
)

const searchPayload = `{"places":[
 {"id":"p-1","displayName":{"text":"Tatiana Grill"},"rating":3.9,"userRatingCount":40},
 {"id":"p-2","displayName":{"text":"Tatiana"},"formattedAddress":"3152 Brighton 6th St, Brooklyn, NY",
  "location":{"latitude":40.5763,"longitude":-73.9614},"rating":4.3,"userRatingCount":2100,
  "googleMapsUri":"https://maps.google.com/?cid=2",
  "reviews":[
   {"rating":5,"text":{"text":"Great show and food"},"authorAttribution":{"displayName":"Ann"},"publishTime":"2024-03-02T10:00:00Z"},
   {"rating":4,"text":{"text":"  "},"authorAttribution":{"displayName":"Blank"}},
   {"rating":3,"text":{"text":"Loud"},"authorAttribution":{"displayName":"Bo"},"publishTime":"2024-01-09T08:00:00Z"},
   {"rating":4,"text":{"text":"Solid"},"authorAttribution":{"displayName":"Cy"}}
  ]}
]}`

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := places.New("key", " ", ""); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestTimeoutLeavesInjectedClientAlone(t *testing.T) {
	shared := &http.Client{Timeout: 30 * time.Second}
	orders := map[string][]places.Option{
		"timeout last":  {places.WithHTTPClient(shared), places.WithTimeout(time.Second)},
		"timeout first": {places.WithTimeout(time.Second), places.WithHTTPClient(shared)},
	}
	for name, opts := range orders {
		if _, err := places.New("key", "https://places.example", "", opts...); err != nil {
			t.Fatalf("%s: New: %v", name, err)
		}
		if shared.Timeout != 30*time.Second {
			t.Fatalf("%s: shared client timeout changed to %v", name, shared.Timeout)
		}
	}
}

func TestSearchPicksClosestName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/places:searchText" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Goog-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("X-Goog-FieldMask") == "" {
			t.Errorf("missing field mask")
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["textQuery"] != "Tatiana New York" || body["languageCode"] != "en" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	t.Cleanup(server.Close)

	client, err := places.New("key", server.URL+"/", "en", places.WithMaxSnippets(2))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := client.Search(context.Background(), "Tatiana", "New York")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res == nil || res.ID != "p-2" || res.Rating != 4.3 || res.ReviewCount != 2100 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Coordinates == nil || res.Coordinates.Lat != 40.5763 {
		t.Fatalf("coordinates missing: %+v", res.Coordinates)
	}
	if len(res.Snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %+v", res.Snippets)
	}
	first := res.Snippets[0]
	if first.Source != catalog.ProviderGooglePlaces || first.Author != "Ann" || first.Date != "2024-03-02" {
		t.Fatalf("unexpected snippet %+v", first)
	}
	if res.Snippets[1].Text != "Loud" {
		t.Fatalf("blank reviews should be skipped, got %+v", res.Snippets[1])
	}
}

func TestSearchNoCandidateAboveFloor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"places":[{"id":"p-9","displayName":{"text":"Unrelated Diner"},"rating":4}]}`))
	}))
	t.Cleanup(server.Close)

	client, _ := places.New("key", server.URL, "")
	res, err := client.Search(context.Background(), "Lucali", "New York")
	if err != nil || res != nil {
		t.Fatalf("expected no result, got %+v, %v", res, err)
	}
}

func TestSearchEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client, _ := places.New("key", server.URL, "")
	res, err := client.Search(context.Background(), "Lucali", "")
	if err != nil || res != nil {
		t.Fatalf("expected no result, got %+v, %v", res, err)
	}
}

func TestSearchErrors(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"non-200": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"places": [`))
		},
	}
	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			t.Cleanup(server.Close)
			client, _ := places.New("key", server.URL, "")
			if _, err := client.Search(context.Background(), "Tatiana", "New York"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDisabledClientSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)

	client, err := places.New("", server.URL, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.Enabled() {
		t.Fatal("client without key must be disabled")
	}
	res, err := client.Search(context.Background(), "Tatiana", "New York")
	if res != nil || err != nil || hits.Load() != 0 {
		t.Fatalf("disabled client touched network: res=%v err=%v hits=%d", res, err, hits.Load())
	}
}
