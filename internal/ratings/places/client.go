// Package places queries the Google Places Text Search API.
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"foodreel/internal/catalog"
	"foodreel/internal/ratings"
)

// DefaultBaseURL is the public Places API (New) endpoint.
const DefaultBaseURL = "https://places.googleapis.com/v1"

const fieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
	"places.rating,places.userRatingCount,places.googleMapsUri,places.reviews"

// Place is the subset of a Places API place the client reads.
type Place struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string `json:"formattedAddress"`
	Location         *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Rating          float64  `json:"rating"`
	UserRatingCount int      `json:"userRatingCount"`
	GoogleMapsURI   string   `json:"googleMapsUri"`
	Reviews         []Review `json:"reviews"`
}

// Review is one Places review.
type Review struct {
	Rating float64 `json:"rating"`
	Text   struct {
		Text string `json:"text"`
	} `json:"text"`
	AuthorAttribution struct {
		DisplayName string `json:"displayName"`
	} `json:"authorAttribution"`
	PublishTime string `json:"publishTime"`
}

// SearchResponse models the searchText payload.
type SearchResponse struct {
	Places []Place `json:"places"`
}

type searchRequest struct {
	TextQuery    string `json:"textQuery"`
	LanguageCode string `json:"languageCode,omitempty"`
	PageSize     int    `json:"pageSize"`
}

// Client implements ratings.Provider against Google Places.
type Client struct {
	apiKey        string
	baseURL       string
	language      string
	maxSnippets   int
	minSimilarity float64
	pageSize      int
	timeout       time.Duration
	httpClient    *http.Client
}

var _ ratings.Provider = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the client built by New. It has
// no effect when WithHTTPClient supplies the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxSnippets caps the review snippets kept per result.
func WithMaxSnippets(n int) Option {
	return func(c *Client) { c.maxSnippets = n }
}

// WithMinSimilarity sets the name-similarity floor for accepting a candidate.
func WithMinSimilarity(floor float64) Option {
	return func(c *Client) { c.minSimilarity = floor }
}

// New creates a Places client. An empty apiKey yields a disabled client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("google places base url required")
	}
	client := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		baseURL:       strings.TrimRight(baseURL, "/"),
		language:      strings.TrimSpace(language),
		maxSnippets:   3,
		minSimilarity: 0.3,
		pageSize:      5,
		timeout:       10 * time.Second,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: client.timeout}
	}
	return client, nil
}

// Name implements ratings.Provider.
func (c *Client) Name() string { return catalog.ProviderGooglePlaces }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c != nil && c.apiKey != "" }

// Search looks up name in city and returns the closest-named place.
func (c *Client) Search(ctx context.Context, name, city string) (*ratings.Result, error) {
	if !c.Enabled() {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ratings.ErrNotQueried
	}
	resp, err := c.SearchText(ctx, strings.TrimSpace(name+" "+strings.TrimSpace(city)))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Places))
	for i, place := range resp.Places {
		names[i] = place.DisplayName.Text
	}
	idx, _ := ratings.BestMatch(name, names, c.minSimilarity)
	if idx < 0 {
		return nil, nil
	}
	return c.toResult(resp.Places[idx]), nil
}

// SearchText issues one searchText request.
func (c *Client) SearchText(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	body, err := json.Marshal(searchRequest{TextQuery: query, LanguageCode: c.language, PageSize: c.pageSize})
	if err != nil {
		return nil, fmt.Errorf("encode places request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/places:searchText", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	return &payload, nil
}

func (c *Client) toResult(place Place) *ratings.Result {
	result := &ratings.Result{
		Rating:      place.Rating,
		ReviewCount: place.UserRatingCount,
		ID:          place.ID,
		URL:         place.GoogleMapsURI,
		Address:     strings.TrimSpace(place.FormattedAddress),
	}
	if place.Location != nil {
		result.Coordinates = &catalog.Coordinates{Lat: place.Location.Latitude, Lng: place.Location.Longitude}
	}
	snippets := make([]catalog.Snippet, 0, len(place.Reviews))
	for _, review := range place.Reviews {
		text := strings.TrimSpace(review.Text.Text)
		if text == "" {
			continue
		}
		snippets = append(snippets, catalog.Snippet{
			Source: catalog.ProviderGooglePlaces,
			Author: strings.TrimSpace(review.AuthorAttribution.DisplayName),
			Rating: review.Rating,
			Text:   text,
			Date:   datePrefix(review.PublishTime),
		})
	}
	result.Snippets = ratings.TrimSnippets(snippets, c.maxSnippets)
	return result
}

func datePrefix(timestamp string) string {
	timestamp = strings.TrimSpace(timestamp)
	if len(timestamp) >= 10 {
		return timestamp[:10]
	}
	return timestamp
}
