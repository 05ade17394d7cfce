// Package yelp queries the Yelp Fusion business search and reviews APIs.
package yelp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"foodreel/internal/catalog"
	"foodreel/internal/logging"
	"foodreel/internal/ratings"
)

// DefaultBaseURL is the public Yelp Fusion endpoint.
const DefaultBaseURL = "https://api.yelp.com/v3"

// Business is the subset of a Yelp business the client reads.
type Business struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Coordinates *struct {
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"coordinates"`
	Location struct {
		DisplayAddress []string `json:"display_address"`
	} `json:"location"`
}

// SearchResponse models /businesses/search.
type SearchResponse struct {
	Businesses []Business `json:"businesses"`
	Total      int        `json:"total"`
}

// Review is one Yelp review excerpt.
type Review struct {
	Text        string  `json:"text"`
	Rating      float64 `json:"rating"`
	TimeCreated string  `json:"time_created"`
	User        struct {
		Name string `json:"name"`
	} `json:"user"`
}

// ReviewsResponse models /businesses/{id}/reviews.
type ReviewsResponse struct {
	Reviews []Review `json:"reviews"`
}

// Client implements ratings.Provider against Yelp Fusion.
type Client struct {
	apiKey        string
	baseURL       string
	maxSnippets   int
	minSimilarity float64
	limit         int
	timeout       time.Duration
	httpClient    *http.Client
	logger        *slog.Logger
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

// WithMaxSnippets caps the review snippets kept per result. Zero skips the
// reviews request entirely.
func WithMaxSnippets(n int) Option {
	return func(c *Client) { c.maxSnippets = n }
}

// WithMinSimilarity sets the name-similarity floor for accepting a candidate.
func WithMinSimilarity(floor float64) Option {
	return func(c *Client) { c.minSimilarity = floor }
}

// WithLogger sets the logger used for best-effort review failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Yelp client. An empty apiKey yields a disabled client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("yelp base url required")
	}
	client := &Client{
		apiKey:        strings.TrimSpace(apiKey),
		baseURL:       strings.TrimRight(baseURL, "/"),
		maxSnippets:   3,
		minSimilarity: 0.3,
		limit:         5,
		timeout:       10 * time.Second,
		logger:        logging.NewNop(),
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
func (c *Client) Name() string { return catalog.ProviderYelp }

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c != nil && c.apiKey != "" }

// Search looks up name near city. Yelp requires a location, so queries
// without a city are declined locally.
func (c *Client) Search(ctx context.Context, name, city string) (*ratings.Result, error) {
	if !c.Enabled() {
		return nil, nil
	}
	name = strings.TrimSpace(name)
	city = strings.TrimSpace(city)
	if name == "" || city == "" {
		return nil, ratings.ErrNotQueried
	}

	resp, err := c.SearchBusinesses(ctx, name, city)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Businesses))
	for i, business := range resp.Businesses {
		names[i] = business.Name
	}
	idx, _ := ratings.BestMatch(name, names, c.minSimilarity)
	if idx < 0 {
		return nil, nil
	}
	business := resp.Businesses[idx]
	result := toResult(business)

	if c.maxSnippets != 0 && business.ID != "" {
		reviews, err := c.Reviews(ctx, business.ID)
		if err != nil {
			logging.WarnWithContext(logging.WithContext(ctx, c.logger), "yelp reviews unavailable", "yelp_reviews_failed",
				logging.String("business_id", business.ID),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "rating kept; snippets retried on a later run"),
				logging.String(logging.FieldImpact, "restaurant has no yelp snippets"),
			)
		} else {
			result.Snippets = ratings.TrimSnippets(toSnippets(reviews.Reviews), c.maxSnippets)
		}
	}
	return result, nil
}

// SearchBusinesses issues one /businesses/search request.
func (c *Client) SearchBusinesses(ctx context.Context, term, location string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("location", location)
	params.Set("limit", strconv.Itoa(c.limit))
	var payload SearchResponse
	if err := c.get(ctx, "/businesses/search", params, "yelp search", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Reviews fetches the review excerpts for a business.
func (c *Client) Reviews(ctx context.Context, businessID string) (*ReviewsResponse, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return nil, errors.New("business id must not be empty")
	}
	var payload ReviewsResponse
	path := "/businesses/" + url.PathEscape(businessID) + "/reviews"
	if err := c.get(ctx, path, nil, "yelp reviews", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, label string, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse yelp url: %w", err)
	}
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d (latency=%v)", label, resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", label, err)
	}
	return nil
}

func toResult(business Business) *ratings.Result {
	result := &ratings.Result{
		Rating:      business.Rating,
		ReviewCount: business.ReviewCount,
		ID:          business.ID,
		URL:         business.URL,
		Address:     strings.TrimSpace(strings.Join(business.Location.DisplayAddress, ", ")),
	}
	if coords := business.Coordinates; coords != nil && coords.Latitude != nil && coords.Longitude != nil {
		result.Coordinates = &catalog.Coordinates{Lat: *coords.Latitude, Lng: *coords.Longitude}
	}
	return result
}

func toSnippets(reviews []Review) []catalog.Snippet {
	snippets := make([]catalog.Snippet, 0, len(reviews))
	for _, review := range reviews {
		text := strings.TrimSpace(review.Text)
		if text == "" {
			continue
		}
		date := strings.TrimSpace(review.TimeCreated)
		if len(date) >= 10 {
			date = date[:10]
		}
		snippets = append(snippets, catalog.Snippet{
			Source: catalog.ProviderYelp,
			Author: strings.TrimSpace(review.User.Name),
			Rating: review.Rating,
			Text:   text,
			Date:   date,
		})
	}
	return snippets
}
