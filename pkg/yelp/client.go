// Package yelp provides a client for the Yelp Fusion business search API,
// used as the directory fallback when the primary listing lookup misses.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

// Client defines the Yelp Fusion operations used by the enrichment pipeline.
type Client interface {
	// Search finds businesses matching a term near a location. No matches
	// returns an empty business list, not an error.
	Search(ctx context.Context, term, location string, opts ...SearchOption) (*SearchResponse, error)
	// Details fetches the full record for a business ID.
	Details(ctx context.Context, businessID string) (*Business, error)
}

// SearchResponse is the parsed business-search response.
type SearchResponse struct {
	Total      int        `json:"total"`
	Businesses []Business `json:"businesses"`
}

// Business is a single Yelp listing.
type Business struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Phone        string   `json:"phone"`
	DisplayPhone string   `json:"display_phone"`
	URL          string   `json:"url"`
	Location     Location `json:"location"`
}

// Location is the address block of a listing.
type Location struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	State          string   `json:"state"`
	ZipCode        string   `json:"zip_code"`
	DisplayAddress []string `json:"display_address"`
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	limit int
}

// WithLimit caps the number of businesses returned (Yelp default is 20).
func WithLimit(n int) SearchOption {
	return func(o *searchOpts) {
		o.limit = n
	}
}

// Option configures the Yelp client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter installs a shared rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a new Yelp Fusion client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.yelp.com/v3",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("yelp", req.URL.Path)

	// Non-transient statuses are not errors here. Callers inspect the status
	// themselves, so the closure passes it out alongside the body.
	status := 0
	body, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return nil, resilience.NewTransientError(err, 0)
		}
		status = resp.StatusCode

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, eris.Wrap(readErr, "yelp: read response body")
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &resilience.RateLimitError{Provider: "yelp"}
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return nil, resilience.NewTransientError(eris.Errorf("yelp: status %d: %s", resp.StatusCode, string(body)), resp.StatusCode)
		}
		return body, nil
	})
	return body, status, err
}

func (c *httpClient) Search(ctx context.Context, term, location string, opts ...SearchOption) (*SearchResponse, error) {
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("location", location)
	if so.limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", so.limit))
	}

	reqURL := fmt.Sprintf("%s/businesses/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: search")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("yelp: unexpected status %d: %s", statusCode, string(body))
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "yelp: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, businessID string) (*Business, error) {
	reqURL := fmt.Sprintf("%s/businesses/%s", c.baseURL, url.PathEscape(businessID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: create details request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "yelp: details")
	}
	if statusCode == http.StatusNotFound {
		return nil, nil
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("yelp: unexpected status %d: %s", statusCode, string(body))
	}

	var result Business
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "yelp: unmarshal details response")
	}
	return &result, nil
}
