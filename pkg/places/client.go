// Package places provides a client for the Google Places API, used to look
// up business listings by free-text query.
package places

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

// Client defines the Places operations used by the enrichment pipeline.
type Client interface {
	// FindPlace resolves a free-text query to candidate place listings.
	// A query with no matches returns an empty candidate list, not an error.
	FindPlace(ctx context.Context, query string, opts ...FindOption) (*FindResponse, error)
	// Details fetches the contact fields for a place ID.
	Details(ctx context.Context, placeID string) (*DetailsResponse, error)
}

// FindResponse is the parsed find-place response.
type FindResponse struct {
	Status     string      `json:"status"`
	Candidates []Candidate `json:"candidates"`
}

// Candidate is a single place match.
type Candidate struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}

// DetailsResponse is the parsed place-details response.
type DetailsResponse struct {
	Status string  `json:"status"`
	Result Details `json:"result"`
}

// Details holds the contact fields requested for a place.
type Details struct {
	PlaceID              string `json:"place_id"`
	Name                 string `json:"name"`
	FormattedAddress     string `json:"formatted_address"`
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
	BusinessStatus       string `json:"business_status"`
}

// FindOption configures a find-place request.
type FindOption func(*findOpts)

type findOpts struct {
	locationBias string
}

// WithLocationBias biases results toward a region, e.g. "region:us" or a
// circle string.
func WithLocationBias(bias string) FindOption {
	return func(o *findOpts) {
		o.locationBias = bias
	}
}

// Option configures the Places client.
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

// WithLimiter installs a shared rate limiter; all calls wait on it before
// hitting the API.
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

// NewClient creates a new Places client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api/place",
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

// retryDo executes a GET with up to two retries on transient failures.
// A 429 is returned immediately as a RateLimitError and never retried.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("places", req.URL.Path)

	return resilience.DoVal(ctx, cfg, func(ctx context.Context) ([]byte, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return nil, resilience.NewTransientError(err, 0)
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, eris.Wrap(readErr, "places: read response body")
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &resilience.RateLimitError{Provider: "places"}
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return nil, resilience.NewTransientError(eris.Errorf("places: status %d: %s", resp.StatusCode, string(body)), resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, &resilience.UnavailableError{Provider: "places", Err: eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
		}
		return body, nil
	})
}

func (c *httpClient) FindPlace(ctx context.Context, query string, opts ...FindOption) (*FindResponse, error) {
	fo := &findOpts{}
	for _, opt := range opts {
		opt(fo)
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", "place_id,name,formatted_address")
	params.Set("key", c.apiKey)
	if fo.locationBias != "" {
		params.Set("locationbias", fo.locationBias)
	}

	reqURL := fmt.Sprintf("%s/findplacefromtext/json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create request")
	}

	body, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "places: find place")
	}

	var result FindResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal response")
	}

	switch result.Status {
	case "OK", "ZERO_RESULTS":
		return &result, nil
	case "OVER_QUERY_LIMIT":
		return nil, &resilience.RateLimitError{Provider: "places"}
	default:
		return nil, eris.Errorf("places: api status %s", result.Status)
	}
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*DetailsResponse, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "place_id,name,formatted_address,formatted_phone_number,website,business_status")
	params.Set("key", c.apiKey)

	reqURL := fmt.Sprintf("%s/details/json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "places: create details request")
	}

	body, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "places: details")
	}

	var result DetailsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "places: unmarshal details response")
	}

	switch result.Status {
	case "OK", "ZERO_RESULTS", "NOT_FOUND":
		return &result, nil
	case "OVER_QUERY_LIMIT":
		return nil, &resilience.RateLimitError{Provider: "places"}
	default:
		return nil, eris.Errorf("places: api status %s", result.Status)
	}
}
