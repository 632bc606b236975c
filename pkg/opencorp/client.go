// Package opencorp provides a client for the OpenCorporates company search
// API, used to resolve a business's registered legal identity.
package opencorp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

// Client defines the company-registry operations used for legal identity.
type Client interface {
	// SearchCompanies looks up registered companies by name, optionally
	// restricted to a US state jurisdiction (two-letter code). No matches
	// returns an empty list, not an error.
	SearchCompanies(ctx context.Context, name, stateCode string) (*SearchResponse, error)
}

// SearchResponse is the parsed company-search response.
type SearchResponse struct {
	Results SearchResults `json:"results"`
}

// SearchResults holds the company hits nested under "results".
type SearchResults struct {
	Companies []CompanyWrapper `json:"companies"`
}

// CompanyWrapper matches the API's nesting of each hit under "company".
type CompanyWrapper struct {
	Company Company `json:"company"`
}

// Company is a registered legal entity.
type Company struct {
	Name              string `json:"name"`
	CompanyNumber     string `json:"company_number"`
	JurisdictionCode  string `json:"jurisdiction_code"`
	IncorporationDate string `json:"incorporation_date"`
	CompanyType       string `json:"company_type"`
	CurrentStatus     string `json:"current_status"`
}

// Option configures the client.
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
	apiToken string
	baseURL  string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a new OpenCorporates client. The token may be empty;
// unauthenticated requests get a lower rate limit.
func NewClient(apiToken string, opts ...Option) Client {
	c := &httpClient{
		apiToken: apiToken,
		baseURL:  "https://api.opencorporates.com/v0.4",
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

func (c *httpClient) SearchCompanies(ctx context.Context, name, stateCode string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", name)
	params.Set("order", "score")
	if stateCode != "" {
		params.Set("jurisdiction_code", "us_"+strings.ToLower(stateCode))
	}
	if c.apiToken != "" {
		params.Set("api_token", c.apiToken)
	}

	reqURL := fmt.Sprintf("%s/companies/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "opencorp: create request")
	}

	body, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "opencorp: search companies")
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "opencorp: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("opencorp", req.URL.Path)

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
			return nil, eris.Wrap(readErr, "opencorp: read response body")
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &resilience.RateLimitError{Provider: "opencorp"}
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return nil, resilience.NewTransientError(eris.Errorf("opencorp: status %d: %s", resp.StatusCode, string(body)), resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return nil, &resilience.UnavailableError{Provider: "opencorp", Err: eris.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))}
		}
		return body, nil
	})
}
