// Package hunter provides a client for the Hunter.io domain-search API,
// the primary email discovery provider.
package hunter

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

// Client defines the Hunter operations used by the email waterfall.
type Client interface {
	// DomainSearch lists email addresses found for a domain. A domain with
	// no known emails returns an empty list, not an error.
	DomainSearch(ctx context.Context, domain string, opts ...SearchOption) (*DomainSearchResponse, error)
}

// DomainSearchResponse is the parsed domain-search response.
type DomainSearchResponse struct {
	Data DomainData `json:"data"`
}

// DomainData holds the emails found for a domain.
type DomainData struct {
	Domain       string  `json:"domain"`
	Organization string  `json:"organization"`
	AcceptAll    bool    `json:"accept_all"`
	Emails       []Email `json:"emails"`
}

// Email is a single discovered address. Type is "personal" or "generic".
type Email struct {
	Value      string `json:"value"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
}

// SearchOption configures a domain search.
type SearchOption func(*searchOpts)

type searchOpts struct {
	limit int
}

// WithLimit caps the number of emails returned.
func WithLimit(n int) SearchOption {
	return func(o *searchOpts) {
		o.limit = n
	}
}

// Option configures the Hunter client.
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

// NewClient creates a new Hunter client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.hunter.io/v2",
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

func (c *httpClient) DomainSearch(ctx context.Context, domain string, opts ...SearchOption) (*DomainSearchResponse, error) {
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", c.apiKey)
	if so.limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", so.limit))
	}

	reqURL := fmt.Sprintf("%s/domain-search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: create request")
	}

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: domain search")
	}

	// Hunter returns 403 with an "usage limit" error body once the monthly
	// quota is exhausted.
	if statusCode == http.StatusForbidden {
		return nil, &resilience.QuotaError{Provider: "hunter"}
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("hunter: unexpected status %d: %s", statusCode, string(body))
	}

	var result DomainSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("hunter", req.URL.Path)

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
			return nil, eris.Wrap(readErr, "hunter: read response body")
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &resilience.RateLimitError{Provider: "hunter"}
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return nil, resilience.NewTransientError(eris.Errorf("hunter: status %d: %s", resp.StatusCode, string(body)), resp.StatusCode)
		}
		return body, nil
	})
	return body, status, err
}
