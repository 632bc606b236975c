// Package snov provides a client for the Snov.io email finder API, the
// secondary email provider behind Hunter in the waterfall.
package snov

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

// Client defines the Snov operations used by the email waterfall.
type Client interface {
	// DomainEmails lists addresses known for a domain. No matches returns
	// an empty list, not an error.
	DomainEmails(ctx context.Context, domain string) (*DomainEmailsResponse, error)
}

// DomainEmailsResponse is the parsed domain-emails response.
type DomainEmailsResponse struct {
	Success bool    `json:"success"`
	Domain  string  `json:"domain"`
	Emails  []Email `json:"emails"`
}

// Email is a single address record. Type is "personal" or "generic".
type Email struct {
	Email    string `json:"email"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Position string `json:"position"`
}

// Option configures the Snov client.
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
	clientID     string
	clientSecret string
	baseURL      string
	http         *http.Client
	limiter      *rate.Limiter

	token string
}

// NewClient creates a new Snov client with OAuth client credentials.
func NewClient(clientID, clientSecret string, opts ...Option) Client {
	c := &httpClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      "https://api.snov.io",
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

// authenticate exchanges client credentials for an access token. The token
// is cached for the lifetime of the client; Snov tokens last one hour,
// longer than any single run.
func (c *httpClient) authenticate(ctx context.Context) error {
	if c.token != "" {
		return nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	const tokenPath = "/v1/oauth/access_token"
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("snov", tokenPath)

	// The form body is consumed per attempt, so the request is rebuilt
	// inside the retry loop.
	var body []byte
	err := resilience.Do(ctx, cfg, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+tokenPath, strings.NewReader(form.Encode()))
		if err != nil {
			return eris.Wrap(err, "snov: create auth request")
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			return resilience.NewTransientError(err, 0)
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return eris.Wrap(err, "snov: read auth response")
		}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return resilience.NewTransientError(eris.Errorf("snov: auth status %d: %s", resp.StatusCode, string(body)), resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return eris.Errorf("snov: auth status %d: %s", resp.StatusCode, string(body))
		}
		return nil
	})
	if err != nil {
		return err
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return eris.Wrap(err, "snov: unmarshal auth response")
	}
	if tok.AccessToken == "" {
		return eris.New("snov: empty access token")
	}
	c.token = tok.AccessToken
	return nil
}

func (c *httpClient) DomainEmails(ctx context.Context, domain string) (*DomainEmailsResponse, error) {
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("type", "all")
	params.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/domain-emails-with-info?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "snov: create request")
	}

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "snov: domain emails")
	}
	if statusCode == http.StatusPaymentRequired {
		return nil, &resilience.QuotaError{Provider: "snov"}
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("snov: unexpected status %d: %s", statusCode, string(body))
	}

	var result DomainEmailsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "snov: unmarshal response")
	}
	return &result, nil
}

func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("snov", req.URL.Path)

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
			return nil, eris.Wrap(readErr, "snov: read response body")
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, &resilience.RateLimitError{Provider: "snov"}
		case resilience.IsTransientHTTPStatus(resp.StatusCode):
			return nil, resilience.NewTransientError(eris.Errorf("snov: status %d: %s", resp.StatusCode, string(body)), resp.StatusCode)
		}
		return body, nil
	})
	return body, status, err
}
