package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/enrich-cli/internal/resilience"
)

// maxPageBytes caps how much of a page body is read. Contact pages are
// small; anything larger is truncated, not rejected.
const maxPageBytes = 2 << 20

// HTTPOptions configures the HTTP page fetcher.
type HTTPOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// HostRate limits requests per second against any single host.
	HostRate  rate.Limit
	HostBurst int
}

// HTTPFetcher implements Fetcher using net/http. Every host gets its own
// adaptive limiter so one slow or throttling site cannot starve the rest of
// a discovery round.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*AdaptiveLimiter
}

// NewHTTPFetcher creates a page fetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 2
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "enrich-cli/1.0"
	}
	if opts.HostRate == 0 {
		opts.HostRate = 2
	}
	if opts.HostBurst == 0 {
		opts.HostBurst = 2
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				MaxConnsPerHost:     20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:     opts,
		limiters: make(map[string]*AdaptiveLimiter),
	}
}

// Page fetches the URL and returns up to maxPageBytes of its body.
func (f *HTTPFetcher) Page(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	limiter := f.limiterFor(rawURL)

	cfg := resilience.RetryConfig{
		MaxAttempts:    f.opts.MaxRetries,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     10 * time.Second,
	}

	// Website 429s are throttles, not quota exhaustion: slow the host limiter
	// and retry, unlike provider API rate limits which surface immediately.
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (string, error) {
		if err := limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "fetcher: rate limiter wait")
		}

		resp, err := f.client.Do(req.Clone(ctx))
		if err != nil {
			return "", resilience.NewTransientError(err, 0)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			_ = resp.Body.Close()
			limiter.OnRateLimit()
			return "", resilience.NewTransientError(eris.Errorf("fetcher: 429 from %s", rawURL), resp.StatusCode)
		}

		if resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			zap.L().Debug("page fetch server error",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode))
			return "", resilience.NewTransientError(eris.Errorf("fetcher: %d from %s", resp.StatusCode, rawURL), resp.StatusCode)
		}

		if resp.StatusCode >= 400 {
			_ = resp.Body.Close()
			return "", eris.Errorf("fetcher: %d from %s", resp.StatusCode, rawURL)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
		_ = resp.Body.Close()
		if err != nil {
			return "", eris.Wrap(err, "fetcher: read body")
		}
		limiter.OnSuccess()
		return string(body), nil
	})
}

func (f *HTTPFetcher) limiterFor(rawURL string) *AdaptiveLimiter {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.limiters[host]; ok {
		return l
	}
	l := NewAdaptiveLimiter(f.opts.HostRate, f.opts.HostBurst)
	f.limiters[host] = l
	return l
}
