package resilience

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// LimiterRegistry holds one token-bucket limiter per provider so that all
// workers share a single budget per upstream API. Providers without an
// explicit limit fall back to the default limiter.
type LimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	fallback *rate.Limiter
}

// NewLimiterRegistry creates a registry with the given default rate for
// providers that have no explicit entry.
func NewLimiterRegistry(defaultRate rate.Limit, defaultBurst int) *LimiterRegistry {
	return &LimiterRegistry{
		limiters: make(map[string]*rate.Limiter),
		fallback: rate.NewLimiter(defaultRate, defaultBurst),
	}
}

// Set installs a dedicated limiter for a provider, replacing any previous one.
func (r *LimiterRegistry) Set(provider string, limit rate.Limit, burst int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limiters[provider] = rate.NewLimiter(limit, burst)
}

// Wait blocks until the provider's limiter grants a token or ctx is done.
func (r *LimiterRegistry) Wait(ctx context.Context, provider string) error {
	return r.limiterFor(provider).Wait(ctx)
}

// Allow reports whether a token is immediately available without blocking.
func (r *LimiterRegistry) Allow(provider string) bool {
	return r.limiterFor(provider).Allow()
}

// Limiter returns the provider's limiter for callers that inject it into a
// client directly. Shared: waiting on it counts against the same budget.
func (r *LimiterRegistry) Limiter(provider string) *rate.Limiter {
	return r.limiterFor(provider)
}

func (r *LimiterRegistry) limiterFor(provider string) *rate.Limiter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.limiters[provider]; ok {
		return l
	}
	return r.fallback
}
