package resilience

import (
	"errors"
	"sync"
)

// HealthTracker marks providers out of rotation for the remainder of a run.
// A rate-limit or quota error sidelines the provider immediately; transient
// failures sideline it only after FailureThreshold consecutive misses, and a
// single success clears the streak.
type HealthTracker struct {
	mu               sync.Mutex
	failureThreshold int
	exhausted        map[string]bool
	failures         map[string]int
}

// NewHealthTracker creates a tracker that sidelines a provider after
// failureThreshold consecutive transient failures. A threshold of zero or
// less disables failure-based sidelining; rate limits still count.
func NewHealthTracker(failureThreshold int) *HealthTracker {
	return &HealthTracker{
		failureThreshold: failureThreshold,
		exhausted:        make(map[string]bool),
		failures:         make(map[string]int),
	}
}

// Available reports whether the provider should still be called this run.
func (h *HealthTracker) Available(provider string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.exhausted[provider]
}

// Record updates the provider's health from a call result.
func (h *HealthTracker) Record(provider string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err == nil {
		h.failures[provider] = 0
		return
	}

	var qe *QuotaError
	if IsRateLimited(err) || errors.As(err, &qe) {
		h.exhausted[provider] = true
		return
	}

	if h.failureThreshold <= 0 {
		return
	}
	h.failures[provider]++
	if h.failures[provider] >= h.failureThreshold {
		h.exhausted[provider] = true
	}
}

// Exhausted returns the providers currently sidelined, for run reporting.
func (h *HealthTracker) Exhausted() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for p, ex := range h.exhausted {
		if ex {
			out = append(out, p)
		}
	}
	return out
}
