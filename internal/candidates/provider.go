// Package candidates turns provider listings into match candidates. Each
// provider adapts one upstream API; a lookup that finds nothing returns an
// empty slice so callers can fall through to the next provider.
package candidates

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Provider looks up business listings for a search name and region hint.
type Provider interface {
	// Name identifies the provider in logs, health tracking, and rate
	// limiter registration.
	Name() string
	// Lookup returns candidates for the search name, best match first.
	// No matches is ([]model.Candidate{}, nil), never an error.
	Lookup(ctx context.Context, searchName, region string) ([]model.Candidate, error)
}
