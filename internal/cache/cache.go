// Package cache persists enrichment results keyed by dedup key, so repeat
// runs and duplicate rows skip provider calls entirely.
package cache

import (
	"context"

	"github.com/sells-group/enrich-cli/internal/model"
)

// Cache is the dedup-key store consulted before and written after each
// enrichment unit. Get returns (nil, nil) on a miss; Put overwrites,
// last write wins.
type Cache interface {
	Get(ctx context.Context, dedupKey string) (*model.EnrichedBusiness, error)
	Put(ctx context.Context, dedupKey string, b *model.EnrichedBusiness) error
	// Count reports the number of cached entries.
	Count(ctx context.Context) (int64, error)
	// Clear removes every cached entry.
	Clear(ctx context.Context) error
	Close() error
}
