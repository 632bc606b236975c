package cache

import (
	"context"
	"sync"

	"github.com/sells-group/enrich-cli/internal/model"
)

// MemoryCache is the in-process backend, used by default and in tests.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*model.EnrichedBusiness
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*model.EnrichedBusiness)}
}

func (c *MemoryCache) Get(_ context.Context, dedupKey string) (*model.EnrichedBusiness, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if b, ok := c.entries[dedupKey]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (c *MemoryCache) Put(_ context.Context, dedupKey string, b *model.EnrichedBusiness) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *b
	c.entries[dedupKey] = &cp
	return nil
}

func (c *MemoryCache) Count(_ context.Context) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int64(len(c.entries)), nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*model.EnrichedBusiness)
	return nil
}

func (c *MemoryCache) Close() error { return nil }

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
