// Package cache holds the in-memory query cache the list views read. Cache
// entries are lists of persisted artifacts keyed by resource, group and
// subject; the commit pipeline appends to them on success.
package cache

import (
	"context"
	"sync"

	"github.com/gabigoranov/Study-Platform-sub000/application/ports"
	"github.com/gabigoranov/Study-Platform-sub000/pkg/observability"
)

// InMemoryQueryCache implements ports.QueryCache. A single RWMutex guards
// the map; every write replaces the slice it touches, so readers holding a
// previously returned slice never observe a mutation. Writes to the same key
// are serialized by the lock.
type InMemoryQueryCache struct {
	mu      sync.RWMutex
	entries map[ports.CacheKey][]ports.Artifact
	metrics *observability.Collector
}

// NewInMemoryQueryCache creates an empty query cache
func NewInMemoryQueryCache(metrics *observability.Collector) *InMemoryQueryCache {
	return &InMemoryQueryCache{
		entries: make(map[ports.CacheKey][]ports.Artifact),
		metrics: metrics,
	}
}

// Get returns a copy of the cached list for key
func (c *InMemoryQueryCache) Get(ctx context.Context, key ports.CacheKey) ([]ports.Artifact, bool) {
	c.mu.RLock()
	items, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.metrics.CacheMisses.Inc()
		return nil, false
	}
	c.metrics.CacheHits.Inc()

	out := make([]ports.Artifact, len(items))
	copy(out, items)
	return out, true
}

// Set replaces the list for key
func (c *InMemoryQueryCache) Set(ctx context.Context, key ports.CacheKey, items []ports.Artifact) {
	stored := make([]ports.Artifact, len(items))
	copy(stored, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = stored
}

// Append adds items to the end of the list for key, creating the entry if it
// does not exist yet. The previous slice is left untouched.
func (c *InMemoryQueryCache) Append(ctx context.Context, key ports.CacheKey, items ...ports.Artifact) {
	if len(items) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	existing := c.entries[key]
	next := make([]ports.Artifact, 0, len(existing)+len(items))
	next = append(next, existing...)
	next = append(next, items...)
	c.entries[key] = next
}

// Invalidate drops the entry for key
func (c *InMemoryQueryCache) Invalidate(ctx context.Context, key ports.CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of live entries
func (c *InMemoryQueryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
