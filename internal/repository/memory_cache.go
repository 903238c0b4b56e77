package repository

import (
	"context"
	"sync"
	"time"

	"stockscout/internal/model"
)

// MemoryCache is a process-local summary cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]model.CacheEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]model.CacheEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, url string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[url]
	if !ok || !e.ExpiresAt.After(c.now()) {
		return "", false, nil
	}
	return e.Summary, true, nil
}

func (c *MemoryCache) Put(_ context.Context, url, summary string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[url] = model.CacheEntry{
		URL:       url,
		Summary:   summary,
		ExpiresAt: c.now().Add(ttlOrDefault(ttl)),
	}
	return nil
}

func (c *MemoryCache) EvictExpired(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var n int64
	for url, e := range c.entries {
		if e.ExpiresAt.Before(now) {
			delete(c.entries, url)
			n++
		}
	}
	return n, nil
}

func (c *MemoryCache) Entry(_ context.Context, url string) (*model.CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[url]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
