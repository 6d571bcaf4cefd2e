package cache

import (
	"context"
	"sync"

	"conferencecentral/internal/domain"
)

type memoryCache struct {
	mu    sync.RWMutex
	store map[string]string
}

// NewMemoryCache returns an in-process Cache for development and tests.
// Values do not survive restarts and are not shared between instances.
func NewMemoryCache() domain.Cache {
	return &memoryCache{store: make(map[string]string)}
}

func (c *memoryCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store[key], nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}
