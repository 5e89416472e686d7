package cache

import (
	"context"
	"time"
)

// NoOpCache is a cache implementation that does nothing.
// Used when CACHE_PROVIDER=none or Redis is unavailable: every lookup misses.
type NoOpCache struct{}

// NewNoOpCache creates a new no-op cache instance
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// GetPages always returns nil (cache miss)
func (c *NoOpCache) GetPages(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}

// SetPages does nothing and always succeeds
func (c *NoOpCache) SetPages(ctx context.Context, key string, pages []string, ttl time.Duration) error {
	return nil
}

// Close does nothing and always succeeds
func (c *NoOpCache) Close() error {
	return nil
}
