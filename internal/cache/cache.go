package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"doc-pager/internal/paginator"
)

// Cache stores pagination results keyed by text and configuration.
type Cache interface {
	// GetPages retrieves cached pages by key.
	// Returns nil if not found
	GetPages(ctx context.Context, key string) ([]string, error)

	// SetPages stores pages with TTL
	SetPages(ctx context.Context, key string, pages []string, ttl time.Duration) error

	// Close closes the cache connection
	Close() error
}

// GenerateCacheKey hashes the thresholds and the text. Identical input
// always paginates identically, so the key fully determines the result.
func GenerateCacheKey(text string, cfg paginator.Config) string {
	h := sha256.New()
	for _, n := range []int{cfg.MaxPageLength, cfg.OrphanLength, cfg.WidowLength} {
		h.Write([]byte(strconv.Itoa(n)))
		h.Write([]byte{0})
	}
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
