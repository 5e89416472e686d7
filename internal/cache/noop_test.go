package cache

import (
	"context"
	"testing"
	"time"
)

// TestNoOpCache verifies that NoOpCache implements the Cache interface correctly
func TestNoOpCache(t *testing.T) {
	var cache Cache = NewNoOpCache()
	ctx := context.Background()

	// GetPages should always return nil (cache miss)
	pages, err := cache.GetPages(ctx, "test-key")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if pages != nil {
		t.Errorf("Expected nil pages (cache miss), got %v", pages)
	}

	if err := cache.SetPages(ctx, "test-key", []string{"page one", "page two"}, time.Hour); err != nil {
		t.Errorf("Expected no error on SetPages, got %v", err)
	}

	// Still a miss: nothing was actually cached
	pages, err = cache.GetPages(ctx, "test-key")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if pages != nil {
		t.Errorf("Expected nil pages (no-op cache doesn't store), got %v", pages)
	}

	if err := cache.Close(); err != nil {
		t.Errorf("Expected no error on Close, got %v", err)
	}
}
