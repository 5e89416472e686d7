package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"doc-pager/internal/paginator"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetenv(t,
		"PORT", "LOG_LEVEL", "MAX_UPLOAD_SIZE", "STORE_PROVIDER", "QUEUE_PROVIDER", "CACHE_PROVIDER",
		"CACHE_TTL", "LLM_PROVIDER", "LLM_MODEL",
		"PAGE_MAX_LENGTH", "PAGE_ORPHAN_LENGTH", "PAGE_WIDOW_LENGTH",
	)

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"MaxUploadSize", cfg.MaxUploadSize, int64(10485760)},
		{"StoreProvider", cfg.StoreProvider, "postgres"},
		{"QueueProvider", cfg.QueueProvider, "nats"},
		{"CacheProvider", cfg.CacheProvider, "redis"},
		{"CacheTTL", cfg.CacheTTL, 3600},
		{"LLMProvider", cfg.LLMProvider, "openai"},
		{"LLMModel", cfg.LLMModel, "gpt-4o-mini"},
		{"PageMaxLength", cfg.PageMaxLength, 500},
		{"PageOrphanLength", cfg.PageOrphanLength, 30},
		{"PageWidowLength", cfg.PageWidowLength, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PAGE_MAX_LENGTH", "1200")
	t.Setenv("PAGE_WIDOW_LENGTH", "45")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1200, cfg.PageMaxLength)
	assert.Equal(t, 45, cfg.PageWidowLength)
}

func TestPagination(t *testing.T) {
	cfg := Config{PageMaxLength: 800, PageOrphanLength: 20, PageWidowLength: 40}

	assert.Equal(t, paginator.Config{MaxPageLength: 800, OrphanLength: 20, WidowLength: 40}, cfg.Pagination())
}

func TestPaginationDefaultsAreValid(t *testing.T) {
	unsetenv(t, "PAGE_MAX_LENGTH", "PAGE_ORPHAN_LENGTH", "PAGE_WIDOW_LENGTH")

	assert.Equal(t, paginator.DefaultConfig(), Load().Pagination())
}
