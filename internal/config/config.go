package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"

	"doc-pager/internal/paginator"
)

// Config holds runtime configuration shared by the gateway and the workers.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Store
	StoreProvider string `env:"STORE_PROVIDER" envDefault:"postgres"`
	DBURL         string `env:"DB_URL"`

	// Queue
	QueueProvider string `env:"QUEUE_PROVIDER" envDefault:"nats"`
	QueueURL      string `env:"QUEUE_URL"`

	// Cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"redis"` // "redis" or "none"
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// LLM
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey   string `env:"OPENAI_API_KEY"`
	LLMModel    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	// Pagination defaults, used when a request does not override them.
	PageMaxLength    int `env:"PAGE_MAX_LENGTH" envDefault:"500"`
	PageOrphanLength int `env:"PAGE_ORPHAN_LENGTH" envDefault:"30"`
	PageWidowLength  int `env:"PAGE_WIDOW_LENGTH" envDefault:"30"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Pagination returns the default pagination thresholds. The result is not
// validated; callers go through paginator.New.
func (c Config) Pagination() paginator.Config {
	return paginator.Config{
		MaxPageLength: c.PageMaxLength,
		OrphanLength:  c.PageOrphanLength,
		WidowLength:   c.PageWidowLength,
	}
}
