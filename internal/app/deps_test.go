package app

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-pager/internal/cache"
	"doc-pager/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildStoreValidation(t *testing.T) {
	_, _, err := buildStore(config.Config{StoreProvider: "postgres"}, discardLogger())
	assert.ErrorContains(t, err, "DB_URL is required")

	_, _, err = buildStore(config.Config{StoreProvider: "sqlite"}, discardLogger())
	assert.ErrorContains(t, err, "invalid STORE_PROVIDER")
}

func TestBuildQueueValidation(t *testing.T) {
	_, _, err := buildQueue(config.Config{QueueProvider: "nats"}, discardLogger())
	assert.ErrorContains(t, err, "QUEUE_URL is required")

	_, _, err = buildQueue(config.Config{QueueProvider: "kafka"}, discardLogger())
	assert.ErrorContains(t, err, "invalid QUEUE_PROVIDER")
}

func TestBuildLLMValidation(t *testing.T) {
	_, err := buildLLM(config.Config{LLMProvider: "openai"}, discardLogger())
	assert.ErrorContains(t, err, "OPENAI_API_KEY is required")

	_, err = buildLLM(config.Config{LLMProvider: "other"}, discardLogger())
	assert.ErrorContains(t, err, "invalid LLM_PROVIDER")

	client, err := buildLLM(config.Config{LLMProvider: "openai", OpenAIKey: "k", LLMModel: "gpt-4o-mini"}, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestBuildCacheDisabled(t *testing.T) {
	c := buildCache(config.Config{CacheProvider: "none"}, discardLogger())
	assert.IsType(t, &cache.NoOpCache{}, c)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestDepsCloseOrder(t *testing.T) {
	var order []int
	deps := Deps{closers: []io.Closer{
		closerFunc(func() error { order = append(order, 1); return nil }),
		closerFunc(func() error { order = append(order, 2); return errors.New("boom") }),
	}}

	err := deps.Close()
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []int{2, 1}, order)
}
