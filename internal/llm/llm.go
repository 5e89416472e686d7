package llm

import "context"

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Summarize returns a short summary paragraph and key points for text.
	Summarize(ctx context.Context, text string) (string, []string, error)
}
