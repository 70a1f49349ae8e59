package domain

import "context"

// Embedder converts text into fixed-length numeric vectors. The dimension
// is stable for the lifetime of a provider instance.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
	// EmbedBatch embeds several texts in a single provider call. The result
	// has the same length and order as the input.
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// Generator produces a text completion from a system prompt and a user
// prompt. Calls may fail on network, quota, or model errors.
type Generator interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
}
