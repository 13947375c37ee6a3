package adapter

import "context"

// Embedder is a narrower interface for components that only need embeddings,
// not chat completion. Results are index-aligned with the input texts.
type Embedder interface {
	EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, model, text string) ([]float32, error)
}
