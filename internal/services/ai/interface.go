// File: internal/services/ai/interface.go
package ai

import "context"

// EmbeddingProvider turns text into fixed-dimensionality vectors.
type EmbeddingProvider interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// CompletionProvider handles one-shot and streaming completions.
type CompletionProvider interface {
	GetCompletion(ctx context.Context, prompt string) (string, error)
	StreamCompletion(ctx context.Context, prompt string, onDelta func(string) error) error
}

// Provider combines embedding and completion capabilities.
type Provider interface {
	EmbeddingProvider
	CompletionProvider
}
