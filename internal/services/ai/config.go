// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// Embedding Configuration
	EmbeddingKey     string
	EmbeddingBaseURL string
	EmbeddingModel   string
	// Dimensions requested from the embedding endpoint. Must match the
	// vector index schema.
	EmbeddingDimensions int

	// LLM Configuration
	LLMKey     string
	LLMBaseURL string
	LLMModel   string

	// Performance Configuration
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Model Parameters
	Temperature     float32
	MaxOutputTokens int
}

func (c *Config) Validate() error {
	if c.EmbeddingKey == "" {
		return fmt.Errorf("EMBEDDING_API_KEY is required")
	}
	if c.LLMKey == "" {
		return fmt.Errorf("LLM_API_KEY is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("EMBEDDING_MODEL_NAME is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive")
	}
	if c.LLMModel == "" {
		return fmt.Errorf("LLM_MODEL_NAME is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		EmbeddingDimensions: 768,
		Timeout:             2 * time.Minute,
		MaxRetries:          3,
		RetryDelay:          2 * time.Second,
		Temperature:         0.2, // Deterministic-leaning answers
		MaxOutputTokens:     800,
	}
}
