// File: internal/services/chat/config.go
package chat

import (
	"fmt"
	"time"
)

type Config struct {
	// RAG Configuration
	RetrievalTopK     int // Number of similar chunks to retrieve
	ContextCharBudget int // Maximum characters of retrieved context
	HistoryWindow     int // Conversation turns included in the prompt

	// Timeouts for each external call in the pipeline
	EmbeddingTimeout time.Duration
	IndexTimeout     time.Duration
	StreamTimeout    time.Duration
	SaveTimeout      time.Duration
}

func (c *Config) Validate() error {
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("retrieval_top_k must be positive")
	}
	if c.RetrievalTopK > 20 {
		return fmt.Errorf("retrieval_top_k cannot exceed 20")
	}
	if c.ContextCharBudget <= 0 {
		return fmt.Errorf("context_char_budget must be positive")
	}
	if c.HistoryWindow < 0 {
		return fmt.Errorf("history_window cannot be negative")
	}
	if c.StreamTimeout <= 0 {
		return fmt.Errorf("stream_timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		RetrievalTopK:     5,
		ContextCharBudget: 6000,
		HistoryWindow:     8,
		EmbeddingTimeout:  30 * time.Second,
		IndexTimeout:      30 * time.Second,
		StreamTimeout:     120 * time.Second,
		SaveTimeout:       5 * time.Second,
	}
}
