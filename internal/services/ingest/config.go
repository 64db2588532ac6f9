// File: internal/services/ingest/config.go
package ingest

import (
	"fmt"
	"time"
)

type Config struct {
	ChunkSize    int
	ChunkOverlap int

	// TitlePrefixLimit bounds how much text is sent to the model when
	// generating a document title.
	TitlePrefixLimit int

	EmbeddingTimeout time.Duration
	IndexTimeout     time.Duration
	StorageTimeout   time.Duration
	TitleTimeout     time.Duration
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size)")
	}
	if c.TitlePrefixLimit <= 0 {
		return fmt.Errorf("title_prefix_limit must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		ChunkSize:        500,
		ChunkOverlap:     100,
		TitlePrefixLimit: 3000,
		EmbeddingTimeout: 30 * time.Second,
		IndexTimeout:     30 * time.Second,
		StorageTimeout:   60 * time.Second,
		TitleTimeout:     30 * time.Second,
	}
}
