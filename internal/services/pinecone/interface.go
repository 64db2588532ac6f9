// File: internal/services/pinecone/interface.go
package pinecone

import "context"

// Metadata is the payload stored alongside every vector record.
type Metadata struct {
	Text      string
	Title     string
	ChannelID string
}

// Record is one vector to upsert into the index.
type Record struct {
	ID       string
	Values   []float32
	Metadata Metadata
}

// Match is one scored query result, best first.
type Match struct {
	ID       string
	Score    float32
	Metadata Metadata
}

// VectorRepository handles vector data operations. Queries are always
// filtered to a single channel; cross-channel matches must never surface.
type VectorRepository interface {
	UpsertBatch(ctx context.Context, records []Record) error
	QuerySimilar(ctx context.Context, embedding []float32, channelID string, topK int) ([]Match, error)
	DeleteByIDs(ctx context.Context, ids []string) error
}

// Logger interface for index operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
