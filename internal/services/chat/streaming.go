// File: internal/services/chat/streaming.go
package chat

import (
	"context"
	"strconv"

	"github.com/docutalk/docutalk/internal/services/ai"
	"github.com/docutalk/docutalk/internal/services/pinecone"
)

// StreamingService runs the retrieval half and the generation half of the
// query pipeline. Retrieval is synchronous and fails the whole call;
// generation streams deltas through the caller's callback.
type StreamingService struct {
	config  *Config
	aiSvc   ai.Provider
	vectors pinecone.VectorRepository
	rag     *RAGService
	logger  Logger
}

func NewStreamingService(
	config *Config,
	aiSvc ai.Provider,
	vectors pinecone.VectorRepository,
	rag *RAGService,
	logger Logger,
) (*StreamingService, error) {
	if err := config.Validate(); err != nil {
		return nil, NewValidationError("config", err.Error())
	}
	return &StreamingService{
		config:  config,
		aiSvc:   aiSvc,
		vectors: vectors,
		rag:     rag,
		logger:  logger,
	}, nil
}

// Retrieval is what one question pulled out of the index: the assembled
// context block plus the titles of the documents it came from.
type Retrieval struct {
	Context string
	Sources []string
}

// Retrieve embeds the question and queries the index for the channel's
// top matches. There is no history-only fallback: an embedding or index
// failure fails the call.
func (s *StreamingService) Retrieve(ctx context.Context, channelID uint, question string) (*Retrieval, error) {
	embedCtx, cancel := context.WithTimeout(ctx, s.config.EmbeddingTimeout)
	defer cancel()
	embedding, err := s.aiSvc.CreateEmbedding(embedCtx, question)
	if err != nil {
		s.logger.Error("embedding call failed", "channel_id", channelID, "error", err)
		return nil, NewUpstreamError("embedding", "failed to embed question", err)
	}

	indexCtx, cancel := context.WithTimeout(ctx, s.config.IndexTimeout)
	defer cancel()
	matches, err := s.vectors.QuerySimilar(indexCtx, embedding,
		strconv.FormatUint(uint64(channelID), 10), s.config.RetrievalTopK)
	if err != nil {
		s.logger.Error("vector query failed", "channel_id", channelID, "error", err)
		return nil, NewUpstreamError("vector_query", "failed to query index", err)
	}

	s.logger.Debug("retrieval completed", "channel_id", channelID, "matches", len(matches))
	return &Retrieval{
		Context: s.rag.BuildContext(matches),
		Sources: s.rag.Sources(matches),
	}, nil
}

// Stream invokes the generative model and forwards every delta to onDelta
// as soon as it arrives. onDelta returning an error aborts the stream.
func (s *StreamingService) Stream(ctx context.Context, prompt string, onDelta func(string) error) error {
	streamCtx, cancel := context.WithTimeout(ctx, s.config.StreamTimeout)
	defer cancel()

	if err := s.aiSvc.StreamCompletion(streamCtx, prompt, onDelta); err != nil {
		return NewStreamError("streaming", "generative stream failed", err)
	}
	return nil
}
