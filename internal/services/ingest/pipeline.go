// File: internal/services/ingest/pipeline.go
package ingest

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/docutalk/docutalk/internal/domain"
	"github.com/docutalk/docutalk/internal/repository/document"
	"github.com/docutalk/docutalk/internal/services/ai"
	"github.com/docutalk/docutalk/internal/services/extract"
	"github.com/docutalk/docutalk/internal/services/pinecone"
	"github.com/docutalk/docutalk/internal/services/storage"
)

// Logger defines the logging interface used by the ingest pipeline.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Input carries one ingestion request. Either FileBytes or RawText must be
// supplied; both may be.
type Input struct {
	ChannelID   uint
	FileBytes   []byte
	FileName    string
	ContentType string
	RawText     string
}

// Pipeline orchestrates extract -> title -> chunk -> embed -> upsert ->
// upload -> persist for one document.
type Pipeline struct {
	config    *Config
	chunker   *Chunker
	extractor *extract.Extractor
	titles    *TitleService
	embedder  ai.EmbeddingProvider
	vectors   pinecone.VectorRepository
	store     storage.ObjectStore
	docRepo   document.DocumentRepository
	logger    Logger
}

func NewPipeline(
	config *Config,
	extractor *extract.Extractor,
	titles *TitleService,
	embedder ai.EmbeddingProvider,
	vectors pinecone.VectorRepository,
	store storage.ObjectStore,
	docRepo document.DocumentRepository,
	logger Logger,
) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, NewValidationError("config", err.Error())
	}
	return &Pipeline{
		config:    config,
		chunker:   NewChunker(config.ChunkSize, config.ChunkOverlap),
		extractor: extractor,
		titles:    titles,
		embedder:  embedder,
		vectors:   vectors,
		store:     store,
		docRepo:   docRepo,
		logger:    logger,
	}, nil
}

// Ingest runs the full pipeline and returns the persisted document.
//
// Any failure after the vector upsert triggers a best-effort delete of the
// just-upserted ids, so a failed ingestion never leaves vectors referenced
// by no document. A crash between upsert and persist is the accepted
// orphan window; it is narrow and logged, never silent corruption.
func (p *Pipeline) Ingest(ctx context.Context, in Input) (*domain.Document, error) {
	if in.ChannelID == 0 {
		return nil, NewValidationError("ingest", "channel id is required")
	}
	if len(in.FileBytes) == 0 && strings.TrimSpace(in.RawText) == "" {
		return nil, NewValidationError("ingest", "no file or text input provided")
	}

	text, err := p.extractText(in)
	if err != nil {
		return nil, err
	}

	title := p.titles.Generate(ctx, text)

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, NewValidationError("ingest", "document contains no text")
	}
	p.logger.Info("document chunked", "channel_id", in.ChannelID, "chunks", len(chunks))

	records := make([]pinecone.Record, 0, len(chunks))
	channelID := strconv.FormatUint(uint64(in.ChannelID), 10)
	for _, chunk := range chunks {
		embedCtx, cancel := context.WithTimeout(ctx, p.config.EmbeddingTimeout)
		values, err := p.embedder.CreateEmbedding(embedCtx, chunk.Text)
		cancel()
		if err != nil {
			return nil, NewUpstreamError("embedding", "failed to embed chunk", err)
		}
		records = append(records, pinecone.Record{
			ID:     uuid.NewString(),
			Values: values,
			Metadata: pinecone.Metadata{
				Text:      chunk.Text,
				Title:     title,
				ChannelID: channelID,
			},
		})
	}

	indexCtx, cancel := context.WithTimeout(ctx, p.config.IndexTimeout)
	err = p.vectors.UpsertBatch(indexCtx, records)
	cancel()
	if err != nil {
		return nil, NewUpstreamError("vector_upsert", "failed to upsert vectors", err)
	}

	vectorIDs := make([]string, len(records))
	for i := range records {
		vectorIDs[i] = records[i].ID
	}

	var objectKey, fileURL string
	if len(in.FileBytes) > 0 {
		storeCtx, cancel := context.WithTimeout(ctx, p.config.StorageTimeout)
		objectKey, fileURL, err = p.store.Upload(storeCtx, in.FileName, bytes.NewReader(in.FileBytes), int64(len(in.FileBytes)), in.ContentType)
		cancel()
		if err != nil {
			p.compensateUpsert(vectorIDs)
			return nil, NewUpstreamError("file_upload", "failed to upload raw file", err)
		}
	}

	doc, err := p.docRepo.Create(ctx, &domain.Document{
		ChannelID: in.ChannelID,
		Title:     title,
		VectorIDs: vectorIDs,
		ObjectKey: objectKey,
		FileURL:   fileURL,
	})
	if err != nil {
		p.compensateUpsert(vectorIDs)
		return nil, NewUpstreamError("persist", "failed to persist document", err)
	}

	p.logger.Info("document ingested",
		"document_id", doc.ID,
		"channel_id", doc.ChannelID,
		"title", doc.Title,
		"vectors", len(vectorIDs))
	return doc, nil
}

// Remove deletes the document's vectors from the index and its stored
// file, then the row. A partial index or storage deletion is reported as
// PartialCleanup: the relational delete still happens and the caller
// treats the document as removed.
func (p *Pipeline) Remove(ctx context.Context, docID uint) error {
	doc, err := p.docRepo.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, document.ErrDocumentNotFound) {
			return NewNotFoundError("remove", "document not found")
		}
		return NewUpstreamError("remove", "failed to load document", err)
	}

	var cleanupErr error
	indexCtx, cancel := context.WithTimeout(ctx, p.config.IndexTimeout)
	if err := p.vectors.DeleteByIDs(indexCtx, doc.VectorIDs); err != nil {
		p.logger.Warn("partial cleanup: index deletion failed",
			"document_id", docID, "vector_ids", len(doc.VectorIDs), "error", err)
		cleanupErr = NewPartialCleanupError("remove", "vector index deletion incomplete", err)
	}
	cancel()

	if doc.ObjectKey != "" {
		storeCtx, cancel := context.WithTimeout(ctx, p.config.StorageTimeout)
		if err := p.store.Delete(storeCtx, doc.ObjectKey); err != nil {
			p.logger.Warn("partial cleanup: stored file deletion failed",
				"document_id", docID, "object_key", doc.ObjectKey, "error", err)
			if cleanupErr == nil {
				cleanupErr = NewPartialCleanupError("remove", "stored file deletion incomplete", err)
			}
		}
		cancel()
	}

	if err := p.docRepo.Delete(ctx, docID); err != nil {
		return NewUpstreamError("remove", "failed to delete document record", err)
	}

	p.logger.Info("document removed", "document_id", docID, "vectors", len(doc.VectorIDs))
	return cleanupErr
}

// RemoveChannelDocuments removes every document in the channel, vectors
// first. Used by channel deletion cascade.
func (p *Pipeline) RemoveChannelDocuments(ctx context.Context, channelID uint) error {
	docs, err := p.docRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return NewUpstreamError("remove_channel", "failed to list channel documents", err)
	}

	var cleanupErr error
	for i := range docs {
		if err := p.Remove(ctx, docs[i].ID); err != nil {
			var ie *IngestError
			if errors.As(err, &ie) && ie.Type == ErrTypePartialCleanup {
				cleanupErr = err
				continue
			}
			return err
		}
	}
	return cleanupErr
}

func (p *Pipeline) extractText(in Input) (string, error) {
	var parts []string

	if len(in.FileBytes) > 0 {
		if !isPDF(in) {
			return "", NewValidationError("extract", "unsupported file type")
		}
		text, err := p.extractor.FromPDF(in.FileBytes)
		if err != nil {
			return "", NewUpstreamError("extract", "failed to extract text from pdf", err)
		}
		parts = append(parts, text)
	}

	if strings.TrimSpace(in.RawText) != "" {
		parts = append(parts, p.extractor.FromText(in.RawText))
	}

	return strings.Join(parts, "\n"), nil
}

// compensateUpsert deletes vectors that were upserted by a failed
// ingestion. Best effort: the orphan window is accepted, not silent.
func (p *Pipeline) compensateUpsert(vectorIDs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.IndexTimeout)
	defer cancel()
	if err := p.vectors.DeleteByIDs(ctx, vectorIDs); err != nil {
		p.logger.Warn("failed to clean up vectors after aborted ingestion",
			"vector_ids", len(vectorIDs), "error", err)
	}
}

func isPDF(in Input) bool {
	if in.ContentType == "application/pdf" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(in.FileName), ".pdf")
}
