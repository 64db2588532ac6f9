// File: internal/services/ingest/pipeline_test.go
package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docutalk/docutalk/internal/domain"
	"github.com/docutalk/docutalk/internal/repository/document"
	"github.com/docutalk/docutalk/internal/services"
	"github.com/docutalk/docutalk/internal/services/extract"
	"github.com/docutalk/docutalk/internal/services/pinecone"
)

type fakeEmbedder struct {
	calls int
	fail  bool
}

func (f *fakeEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.fail {
		return nil, errors.New("embedding unavailable")
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeLLM struct {
	title string
	fail  bool
}

func (f *fakeLLM) GetCompletion(ctx context.Context, prompt string) (string, error) {
	if f.fail {
		return "", errors.New("model unavailable")
	}
	return f.title, nil
}

func (f *fakeLLM) StreamCompletion(ctx context.Context, prompt string, onDelta func(string) error) error {
	return errors.New("not used")
}

type fakeVectors struct {
	upserted   []pinecone.Record
	deletedIDs []string
	failUpsert bool
	failDelete bool
}

func (f *fakeVectors) UpsertBatch(ctx context.Context, records []pinecone.Record) error {
	if f.failUpsert {
		return errors.New("index unavailable")
	}
	f.upserted = append(f.upserted, records...)
	return nil
}

func (f *fakeVectors) QuerySimilar(ctx context.Context, embedding []float32, channelID string, topK int) ([]pinecone.Match, error) {
	return nil, nil
}

func (f *fakeVectors) DeleteByIDs(ctx context.Context, ids []string) error {
	if f.failDelete {
		return errors.New("index unavailable")
	}
	f.deletedIDs = append(f.deletedIDs, ids...)
	return nil
}

type fakeStore struct {
	uploads     int
	fail        bool
	failDelete  bool
	deletedKeys []string
}

func (f *fakeStore) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	f.uploads++
	if f.fail {
		return "", "", errors.New("storage unavailable")
	}
	key := "documents/" + filename
	return key, "http://store/" + key, nil
}

func (f *fakeStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://store/" + key + "?signed=1", nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.failDelete {
		return errors.New("storage unavailable")
	}
	f.deletedKeys = append(f.deletedKeys, key)
	return nil
}

type fakeDocRepo struct {
	docs   map[uint]*domain.Document
	nextID uint
	fail   bool
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[uint]*domain.Document), nextID: 1}
}

func (f *fakeDocRepo) Create(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	if f.fail {
		return nil, errors.New("database unavailable")
	}
	doc.ID = f.nextID
	f.nextID++
	f.docs[doc.ID] = doc
	return doc, nil
}

func (f *fakeDocRepo) FindByID(ctx context.Context, docID uint) (*domain.Document, error) {
	doc, ok := f.docs[docID]
	if !ok {
		return nil, document.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *fakeDocRepo) FindByChannelID(ctx context.Context, channelID uint) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range f.docs {
		if doc.ChannelID == channelID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) Delete(ctx context.Context, docID uint) error {
	delete(f.docs, docID)
	return nil
}

type pipelineFixture struct {
	pipeline *Pipeline
	embedder *fakeEmbedder
	vectors  *fakeVectors
	store    *fakeStore
	docRepo  *fakeDocRepo
}

func newPipelineFixture(t *testing.T, chunkSize, overlap int) *pipelineFixture {
	t.Helper()

	config := DefaultConfig()
	config.ChunkSize = chunkSize
	config.ChunkOverlap = overlap

	embedder := &fakeEmbedder{}
	vectors := &fakeVectors{}
	store := &fakeStore{}
	docRepo := newFakeDocRepo()
	logger := &services.NoOpLogger{}

	titles := NewTitleService(config, &fakeLLM{title: "Intro to Testing"}, logger)
	pipeline, err := NewPipeline(config, extract.New(), titles, embedder, vectors, store, docRepo, logger)
	require.NoError(t, err)

	return &pipelineFixture{
		pipeline: pipeline,
		embedder: embedder,
		vectors:  vectors,
		store:    store,
		docRepo:  docRepo,
	}
}

func TestIngestTwoChunksProducesTwoRecords(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	doc, err := fx.pipeline.Ingest(context.Background(), Input{
		ChannelID: 42,
		RawText:   "abcdefghijkl", // two windows at size 10 / overlap 3
	})
	require.NoError(t, err)

	assert.Equal(t, 2, fx.embedder.calls)
	require.Len(t, fx.vectors.upserted, 2)
	require.Len(t, doc.VectorIDs, 2)
	assert.Equal(t, "Intro to Testing", doc.Title)

	seen := make(map[string]bool)
	for i, rec := range fx.vectors.upserted {
		assert.NotEmpty(t, rec.ID)
		assert.False(t, seen[rec.ID], "vector ids must be unique")
		seen[rec.ID] = true
		assert.Equal(t, doc.VectorIDs[i], rec.ID)
		assert.Equal(t, "42", rec.Metadata.ChannelID)
		assert.Equal(t, "Intro to Testing", rec.Metadata.Title)
		assert.NotEmpty(t, rec.Metadata.Text)
	}
}

func TestIngestValidationBeforeExternalCalls(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	_, err := fx.pipeline.Ingest(context.Background(), Input{ChannelID: 42})
	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypeValidation, ie.Type)

	_, err = fx.pipeline.Ingest(context.Background(), Input{RawText: "text"})
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypeValidation, ie.Type)

	assert.Zero(t, fx.embedder.calls)
	assert.Empty(t, fx.vectors.upserted)
	assert.Zero(t, fx.store.uploads)
}

func TestIngestEmbeddingFailureLeavesNothingBehind(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)
	fx.embedder.fail = true

	_, err := fx.pipeline.Ingest(context.Background(), Input{ChannelID: 1, RawText: "some text"})
	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypeUpstream, ie.Type)
	assert.Empty(t, fx.vectors.upserted)
	assert.Empty(t, fx.docRepo.docs)
}

func TestIngestPersistFailureCompensatesUpsert(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)
	fx.docRepo.fail = true

	_, err := fx.pipeline.Ingest(context.Background(), Input{ChannelID: 1, RawText: "abcdefghijkl"})
	require.Error(t, err)

	// The just-upserted ids are deleted again.
	require.Len(t, fx.vectors.upserted, 2)
	upsertedIDs := []string{fx.vectors.upserted[0].ID, fx.vectors.upserted[1].ID}
	assert.ElementsMatch(t, upsertedIDs, fx.vectors.deletedIDs)
}

func TestIngestRejectsNonPDFUpload(t *testing.T) {
	fx := newPipelineFixture(t, 500, 100)

	_, err := fx.pipeline.Ingest(context.Background(), Input{
		ChannelID:   1,
		RawText:     "body text",
		FileBytes:   []byte("not a pdf"),
		FileName:    "notes.txt",
		ContentType: "text/plain",
	})
	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypeValidation, ie.Type)
	assert.Zero(t, fx.embedder.calls)
	assert.Empty(t, fx.vectors.upserted)
}

func TestIngestTitleFailureUsesFallback(t *testing.T) {
	config := DefaultConfig()
	logger := &services.NoOpLogger{}
	titles := NewTitleService(config, &fakeLLM{fail: true}, logger)

	embedder := &fakeEmbedder{}
	vectors := &fakeVectors{}
	docRepo := newFakeDocRepo()
	pipeline, err := NewPipeline(config, extract.New(), titles, embedder, vectors, &fakeStore{}, docRepo, logger)
	require.NoError(t, err)

	doc, err := pipeline.Ingest(context.Background(), Input{ChannelID: 7, RawText: "short document"})
	require.NoError(t, err)
	assert.Equal(t, FallbackTitle, doc.Title)
}

func TestRemoveDeletesExactVectorIDs(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	doc, err := fx.pipeline.Ingest(context.Background(), Input{ChannelID: 1, RawText: "abcdefghijkl"})
	require.NoError(t, err)

	require.NoError(t, fx.pipeline.Remove(context.Background(), doc.ID))
	assert.ElementsMatch(t, doc.VectorIDs, fx.vectors.deletedIDs)
	assert.Empty(t, fx.docRepo.docs)
}

func TestRemovePartialCleanupStillDeletesRow(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	doc, err := fx.pipeline.Ingest(context.Background(), Input{ChannelID: 1, RawText: "abcdefghijkl"})
	require.NoError(t, err)

	fx.vectors.failDelete = true
	err = fx.pipeline.Remove(context.Background(), doc.ID)

	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypePartialCleanup, ie.Type)
	// The relational row is gone regardless.
	assert.Empty(t, fx.docRepo.docs)
}

func TestRemoveDeletesStoredFile(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	doc, err := fx.docRepo.Create(context.Background(), &domain.Document{
		ChannelID: 1,
		Title:     "Uploaded",
		VectorIDs: []string{"v1", "v2"},
		ObjectKey: "documents/report.pdf",
	})
	require.NoError(t, err)

	require.NoError(t, fx.pipeline.Remove(context.Background(), doc.ID))
	assert.Equal(t, []string{"documents/report.pdf"}, fx.store.deletedKeys)
	assert.Empty(t, fx.docRepo.docs)
}

func TestRemoveStoredFileFailureIsPartialCleanup(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)
	fx.store.failDelete = true

	doc, err := fx.docRepo.Create(context.Background(), &domain.Document{
		ChannelID: 1,
		Title:     "Uploaded",
		VectorIDs: []string{"v1"},
		ObjectKey: "documents/report.pdf",
	})
	require.NoError(t, err)

	err = fx.pipeline.Remove(context.Background(), doc.ID)
	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypePartialCleanup, ie.Type)
	// The relational row is gone regardless.
	assert.Empty(t, fx.docRepo.docs)
}

func TestRemoveUnknownDocument(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	err := fx.pipeline.Remove(context.Background(), 999)
	var ie *IngestError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, ErrTypeNotFound, ie.Type)
}

func TestRemoveChannelDocumentsCascades(t *testing.T) {
	fx := newPipelineFixture(t, 10, 3)

	var allIDs []string
	for i := 0; i < 3; i++ {
		doc, err := fx.pipeline.Ingest(context.Background(), Input{
			ChannelID: 5,
			RawText:   strings.Repeat("x", 12),
		})
		require.NoError(t, err)
		allIDs = append(allIDs, doc.VectorIDs...)
	}
	other, err := fx.pipeline.Ingest(context.Background(), Input{ChannelID: 6, RawText: "keep me"})
	require.NoError(t, err)

	require.NoError(t, fx.pipeline.RemoveChannelDocuments(context.Background(), 5))
	assert.ElementsMatch(t, allIDs, fx.vectors.deletedIDs)

	// The other channel's document survives.
	_, err = fx.docRepo.FindByID(context.Background(), other.ID)
	assert.NoError(t, err)
}
