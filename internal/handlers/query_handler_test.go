// File: internal/handlers/query_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/docutalk/docutalk/internal/domain"
	"github.com/docutalk/docutalk/internal/middleware"
	"github.com/docutalk/docutalk/internal/repository/channel"
	"github.com/docutalk/docutalk/internal/repository/message"
	"github.com/docutalk/docutalk/internal/services"
	"github.com/docutalk/docutalk/internal/services/chat"
	"github.com/docutalk/docutalk/internal/services/pinecone"
	"github.com/docutalk/docutalk/internal/transport/sse"
)

type stubProvider struct {
	deltas    []string
	streamErr error
	failEmbed bool
}

func (p *stubProvider) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if p.failEmbed {
		return nil, errors.New("embedding unavailable")
	}
	return []float32{1}, nil
}

func (p *stubProvider) GetCompletion(ctx context.Context, prompt string) (string, error) {
	return "Title", nil
}

func (p *stubProvider) StreamCompletion(ctx context.Context, prompt string, onDelta func(string) error) error {
	for _, d := range p.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return p.streamErr
}

type stubVectors struct{}

func (stubVectors) UpsertBatch(ctx context.Context, records []pinecone.Record) error { return nil }
func (stubVectors) QuerySimilar(ctx context.Context, embedding []float32, channelID string, topK int) ([]pinecone.Match, error) {
	return []pinecone.Match{{ID: "v1", Metadata: pinecone.Metadata{Text: "chunk", Title: "Doc"}}}, nil
}
func (stubVectors) DeleteByIDs(ctx context.Context, ids []string) error { return nil }

type stubRemover struct{}

func (stubRemover) RemoveChannelDocuments(ctx context.Context, channelID uint) error { return nil }

func newQueryFixture(t *testing.T, provider *stubProvider) (*QueryHandler, uint) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Channel{}, &domain.Message{}))

	channelRepo := channel.NewChannelRepository(db)
	messageRepo := message.NewMessageRepository(db)
	logger := &services.NoOpLogger{}

	config := chat.DefaultConfig()
	rag := chat.NewRAGService(config, logger)
	streaming, err := chat.NewStreamingService(config, provider, stubVectors{}, rag, logger)
	require.NoError(t, err)
	threads := chat.NewThreadService(config, channelRepo, messageRepo, streaming, rag,
		provider, stubRemover{}, logger)

	ch, err := channelRepo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Test"})
	require.NoError(t, err)

	return NewQueryHandler(threads), ch.ID
}

func askRequest(t *testing.T, channelID uint, question string) *http.Request {
	t.Helper()
	body := fmt.Sprintf(`{"channel_id":%d,"question":%q}`, channelID, question)
	r := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	ctx := context.WithValue(r.Context(), middleware.OwnerIDKey, uint(1))
	return r.WithContext(ctx)
}

func TestAskStreamsEventFrames(t *testing.T) {
	handler, channelID := newQueryFixture(t, &stubProvider{deltas: []string{"Hello, ", "world."}})

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(t, channelID, "hi"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	got := sse.NewReassembler().Feed(rec.Body.Bytes())
	assert.Equal(t, []string{"Hello, ", "world."}, got)
}

func TestAskSetsSourcesHeader(t *testing.T) {
	handler, channelID := newQueryFixture(t, &stubProvider{deltas: []string{"x"}})

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(t, channelID, "hi"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Doc", rec.Header().Get(SourcesHeader))
}

func TestAskEmptyQuestionIsBadRequest(t *testing.T) {
	handler, channelID := newQueryFixture(t, &stubProvider{})

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(t, channelID, "  "))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestAskRetrievalFailureReturnsApology(t *testing.T) {
	handler, channelID := newQueryFixture(t, &stubProvider{failEmbed: true})

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(t, channelID, "hi"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, chat.ApologyMessage, body["error"])
}

func TestAskMidStreamFailureEmitsErrorFrame(t *testing.T) {
	handler, channelID := newQueryFixture(t, &stubProvider{
		deltas:    []string{"partial "},
		streamErr: errors.New("connection reset"),
	})

	rec := httptest.NewRecorder()
	handler.Ask(rec, askRequest(t, channelID, "hi"))

	got := sse.NewReassembler().Feed(rec.Body.Bytes())
	require.Len(t, got, 2)
	assert.Equal(t, "partial ", got[0])
	assert.Equal(t, sse.ErrorFrame, got[1])
}

func TestAskForeignChannelForbidden(t *testing.T) {
	handler, channelID := newQueryFixture(t, &stubProvider{deltas: []string{"x"}})

	r := askRequest(t, channelID, "hi")
	ctx := context.WithValue(r.Context(), middleware.OwnerIDKey, uint(2))
	rec := httptest.NewRecorder()
	handler.Ask(rec, r.WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
