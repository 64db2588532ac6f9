// File: internal/handlers/document_handler_test.go
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/docutalk/docutalk/internal/domain"
	"github.com/docutalk/docutalk/internal/middleware"
	"github.com/docutalk/docutalk/internal/repository/channel"
	"github.com/docutalk/docutalk/internal/repository/document"
)

type fakeObjectStore struct{}

func (fakeObjectStore) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	return "", "", nil
}

func (fakeObjectStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://store/" + key + "?signed=1", nil
}

func (fakeObjectStore) Delete(ctx context.Context, key string) error { return nil }

func newDocumentFixture(t *testing.T) (*DocumentHandler, *domain.Document) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Channel{}, &domain.Document{}))

	channelRepo := channel.NewChannelRepository(db)
	docRepo := document.NewDocumentRepository(db)

	ch, err := channelRepo.Create(context.Background(), &domain.Channel{OwnerID: 1, Title: "Test"})
	require.NoError(t, err)

	doc, err := docRepo.Create(context.Background(), &domain.Document{
		ChannelID: ch.ID,
		Title:     "Report",
		VectorIDs: []string{"v1"},
		ObjectKey: "documents/report.pdf",
		FileURL:   "http://store/documents/report.pdf",
	})
	require.NoError(t, err)

	return NewDocumentHandler(nil, docRepo, channelRepo, fakeObjectStore{}), doc
}

func downloadRequest(t *testing.T, docID uint, ownerID uint) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/documents/"+strconv.FormatUint(uint64(docID), 10)+"/download", nil)
	r = mux.SetURLVars(r, map[string]string{"id": strconv.FormatUint(uint64(docID), 10)})
	ctx := context.WithValue(r.Context(), middleware.OwnerIDKey, ownerID)
	return r.WithContext(ctx)
}

func TestDownloadDocumentReturnsSignedURL(t *testing.T) {
	handler, doc := newDocumentFixture(t)

	rec := httptest.NewRecorder()
	handler.DownloadDocument(rec, downloadRequest(t, doc.ID, 1))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "http://store/documents/report.pdf?signed=1", body["signed_url"])
}

func TestDownloadDocumentForeignOwnerForbidden(t *testing.T) {
	handler, doc := newDocumentFixture(t)

	rec := httptest.NewRecorder()
	handler.DownloadDocument(rec, downloadRequest(t, doc.ID, 2))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDownloadDocumentWithoutStoredFile(t *testing.T) {
	handler, doc := newDocumentFixture(t)

	textOnly, err := handler.docRepo.Create(context.Background(), &domain.Document{
		ChannelID: doc.ChannelID,
		Title:     "Pasted text",
		VectorIDs: []string{"v2"},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.DownloadDocument(rec, downloadRequest(t, textOnly.ID, 1))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadDocumentUnknown(t *testing.T) {
	handler, _ := newDocumentFixture(t)

	rec := httptest.NewRecorder()
	handler.DownloadDocument(rec, downloadRequest(t, 999, 1))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
