// File: internal/handlers/document_handler.go
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/docutalk/docutalk/internal/middleware"
	"github.com/docutalk/docutalk/internal/repository/channel"
	"github.com/docutalk/docutalk/internal/repository/document"
	"github.com/docutalk/docutalk/internal/services/ingest"
	"github.com/docutalk/docutalk/internal/services/storage"
)

// maxUploadBytes bounds multipart uploads (25 MiB).
const maxUploadBytes = 25 << 20

type DocumentHandler struct {
	pipeline    *ingest.Pipeline
	docRepo     document.DocumentRepository
	channelRepo channel.ChannelRepository
	store       storage.ObjectStore
}

func NewDocumentHandler(
	pipeline *ingest.Pipeline,
	docRepo document.DocumentRepository,
	channelRepo channel.ChannelRepository,
	store storage.ObjectStore,
) *DocumentHandler {
	return &DocumentHandler{pipeline: pipeline, docRepo: docRepo, channelRepo: channelRepo, store: store}
}

// Ingest handles POST /api/ingest: multipart form with a channel_id
// field plus a file part, an input text field, or both.
func (h *DocumentHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, "Invalid or oversized upload", http.StatusBadRequest)
		return
	}

	channelID, err := strconv.ParseUint(r.FormValue("channel_id"), 10, 32)
	if err != nil || channelID == 0 {
		writeError(w, "channel_id is required", http.StatusBadRequest)
		return
	}
	if !h.ownsChannel(r, ownerID, uint(channelID)) {
		writeError(w, "channel not found or unauthorized", http.StatusForbidden)
		return
	}

	in := ingest.Input{
		ChannelID: uint(channelID),
		RawText:   r.FormValue("input"),
	}

	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, "Could not read uploaded file", http.StatusBadRequest)
			return
		}
		in.FileBytes = data
		in.FileName = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
	}

	doc, err := h.pipeline.Ingest(r.Context(), in)
	if err != nil {
		writeIngestError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// ListDocuments handles GET /api/channels/{id}/documents.
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	channelID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}
	if !h.ownsChannel(r, ownerID, channelID) {
		writeError(w, "channel not found or unauthorized", http.StatusForbidden)
		return
	}

	docs, err := h.docRepo.FindByChannelID(r.Context(), channelID)
	if err != nil {
		writeError(w, "Could not retrieve documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// DownloadDocument handles GET /api/documents/{id}/download, returning a
// time-limited signed URL for the stored file.
func (h *DocumentHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	docID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid document ID", http.StatusBadRequest)
		return
	}

	doc, err := h.docRepo.FindByID(r.Context(), docID)
	if err != nil {
		writeError(w, "Document not found", http.StatusNotFound)
		return
	}
	if !h.ownsChannel(r, ownerID, doc.ChannelID) {
		writeError(w, "channel not found or unauthorized", http.StatusForbidden)
		return
	}
	if doc.ObjectKey == "" {
		writeError(w, "document has no stored file", http.StatusNotFound)
		return
	}

	signedURL, err := h.store.PresignedURL(r.Context(), doc.ObjectKey, storage.DownloadURLValidity)
	if err != nil {
		writeError(w, "Could not sign download URL", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signed_url": signedURL})
}

// DeleteDocument handles DELETE /api/documents/{id}. A partial index
// cleanup still removes the document; the response reports success.
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	docID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid document ID", http.StatusBadRequest)
		return
	}

	doc, err := h.docRepo.FindByID(r.Context(), docID)
	if err != nil {
		writeError(w, "Document not found", http.StatusNotFound)
		return
	}
	if !h.ownsChannel(r, ownerID, doc.ChannelID) {
		writeError(w, "channel not found or unauthorized", http.StatusForbidden)
		return
	}

	if err := h.pipeline.Remove(r.Context(), docID); err != nil {
		var ie *ingest.IngestError
		if errors.As(err, &ie) && ie.Type == ingest.ErrTypePartialCleanup {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeIngestError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) ownsChannel(r *http.Request, ownerID, channelID uint) bool {
	ok, err := h.channelRepo.VerifyOwnership(r.Context(), channelID, ownerID)
	return err == nil && ok
}
