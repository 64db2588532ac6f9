// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/docutalk/docutalk/internal/services/chat"
	"github.com/docutalk/docutalk/internal/services/ingest"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeChatError maps pipeline errors onto HTTP statuses. Upstream and
// stream failures surface the fixed apology; the detail is already in the
// server logs.
func writeChatError(w http.ResponseWriter, err error) {
	var ce *chat.ChatError
	if !errors.As(err, &ce) {
		writeError(w, chat.ApologyMessage, http.StatusInternalServerError)
		return
	}
	switch chat.TypeOf(err) {
	case chat.ErrTypeValidation:
		writeError(w, ce.Message, http.StatusBadRequest)
	case chat.ErrTypeNotFound:
		writeError(w, ce.Message, http.StatusNotFound)
	case chat.ErrTypeUnauthorized:
		writeError(w, ce.Message, http.StatusForbidden)
	default:
		writeError(w, chat.ApologyMessage, http.StatusInternalServerError)
	}
}

// writeIngestError does the same for the ingestion pipeline.
func writeIngestError(w http.ResponseWriter, err error) {
	var ie *ingest.IngestError
	if errors.As(err, &ie) {
		switch ie.Type {
		case ingest.ErrTypeValidation:
			writeError(w, ie.Message, http.StatusBadRequest)
		case ingest.ErrTypeNotFound:
			writeError(w, ie.Message, http.StatusNotFound)
		default:
			writeError(w, chat.ApologyMessage, http.StatusInternalServerError)
		}
		return
	}
	writeError(w, chat.ApologyMessage, http.StatusInternalServerError)
}
