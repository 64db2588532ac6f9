// File: internal/handlers/query_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/docutalk/docutalk/internal/middleware"
	"github.com/docutalk/docutalk/internal/services/chat"
	"github.com/docutalk/docutalk/internal/transport/sse"
)

// SourcesHeader carries the titles of the documents behind the streamed
// answer. It is set before the first event frame.
const SourcesHeader = "X-Source-Documents"

// QueryHandler streams answers over server-sent events. Retrieval errors
// fail the request before any event is written; generation errors after
// the first fragment are reported in-band with the terminal error frame.
type QueryHandler struct {
	threads *chat.ThreadService
}

func NewQueryHandler(threads *chat.ThreadService) *QueryHandler {
	return &QueryHandler{threads: threads}
}

// Ask handles POST /api/query.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Question           string `json:"question"`
		ChannelID          uint   `json:"channel_id"`
		AttachedDocumentID *uint  `json:"attached_document_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	answer, err := h.threads.Ask(r.Context(), ownerID, req.ChannelID, req.Question, req.AttachedDocumentID)
	if err != nil {
		writeChatError(w, err)
		return
	}

	h.stream(w, answer)
}

// Edit handles POST /api/messages/{id}/edit: the regenerated answer
// streams back the same way a fresh question does.
func (h *QueryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messageID, err := pathID(r, "id")
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	answer, err := h.threads.Edit(r.Context(), ownerID, messageID, req.Content)
	if err != nil {
		writeChatError(w, err)
		return
	}

	h.stream(w, answer)
}

// stream drains the fragment channel onto the wire. The producer watches
// the request context, so a disconnected client stops generation; the
// partial answer is still persisted by the thread service.
func (h *QueryHandler) stream(w http.ResponseWriter, answer *chat.Answer) {
	if len(answer.Sources) > 0 {
		w.Header().Set(SourcesHeader, strings.Join(answer.Sources, ", "))
	}

	writer, err := sse.NewWriter(w)
	if err != nil {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	for fragment := range answer.Fragments {
		if fragment.Err != nil {
			_ = writer.SendError()
			return
		}
		if err := writer.Send(fragment.Text); err != nil {
			// Client gone; the producer notices via context cancellation.
			return
		}
	}
}
