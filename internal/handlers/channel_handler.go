// File: internal/handlers/channel_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/docutalk/docutalk/internal/middleware"
	"github.com/docutalk/docutalk/internal/services/chat"
)

type ChannelHandler struct {
	threads *chat.ThreadService
}

func NewChannelHandler(threads *chat.ThreadService) *ChannelHandler {
	return &ChannelHandler{threads: threads}
}

// CreateChannel handles POST /api/channels. The first question seeds the
// channel title.
func (h *ChannelHandler) CreateChannel(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	channel, err := h.threads.CreateChannel(r.Context(), ownerID, req.Question)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, channel)
}

// RenameChannel handles PATCH /api/channels/{id}.
func (h *ChannelHandler) RenameChannel(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	channel, err := h.threads.RenameChannel(r.Context(), ownerID, channelID, req.Title)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channel)
}

// ListChannels handles GET /api/channels.
func (h *ChannelHandler) ListChannels(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	channels, err := h.threads.Channels(r.Context(), ownerID)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, channels)
}

// GetChannelMessages handles GET /api/channels/{id}/messages.
func (h *ChannelHandler) GetChannelMessages(w http.ResponseWriter, r *http.Request) {
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

	messages, err := h.threads.Messages(r.Context(), ownerID, channelID)
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// DeleteChannel handles DELETE /api/channels/{id}: documents and index
// vectors first, then messages, then the channel.
func (h *ChannelHandler) DeleteChannel(w http.ResponseWriter, r *http.Request) {
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

	if err := h.threads.DeleteChannel(r.Context(), ownerID, channelID); err != nil {
		writeChatError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteMessages handles DELETE /api/messages with an explicit id list.
// Absent ids are ignored so retries are safe.
func (h *ChannelHandler) DeleteMessages(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		MessageIDs []uint `json:"message_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.threads.DeleteMessages(r.Context(), ownerID, req.MessageIDs); err != nil {
		writeChatError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, key string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[key], 10, 32)
	return uint(id), err
}
