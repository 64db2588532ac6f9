// File: internal/handlers/auth_handler.go
package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/docutalk/docutalk/internal/auth"
)

// AuthHandler exchanges the shared service key for a scoped bearer token.
// Callers are identified by an opaque owner id; there is no account
// management here.
type AuthHandler struct {
	serviceAPIKey string
	jwtSecret     []byte
}

func NewAuthHandler(serviceAPIKey string, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{serviceAPIKey: serviceAPIKey, jwtSecret: jwtSecret}
}

// IssueToken handles POST /api/auth/token.
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID uint   `json:"owner_id"`
		APIKey  string `json:"api_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.OwnerID == 0 {
		writeError(w, "owner_id is required", http.StatusBadRequest)
		return
	}
	if h.serviceAPIKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.serviceAPIKey)) != 1 {
		writeError(w, "invalid api key", http.StatusUnauthorized)
		return
	}

	token, err := auth.GenerateJWT(req.OwnerID, h.jwtSecret)
	if err != nil {
		writeError(w, "could not issue token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
