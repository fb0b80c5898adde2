// ABOUTME: Guest session token issuance endpoint
// ABOUTME: Issues short-lived HMAC-signed tokens that gate the chat endpoint

package handlers

import (
	"net/http"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
)

// CreateSession issues a fresh guest session token. The token is opaque to
// clients and presented back via the X-Session-Token header.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	token, expiresAt := h.tokens.Issue()
	h.writeJSON(w, http.StatusOK, models.SessionResponse{Token: token, ExpiresAt: expiresAt})
}
