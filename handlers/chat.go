// ABOUTME: Conversational entry point handler for the AI gateway
// ABOUTME: Gated by registered-user auth or a valid guest session token

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/middleware"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/services"
)

// Chat handles the conversational endpoint. The caller supplies a prompt
// key (never raw instructions), a full history, and one user message.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.ChatRequest
	if !h.decodeJSON(w, r, &req, 0) {
		return
	}

	if err := services.ValidatePromptKey(req.PromptKey); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if err := services.ValidateHistory(req.History); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if err := services.ValidateMessage(req.Message); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}

	// The session gate protects the pre-registration funnel only; a
	// registered user's auth decision bypasses it.
	if middleware.GetUserClaims(r) == nil {
		token := r.Header.Get(middleware.SessionTokenHeader)
		if !h.tokens.Validate(token) {
			h.writeError(w, http.StatusForbidden, models.CodeSessionRequired,
				"A valid session token is required. Request one from the session endpoint.")
			return
		}
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "chat", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	system := h.registry.Resolve(req.PromptKey)
	input := services.SanitizePrompt(req.Message, services.MaxMessageLength)
	history := sanitizeHistory(req.History)

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	text, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		return h.upstream.Generate(ctx, services.GenerateRequest{
			System:  system,
			History: history,
			Input:   input,
		})
	})
	if err != nil {
		h.record(r, "chat", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "chat", err)
		return
	}

	h.record(r, "chat", http.StatusOK, start, retries, services.EstimateTokens(system, input, text))
	h.writeJSON(w, http.StatusOK, models.ChatResponse{Text: text, RetryCount: retries})
}

// sanitizeHistory cleans every history entry before prompt interpolation.
func sanitizeHistory(history []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, len(history))
	for i, entry := range history {
		out[i] = models.ChatMessage{
			Role:    entry.Role,
			Content: services.SanitizePrompt(entry.Content, services.MaxMessageLength),
		}
	}
	return out
}
