// ABOUTME: HTTP handler wiring for the AI gateway endpoints
// ABOUTME: Holds the gateway components and shared response helpers

package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/cache"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/config"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/middleware"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks.
// Speech uploads get a higher cap since they carry base64 audio.
const (
	maxRequestBodySize       = 1 << 20  // 1MB
	maxSpeechRequestBodySize = 12 << 20 // 12MB (8MB audio plus base64 overhead)
)

type Handler struct {
	cfg      *config.Config
	cache    *cache.Cache
	tokens   *services.TokenIssuer
	pool     *services.SlotPool
	registry *services.Registry
	invoker  *services.Invoker
	upstream services.Generator
	speech   services.Speech
	logs     *services.LogSink
}

// NewHandler builds the gateway handler and its components from config.
func NewHandler(cfg *config.Config, c *cache.Cache) *Handler {
	h := &Handler{
		cfg:      cfg,
		cache:    c,
		registry: services.NewRegistry(),
	}

	// Config is optional for unit tests that only exercise helpers.
	if cfg != nil {
		h.tokens = services.NewTokenIssuer(cfg.SessionTokenSecret, time.Duration(cfg.SessionTokenTTLMin)*time.Minute)
		h.pool = services.NewSlotPool(cfg.MaxConcurrent, cfg.MaxConcurrentPerOwner)
		h.invoker = services.NewInvoker(cfg.RetryMax, time.Duration(cfg.RetryDelayMillis)*time.Millisecond)
		h.upstream = services.NewClient(cfg.AnthropicAPIKey, cfg.Model, int64(cfg.MaxTokens))
		h.logs = services.NewLogSink(os.Stdout)

		if cfg.SpeechConfigured() {
			timeout := time.Duration(cfg.UpstreamTimeout) * time.Second
			h.speech = services.NewSpeechClient(cfg.SpeechAPIURL, cfg.SpeechAPIKey, timeout)
		}
	}

	return h
}

// SetGeneratorForTesting swaps the upstream client. Testing only.
func (h *Handler) SetGeneratorForTesting(g services.Generator) { h.upstream = g }

// SetSpeechForTesting swaps the speech client. Testing only.
func (h *Handler) SetSpeechForTesting(s services.Speech) { h.speech = s }

// SetPoolForTesting swaps the admission pool. Testing only.
func (h *Handler) SetPoolForTesting(p *services.SlotPool) { h.pool = p }

// MethodNotAllowed answers requests that reach a known path with the wrong
// method. Registered on the bare path behind the CORS wrapper so browser
// preflight OPTIONS requests are answered there instead of 405'd by the mux.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusMethodNotAllowed, models.CodeMethodNotAllowed, "Method not allowed")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string) {
	h.writeJSON(w, status, models.ErrorResponse{Error: message, Code: code})
}

// writeCapacityExceeded tells the caller to retry shortly. The bound is a
// local ceiling, distinct from the provider's rate limit.
func (h *Handler) writeCapacityExceeded(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "2")
	h.writeJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
		Error:      "All assistant slots are busy. Please retry shortly.",
		Code:       models.CodeQueueRequired,
		RetryAfter: 2,
	})
}

// writeUpstreamError hides provider internals from the caller.
func (h *Handler) writeUpstreamError(w http.ResponseWriter, method string, err error) {
	slog.Error("Upstream call failed", "method", method, "error", err)
	h.writeError(w, http.StatusBadGateway, models.CodeUpstreamError,
		"The assistant is unavailable right now. Please try again.")
}

// decodeJSON decodes a size-limited JSON body. limit <= 0 uses the default.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, limit int64) bool {
	if limit <= 0 {
		limit = maxRequestBodySize
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, "Invalid JSON body")
		return false
	}
	return true
}

// ownerFor derives the admission owner identity for a request: registered
// user ID, hashed guest session token, or the anonymous sentinel. Tokens are
// hashed so the credential never lands in logs or pool state.
func (h *Handler) ownerFor(r *http.Request) string {
	if claims := middleware.GetUserClaims(r); claims != nil && claims.UserID != "" {
		return "user:" + claims.UserID
	}
	if token := r.Header.Get(middleware.SessionTokenHeader); token != "" {
		sum := sha256.Sum256([]byte(token))
		return "session:" + hex.EncodeToString(sum[:6])
	}
	return services.AnonymousOwner
}

// acquireSlot claims an admission slot or writes the capacity response.
// Callers must defer slot.Release() immediately on success.
func (h *Handler) acquireSlot(w http.ResponseWriter, r *http.Request) (*services.Slot, bool) {
	slot, ok := h.pool.Acquire(h.ownerFor(r))
	if !ok {
		slog.Warn("Admission rejected, pool exhausted",
			"path", r.URL.Path,
			"live", h.pool.Live(),
			"capacity", h.pool.Capacity(),
		)
		h.writeCapacityExceeded(w)
		return nil, false
	}
	return slot, true
}

// upstreamCtx bounds an upstream call with the configured timeout so a hung
// provider cannot exhaust slots indefinitely.
func (h *Handler) upstreamCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), time.Duration(h.cfg.UpstreamTimeout)*time.Second)
}

// record emits one prompt/response observability record, fire-and-forget.
func (h *Handler) record(r *http.Request, method string, status int, start time.Time, retries, tokenEstimate int) {
	if h.logs == nil {
		return
	}
	h.logs.Record(services.PromptLog{
		RequestID:     middleware.GetRequestID(r),
		Method:        method,
		Status:        status,
		LatencyMs:     time.Since(start).Milliseconds(),
		RetryCount:    retries,
		TokenEstimate: tokenEstimate,
		Model:         h.cfg.Model,
	})
}

// Close flushes and stops the prompt log sink.
func (h *Handler) Close() {
	if h.logs != nil {
		h.logs.Close()
	}
}
