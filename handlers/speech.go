// ABOUTME: Speech endpoint handlers: text-to-speech synthesis and transcription
// ABOUTME: Both return 503 when no speech backend is configured; TTS results are cached

package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/services"
)

// TextToSpeech synthesizes short text into base64-encoded PCM audio.
// Identical text and dialect pairs are served from the cache.
func (h *Handler) TextToSpeech(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.speech == nil {
		h.writeError(w, http.StatusServiceUnavailable, models.CodeSpeechUnavailable, "speech synthesis is not configured")
		return
	}

	var req models.TTSRequest
	if !h.decodeJSON(w, r, &req, 0) {
		return
	}

	if err := services.ValidateTTSText(req.Text); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if err := services.ValidateDialect(req.Dialect); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}

	text := services.SanitizePrompt(req.Text, services.MaxTTSTextLength)
	cacheKey := ttsCacheKey(text, req.Dialect)
	if cached, ok := h.cache.Get(cacheKey); ok {
		if audio, ok := cached.(string); ok {
			h.record(r, "text-to-speech", http.StatusOK, start, 0, 0)
			h.writeJSON(w, http.StatusOK, models.TTSResponse{Audio: audio})
			return
		}
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "text-to-speech", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	audio, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		pcm, err := h.speech.Synthesize(ctx, text, req.Dialect)
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(pcm), nil
	})
	if err != nil {
		h.record(r, "text-to-speech", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "text-to-speech", err)
		return
	}

	if h.cfg != nil {
		h.cache.SetWithTTL(cacheKey, audio, time.Duration(h.cfg.TTSCacheTTL)*time.Second)
	} else {
		h.cache.Set(cacheKey, audio)
	}

	h.record(r, "text-to-speech", http.StatusOK, start, retries, services.EstimateTokens(text))
	h.writeJSON(w, http.StatusOK, models.TTSResponse{Audio: audio})
}

// SpeechToText transcribes base64-encoded audio into text.
func (h *Handler) SpeechToText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.speech == nil {
		h.writeError(w, http.StatusServiceUnavailable, models.CodeSpeechUnavailable, "speech transcription is not configured")
		return
	}

	var req models.STTRequest
	if !h.decodeJSON(w, r, &req, maxSpeechRequestBodySize) {
		return
	}

	if err := services.ValidateAudioMimeType(req.MimeType); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if req.AudioBase64 == "" {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, "audioBase64 is required")
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, "audioBase64 is not valid base64")
		return
	}
	if len(audio) > services.MaxAudioBytes {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, "audio exceeds the maximum allowed size")
		return
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "speech-to-text", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	text, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		return h.speech.Transcribe(ctx, audio, req.MimeType)
	})
	if err != nil {
		h.record(r, "speech-to-text", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "speech-to-text", err)
		return
	}

	h.record(r, "speech-to-text", http.StatusOK, start, retries, services.EstimateTokens(text))
	h.writeJSON(w, http.StatusOK, models.STTResponse{Text: text})
}

func ttsCacheKey(text, dialect string) string {
	sum := sha256.Sum256([]byte(text + "|" + dialect))
	return "tts:" + hex.EncodeToString(sum[:12])
}
