// ABOUTME: Extraction endpoint handlers: profile insights and station results
// ABOUTME: Model output is normalized into typed shapes with guaranteed fallbacks

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/services"
)

// ExtractInsights turns an onboarding conversation into profile insights.
// A bad generation degrades to the canonical fallback profile, never an error.
func (h *Handler) ExtractInsights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.InsightsRequest
	if !h.decodeJSON(w, r, &req, 0) {
		return
	}

	if len(req.ChatHistory) == 0 {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, "chatHistory is required")
		return
	}
	if err := services.ValidateHistory(req.ChatHistory); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "extract-insights", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	transcript := services.RenderTranscript(req.ChatHistory)

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	raw, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		return h.upstream.Generate(ctx, services.GenerateRequest{
			System: services.InsightsInstruction,
			Input:  transcript,
		})
	})
	if err != nil {
		h.record(r, "extract-insights", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "extract-insights", err)
		return
	}

	data := services.ParseInsights(raw)

	h.record(r, "extract-insights", http.StatusOK, start, retries, services.EstimateTokens(transcript, raw))
	h.writeJSON(w, http.StatusOK, models.InsightsResponse{Data: data, RetryCount: retries})
}

// ExtractStationResult evaluates a journey station exercise conversation.
// The completion timestamp is server-assigned, never trusted from the model.
func (h *Handler) ExtractStationResult(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.StationResultRequest
	if !h.decodeJSON(w, r, &req, 0) {
		return
	}

	if err := services.ValidateJourneyType(req.JourneyType); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if err := services.ValidateStationID(req.StationID); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if len(req.ChatHistory) == 0 {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, "chatHistory is required")
		return
	}
	if err := services.ValidateHistory(req.ChatHistory); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "extract-station-result", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	transcript := services.RenderTranscript(req.ChatHistory)

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	raw, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		return h.upstream.Generate(ctx, services.GenerateRequest{
			System: services.StationResultInstruction,
			Input:  transcript,
		})
	})
	if err != nil {
		h.record(r, "extract-station-result", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "extract-station-result", err)
		return
	}

	data := services.ParseStationResult(raw, req.JourneyType, req.StationID, time.Now().UTC())

	h.record(r, "extract-station-result", http.StatusOK, start, retries, services.EstimateTokens(transcript, raw))
	h.writeJSON(w, http.StatusOK, models.StationResultResponse{Data: data, RetryCount: retries})
}
