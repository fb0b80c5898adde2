// ABOUTME: Content generation handlers: curriculum plans and course material
// ABOUTME: Both degrade to deterministic fallback content when generation misbehaves

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/services"
)

// GenerateCurriculum produces a twelve-module learning plan for a goal.
func (h *Handler) GenerateCurriculum(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CurriculumRequest
	if !h.decodeJSON(w, r, &req, 0) {
		return
	}

	if err := services.ValidateGoal(req.Goal); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "generate-curriculum", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	goal := services.SanitizePrompt(req.Goal, services.MaxGoalLength)
	input := fmt.Sprintf("Learning goal: %s", goal)

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	raw, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		return h.upstream.Generate(ctx, services.GenerateRequest{
			System: services.CurriculumInstruction,
			Input:  input,
		})
	})
	if err != nil {
		h.record(r, "generate-curriculum", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "generate-curriculum", err)
		return
	}

	data := services.ParseCurriculum(raw, goal)

	h.record(r, "generate-curriculum", http.StatusOK, start, retries, services.EstimateTokens(input, raw))
	h.writeJSON(w, http.StatusOK, models.CurriculumResponse{Data: data, RetryCount: retries})
}

// GenerateCourse produces sections and a quiz for one curriculum module.
func (h *Handler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CourseRequest
	if !h.decodeJSON(w, r, &req, 0) {
		return
	}

	if err := services.ValidateModuleTitle(req.Module); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}
	if err := services.ValidateGoal(req.Goal); err != nil {
		h.writeError(w, http.StatusBadRequest, models.CodeInvalidRequest, err.Error())
		return
	}

	slot, ok := h.acquireSlot(w, r)
	if !ok {
		h.record(r, "generate-course", http.StatusServiceUnavailable, start, 0, 0)
		return
	}
	defer slot.Release()

	module := services.SanitizePrompt(req.Module, services.MaxModuleLength)
	goal := services.SanitizePrompt(req.Goal, services.MaxGoalLength)
	input := fmt.Sprintf("Module: %s\nOverall learning goal: %s", module, goal)

	ctx, cancel := h.upstreamCtx(r)
	defer cancel()

	raw, retries, err := h.invoker.Do(ctx, func(ctx context.Context) (string, error) {
		return h.upstream.Generate(ctx, services.GenerateRequest{
			System: services.CourseInstruction,
			Input:  input,
		})
	})
	if err != nil {
		h.record(r, "generate-course", http.StatusBadGateway, start, retries, 0)
		h.writeUpstreamError(w, "generate-course", err)
		return
	}

	data := services.ParseCourse(raw, module)

	h.record(r, "generate-course", http.StatusOK, start, retries, services.EstimateTokens(input, raw))
	h.writeJSON(w, http.StatusOK, models.CourseResponse{Data: data, RetryCount: retries})
}
