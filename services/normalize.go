// ABOUTME: Structured response normalizer for model output
// ABOUTME: Parses upstream text into typed results, degrading to canonical fallbacks

package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
)

// extractJSON pulls the first JSON object out of model text. Models often
// wrap output in markdown fences or add prose around the object.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	candidate := text[start : end+1]
	if !gjson.Valid(candidate) {
		return "", false
	}
	return candidate, true
}

// stringList reads an array of strings, dropping empty entries and trimming
// to max. Returns nil when fewer than min usable entries remain.
func stringList(res gjson.Result, min, max int) []string {
	if !res.IsArray() {
		return nil
	}
	var out []string
	for _, item := range res.Array() {
		s := strings.TrimSpace(item.String())
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	if len(out) < min {
		return nil
	}
	return out
}

// normalizeEnum returns value when it is in the allowed set, else fallback.
func normalizeEnum(value string, allowed []string, fallback string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

// ParseInsights normalizes model output into an Insights value. Any parse
// failure returns the canonical fallback; the caller's flow never breaks on
// a bad generation.
func ParseInsights(raw string) models.Insights {
	js, ok := extractJSON(raw)
	if !ok {
		slog.Debug("Insights output not parseable, using fallback")
		return models.FallbackInsights()
	}

	interests := stringList(gjson.Get(js, "interests"), 3, 5)
	strengths := stringList(gjson.Get(js, "strengths"), 2, 4)
	summary := strings.TrimSpace(gjson.Get(js, "summary").String())
	if interests == nil || strengths == nil || summary == "" {
		slog.Debug("Insights output missing required fields, using fallback")
		return models.FallbackInsights()
	}

	return models.Insights{
		Interests:          interests,
		Strengths:          strengths,
		PreferredStyle:     normalizeEnum(gjson.Get(js, "preferredStyle").String(), models.LearningStyles, models.DefaultLearningStyle),
		RecommendedJourney: normalizeEnum(gjson.Get(js, "recommendedJourney").String(), models.JourneyTypes, models.DefaultJourney),
		Summary:            summary,
	}
}

// ParseStationResult normalizes model output into a StationResult.
// completedAt is server-assigned and attached regardless of model output.
func ParseStationResult(raw, journeyType, stationID string, completedAt time.Time) models.StationResult {
	js, ok := extractJSON(raw)
	if !ok {
		slog.Debug("Station result output not parseable, using fallback", "station", stationID)
		return models.FallbackStationResult(journeyType, stationID, completedAt)
	}

	summary := strings.TrimSpace(gjson.Get(js, "summary").String())
	if summary == "" {
		return models.FallbackStationResult(journeyType, stationID, completedAt)
	}

	scores := map[string]float64{}
	gjson.Get(js, "dimensionScores").ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			return true
		}
		scores[key.String()] = clampScore(value.Float())
		return true
	})

	return models.StationResult{
		StationID:       stationID,
		JourneyType:     journeyType,
		DimensionScores: scores,
		Summary:         summary,
		CompletedAt:     completedAt,
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// ParseCurriculum normalizes model output into a Curriculum with exactly
// twelve modules. Order and IDs are server-repaired; the category must land
// in V/U/C/A or is reassigned by position.
func ParseCurriculum(raw, goal string) models.Curriculum {
	js, ok := extractJSON(raw)
	if !ok {
		slog.Debug("Curriculum output not parseable, using fallback")
		return models.FallbackCurriculum(goal)
	}

	entries := gjson.Get(js, "modules").Array()
	if len(entries) < models.CurriculumModuleCount {
		slog.Debug("Curriculum output has too few modules, using fallback", "count", len(entries))
		return models.FallbackCurriculum(goal)
	}

	modules := make([]models.Module, 0, models.CurriculumModuleCount)
	for i, entry := range entries[:models.CurriculumModuleCount] {
		title := strings.TrimSpace(entry.Get("title").String())
		if title == "" {
			return models.FallbackCurriculum(goal)
		}

		id := strings.TrimSpace(entry.Get("id").String())
		if id == "" || !stationIDPattern.MatchString(id) {
			id = fmt.Sprintf("module-%d", i+1)
		}

		category := strings.ToUpper(strings.TrimSpace(entry.Get("category").String()))
		if !validCategory(category) {
			category = models.ModuleCategories[i%len(models.ModuleCategories)]
		}

		modules = append(modules, models.Module{
			ID:          id,
			Title:       title,
			Description: strings.TrimSpace(entry.Get("description").String()),
			Category:    category,
			Order:       i + 1,
		})
	}

	return models.Curriculum{Goal: goal, Modules: modules}
}

func validCategory(c string) bool {
	for _, allowed := range models.ModuleCategories {
		if c == allowed {
			return true
		}
	}
	return false
}

// ParseCourse normalizes model output into CourseContent. Sections are
// required; malformed quiz items are dropped rather than failing the course.
func ParseCourse(raw, moduleTitle string) models.CourseContent {
	js, ok := extractJSON(raw)
	if !ok {
		slog.Debug("Course output not parseable, using fallback", "module", moduleTitle)
		return models.FallbackCourse(moduleTitle)
	}

	var sections []models.Section
	for _, entry := range gjson.Get(js, "sections").Array() {
		heading := strings.TrimSpace(entry.Get("heading").String())
		body := strings.TrimSpace(entry.Get("body").String())
		if heading == "" || body == "" {
			continue
		}
		sections = append(sections, models.Section{Heading: heading, Body: body})
	}
	if len(sections) == 0 {
		return models.FallbackCourse(moduleTitle)
	}

	title := strings.TrimSpace(gjson.Get(js, "title").String())
	if title == "" {
		title = moduleTitle
	}

	quiz := []models.QuizItem{}
	for _, entry := range gjson.Get(js, "quiz").Array() {
		question := strings.TrimSpace(entry.Get("question").String())
		options := stringList(entry.Get("options"), 2, 6)
		answer := int(entry.Get("answer").Int())
		if question == "" || options == nil || answer < 0 || answer >= len(options) {
			continue
		}
		quiz = append(quiz, models.QuizItem{Question: question, Options: options, Answer: answer})
	}

	return models.CourseContent{Title: title, Sections: sections, Quiz: quiz}
}

// RenderTranscript flattens a chat history into the plain-text transcript
// fed to extraction prompts. Content is sanitized before interpolation.
func RenderTranscript(history []models.ChatMessage) string {
	var sb strings.Builder
	for _, entry := range history {
		label := "User"
		if entry.Role == models.RoleModel {
			label = "Coach"
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		sb.WriteString(SanitizePrompt(entry.Content, MaxMessageLength))
		sb.WriteString("\n")
	}
	return sb.String()
}
