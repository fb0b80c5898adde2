// ABOUTME: Typed result shapes for structured extraction/generation endpoints
// ABOUTME: Each variant ships a canonical fallback used when model output cannot be parsed

package models

import (
	"fmt"
	"time"
)

// Learning styles the profile can recommend. Model output outside this set
// degrades to DefaultLearningStyle.
var LearningStyles = []string{"hands-on", "visual", "auditory", "reading"}

// DefaultLearningStyle is used when the model suggests an unknown style.
const DefaultLearningStyle = "hands-on"

// Journey types the product offers. Model output outside this set degrades
// to DefaultJourney.
var JourneyTypes = []string{"explorer", "creator", "analyst", "communicator"}

// DefaultJourney is used when the model recommends an unknown journey.
const DefaultJourney = "explorer"

// Module categories follow the VUCA framing used across the curriculum.
var ModuleCategories = []string{"V", "U", "C", "A"}

// CurriculumModuleCount is the fixed size of every generated curriculum.
const CurriculumModuleCount = 12

// Insights is the profile summary extracted from an onboarding conversation.
type Insights struct {
	Interests          []string `json:"interests"`
	Strengths          []string `json:"strengths"`
	PreferredStyle     string   `json:"preferredStyle"`
	RecommendedJourney string   `json:"recommendedJourney"`
	Summary            string   `json:"summary"`
}

// FallbackInsights is the canonical default profile returned when extraction
// fails. The user keeps a usable profile and can refine it by chatting more.
func FallbackInsights() Insights {
	return Insights{
		Interests:          []string{"exploring new topics", "creative projects", "working with people"},
		Strengths:          []string{"curiosity", "openness"},
		PreferredStyle:     DefaultLearningStyle,
		RecommendedJourney: DefaultJourney,
		Summary:            "We could not build a detailed profile from this conversation yet. Keep chatting and trying stations to sharpen it.",
	}
}

// StationResult is the evaluation of one journey station exercise.
// CompletedAt is always server-assigned, never trusted from the model.
type StationResult struct {
	StationID       string             `json:"stationId"`
	JourneyType     string             `json:"journeyType"`
	DimensionScores map[string]float64 `json:"dimensionScores"`
	Summary         string             `json:"summary"`
	CompletedAt     time.Time          `json:"completedAt"`
}

// FallbackStationResult is the canonical default evaluation: empty scores and
// a fixed placeholder summary, with the server-assigned completion time.
func FallbackStationResult(journeyType, stationID string, completedAt time.Time) StationResult {
	return StationResult{
		StationID:       stationID,
		JourneyType:     journeyType,
		DimensionScores: map[string]float64{},
		Summary:         "Station completed. A detailed evaluation is not available for this run.",
		CompletedAt:     completedAt,
	}
}

// Module is one unit of a generated curriculum.
type Module struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Order       int    `json:"order"`
}

// Curriculum is a 12-module learning plan toward a user goal.
type Curriculum struct {
	Goal    string   `json:"goal"`
	Modules []Module `json:"modules"`
}

// FallbackCurriculum is the canonical default plan: twelve generic modules
// cycling through the V/U/C/A categories in order.
func FallbackCurriculum(goal string) Curriculum {
	modules := make([]Module, CurriculumModuleCount)
	for i := range modules {
		n := i + 1
		modules[i] = Module{
			ID:          fmt.Sprintf("module-%d", n),
			Title:       fmt.Sprintf("Step %d toward your goal", n),
			Description: "A personalized module will appear here once plan generation succeeds.",
			Category:    ModuleCategories[i%len(ModuleCategories)],
			Order:       n,
		}
	}
	return Curriculum{Goal: goal, Modules: modules}
}

// Section is one content block of a generated course.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// QuizItem is one multiple-choice question. Answer indexes into Options.
type QuizItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// CourseContent is the full content for one curriculum module.
type CourseContent struct {
	Title    string     `json:"title"`
	Sections []Section  `json:"sections"`
	Quiz     []QuizItem `json:"quiz"`
}

// FallbackCourse is the canonical default course: one placeholder section and
// no quiz, titled after the requested module.
func FallbackCourse(moduleTitle string) CourseContent {
	return CourseContent{
		Title: moduleTitle,
		Sections: []Section{
			{
				Heading: "Content unavailable",
				Body:    "We could not generate this course right now. Please try again in a moment.",
			},
		},
		Quiz: []QuizItem{},
	}
}
