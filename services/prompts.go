// ABOUTME: Server-side registry of system instructions keyed by opaque prompt keys
// ABOUTME: Clients select a key; the instruction set reachable by callers is closed

package services

import "sync"

// System instructions for the non-conversational operations. These are fixed
// and never caller-selectable; extraction and generation have no legitimate
// reason to vary their framing.
const (
	InsightsInstruction = `You are an evaluator for a youth career-orientation platform. Read the onboarding conversation transcript and respond with ONLY a JSON object, no prose, of the shape:
{"interests": [3-5 short strings], "strengths": [2-4 short strings], "preferredStyle": "hands-on"|"visual"|"auditory"|"reading", "recommendedJourney": "explorer"|"creator"|"analyst"|"communicator", "summary": "2-3 sentences about the user"}`

	StationResultInstruction = `You are an evaluator for a journey station exercise. Read the station conversation transcript and respond with ONLY a JSON object, no prose, of the shape:
{"dimensionScores": {"<dimension>": number 0-100, ...}, "summary": "2-3 sentences of feedback"}`

	CurriculumInstruction = `You are a curriculum planner. Given a learning goal, respond with ONLY a JSON object, no prose, of the shape:
{"modules": [exactly 12 items of {"id": "kebab-case-id", "title": string, "description": string, "category": "V"|"U"|"C"|"A", "order": 1-12}]}`

	CourseInstruction = `You are a course author. Given a module title and the learner's goal, respond with ONLY a JSON object, no prose, of the shape:
{"title": string, "sections": [{"heading": string, "body": string}, ...], "quiz": [{"question": string, "options": [strings], "answer": index into options}, ...]}`
)

// defaultInstruction is resolved for unknown prompt keys. Generic on purpose:
// an unrecognized key must not become an error, and must not unlock anything
// beyond the most constrained persona.
const defaultInstruction = `You are a friendly career-orientation coach for young people. Keep answers short, encouraging, and on the topic of interests, strengths, and career discovery. Politely decline requests unrelated to career orientation.`

// Registry maps server-known prompt keys to canonical system instructions.
type Registry struct {
	mu      sync.RWMutex
	prompts map[string]string
}

// NewRegistry creates a registry preloaded with the product's prompt set.
func NewRegistry() *Registry {
	return &Registry{
		prompts: map[string]string{
			"onboarding": `You are the SkillR onboarding coach for young people exploring career directions. Ask one short question at a time about interests, strengths, and how the user likes to learn. Be warm and concrete. Never ask for personal data such as full name, address, or school.`,

			"station-coach": `You are a station coach guiding the user through a journey exercise. Stay inside the exercise's scenario, give one step at a time, and encourage the user to explain their thinking.`,

			"profile-review": `You are a reflection coach. Help the user review their profile insights, discuss what resonates, and suggest which journey station to try next. Keep answers under four sentences.`,
		},
	}
}

// Resolve returns the system instruction for a key, or the generic default
// instruction when the key is unknown. Unknown keys are not an error.
func (r *Registry) Resolve(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prompts[key]; ok {
		return p
	}
	return defaultInstruction
}

// Known reports whether a key is in the registry. Used for observability
// only; Resolve never fails.
func (r *Registry) Known(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.prompts[key]
	return ok
}
