// ABOUTME: Request and response types for the AI gateway endpoints
// ABOUTME: Field names match the web client's JSON contract (camelCase)

package models

import "time"

// Chat history roles. Exactly two are accepted; anything else is a
// validation error, never a silently tolerated third state.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Machine-readable error codes returned alongside the HTTP status.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeSessionRequired   = "SESSION_REQUIRED"
	CodeQueueRequired     = "QUEUE_REQUIRED"
	CodeUpstreamError     = "UPSTREAM_ERROR"
	CodeSpeechUnavailable = "SPEECH_UNAVAILABLE"
	CodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
)

// ErrorResponse is the JSON error envelope for all endpoints.
type ErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

// ChatMessage is one entry of a client-supplied conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the conversational entry point payload. The client sends a
// server-known prompt key, never raw system instructions.
type ChatRequest struct {
	PromptKey string        `json:"promptKey"`
	History   []ChatMessage `json:"history"`
	Message   string        `json:"userMessage"`
}

// ChatResponse carries the model reply plus the retry count for observability.
type ChatResponse struct {
	Text       string `json:"text"`
	RetryCount int    `json:"retryCount"`
}

// InsightsRequest asks for profile insights extracted from an onboarding chat.
type InsightsRequest struct {
	ChatHistory []ChatMessage `json:"chatHistory"`
}

// InsightsResponse wraps the extracted (or fallback) insights.
type InsightsResponse struct {
	Data       Insights `json:"data"`
	RetryCount int      `json:"retryCount"`
}

// StationResultRequest asks for a station exercise evaluation.
type StationResultRequest struct {
	JourneyType string        `json:"journeyType"`
	StationID   string        `json:"stationId"`
	ChatHistory []ChatMessage `json:"chatHistory"`
}

// StationResultResponse wraps the evaluated (or fallback) station result.
type StationResultResponse struct {
	Data       StationResult `json:"data"`
	RetryCount int           `json:"retryCount"`
}

// CurriculumRequest asks for a 12-module learning plan toward a goal.
type CurriculumRequest struct {
	Goal string `json:"goal"`
}

// CurriculumResponse wraps the generated (or fallback) curriculum.
type CurriculumResponse struct {
	Data       Curriculum `json:"data"`
	RetryCount int        `json:"retryCount"`
}

// CourseRequest asks for full course content for one curriculum module.
type CourseRequest struct {
	Module string `json:"module"`
	Goal   string `json:"goal"`
}

// CourseResponse wraps the generated (or fallback) course content.
type CourseResponse struct {
	Data       CourseContent `json:"data"`
	RetryCount int           `json:"retryCount"`
}

// TTSRequest asks for speech synthesis of a short text.
type TTSRequest struct {
	Text    string `json:"text"`
	Dialect string `json:"dialect"`
}

// TTSResponse carries base64-encoded 16-bit PCM audio.
type TTSResponse struct {
	Audio string `json:"audio"`
}

// STTRequest carries base64-encoded audio for transcription.
type STTRequest struct {
	AudioBase64 string `json:"audioBase64"`
	MimeType    string `json:"mimeType"`
}

// STTResponse carries the transcribed text.
type STTResponse struct {
	Text string `json:"text"`
}

// SessionResponse is returned by the guest session token issuance endpoint.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
