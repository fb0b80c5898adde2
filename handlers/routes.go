// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},

		// Session
		{Method: http.MethodPost, Path: "/api/v1/ai/session", Handler: h.CreateSession},

		// Conversation
		{Method: http.MethodPost, Path: "/api/v1/ai/chat", Handler: h.Chat},

		// Extraction
		{Method: http.MethodPost, Path: "/api/v1/ai/extract-insights", Handler: h.ExtractInsights},
		{Method: http.MethodPost, Path: "/api/v1/ai/extract-station-result", Handler: h.ExtractStationResult},

		// Generation
		{Method: http.MethodPost, Path: "/api/v1/ai/generate-curriculum", Handler: h.GenerateCurriculum},
		{Method: http.MethodPost, Path: "/api/v1/ai/generate-course", Handler: h.GenerateCourse},

		// Speech
		{Method: http.MethodPost, Path: "/api/v1/ai/text-to-speech", Handler: h.TextToSpeech},
		{Method: http.MethodPost, Path: "/api/v1/ai/speech-to-text", Handler: h.SpeechToText},
	}
}
