// ABOUTME: HTTP client for the speech provider (synthesis and transcription)
// ABOUTME: Round-trips base64 audio payloads and maps 429s to UpstreamError

package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Speech is the speech provider abstraction consumed by the handlers.
type Speech interface {
	// Synthesize returns raw 16-bit PCM for the given text and dialect.
	Synthesize(ctx context.Context, text, dialect string) ([]byte, error)
	// Transcribe returns the text spoken in the given audio payload.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// SpeechClient talks to the speech API over HTTP.
type SpeechClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewSpeechClient creates a speech client for the given base URL and key.
func NewSpeechClient(baseURL, apiKey string, timeout time.Duration) *SpeechClient {
	return &SpeechClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// Synthesize requests PCM16 audio for text in the given dialect.
func (s *SpeechClient) Synthesize(ctx context.Context, text, dialect string) ([]byte, error) {
	payload := map[string]string{
		"text":    text,
		"dialect": dialect,
		"format":  "pcm16",
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := s.post(ctx, "/v1/audio/speech", payload, &result); err != nil {
		return nil, err
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("speech API returned invalid audio encoding: %w", err)
	}
	return audio, nil
}

// Transcribe requests a transcription of the given audio payload.
func (s *SpeechClient) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	payload := map[string]string{
		"audio":    base64.StdEncoding.EncodeToString(audio),
		"mimeType": mimeType,
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := s.post(ctx, "/v1/audio/transcriptions", payload, &result); err != nil {
		return "", err
	}
	return result.Text, nil
}

func (s *SpeechClient) post(ctx context.Context, path string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode speech request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		code := "api_error"
		if resp.StatusCode == http.StatusTooManyRequests {
			code = "rate_limit_error"
		}
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Code:       code,
			Message:    "speech provider request failed",
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to parse speech response: %w", err)
	}
	return nil
}
