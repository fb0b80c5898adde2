// ABOUTME: Tests for the speech provider HTTP client
// ABOUTME: Uses httptest servers to verify payloads and error mapping

package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSpeechClient_Synthesize(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("path = %q, want /v1/audio/speech", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["text"] != "hallo" || req["dialect"] != "de-CH" || req["format"] != "pcm16" {
			t.Errorf("unexpected payload: %v", req)
		}

		json.NewEncoder(w).Encode(map[string]string{
			"audioContent": base64.StdEncoding.EncodeToString(pcm),
		})
	}))
	defer server.Close()

	c := NewSpeechClient(server.URL, "test-key", 5*time.Second)
	audio, err := c.Synthesize(context.Background(), "hallo", "de-CH")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(audio, pcm) {
		t.Errorf("audio = %v, want %v", audio, pcm)
	}
}

func TestSpeechClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %q, want /v1/audio/transcriptions", r.URL.Path)
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["mimeType"] != "audio/webm" {
			t.Errorf("mimeType = %q", req["mimeType"])
		}
		if _, err := base64.StdEncoding.DecodeString(req["audio"]); err != nil {
			t.Errorf("audio not base64: %v", err)
		}

		json.NewEncoder(w).Encode(map[string]string{"text": "ich mag roboter"})
	}))
	defer server.Close()

	c := NewSpeechClient(server.URL, "", 5*time.Second)
	text, err := c.Transcribe(context.Background(), []byte("audio-bytes"), "audio/webm")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "ich mag roboter" {
		t.Errorf("text = %q", text)
	}
}

func TestSpeechClient_RateLimitMapsToRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewSpeechClient(server.URL, "", 5*time.Second)
	_, err := c.Synthesize(context.Background(), "text", "de")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsRateLimited(err) {
		t.Errorf("429 should map to a retryable error, got %v", err)
	}
}

func TestSpeechClient_ServerErrorNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewSpeechClient(server.URL, "", 5*time.Second)
	_, err := c.Transcribe(context.Background(), []byte("x"), "audio/webm")
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRateLimited(err) {
		t.Errorf("500 must not look retryable: %v", err)
	}
}
