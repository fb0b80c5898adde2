// ABOUTME: Upstream LLM provider client over the Anthropic SDK
// ABOUTME: Maps SDK failures to structured UpstreamError for the retry predicate

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/models"
)

// UpstreamError is a structured provider failure. The retry layer inspects
// StatusCode/Code instead of matching on message substrings.
type UpstreamError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// IsRateLimited reports whether an error is identifiably a provider
// rate-limit signal. Only these errors are retried; everything else,
// including timeouts, is terminal.
func IsRateLimited(err error) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	return ue.StatusCode == http.StatusTooManyRequests || ue.Code == "rate_limit_error"
}

// GenerateRequest is the provider-agnostic input for one generation call.
type GenerateRequest struct {
	System  string
	History []models.ChatMessage
	Input   string
}

// Generator is the upstream LLM abstraction consumed by the handlers.
// Production uses Client; tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// Client talks to the Anthropic Messages API.
type Client struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewClient creates an upstream client for the given API key and model.
func NewClient(apiKey, model string, maxTokens int64) *Client {
	return &Client{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
	}
}

// Generate sends one message exchange upstream and returns the concatenated
// text output. The caller bounds ctx with the configured upstream timeout.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, entry := range req.History {
		block := anthropic.NewTextBlock(entry.Content)
		if entry.Role == models.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}
	if req.Input != "" {
		messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(req.Input)))
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  messages,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", classifyProviderError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// classifyProviderError converts SDK errors into UpstreamError. Context
// timeouts pass through unchanged so they are never mistaken for retryable
// rate limits.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		code := "api_error"
		if apierr.StatusCode == http.StatusTooManyRequests {
			code = "rate_limit_error"
		}
		return &UpstreamError{
			StatusCode: apierr.StatusCode,
			Code:       code,
			Message:    "provider request failed",
		}
	}

	return fmt.Errorf("upstream call failed: %w", err)
}
