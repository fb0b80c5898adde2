// ABOUTME: Configuration loader for the AI gateway service
// ABOUTME: Loads settings from environment variables with defaults and validation

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port               string
	CORSAllowedOrigins []string // allowed CORS origins (empty = allow all)
	AuthMode           string   // disabled, optional, required (default: optional)

	// Identity
	SessionTokenSecret string // HMAC secret for guest session tokens
	SessionTokenTTLMin int    // guest token lifetime in minutes (default 30)
	AuthJWTSecret      string // HS256 secret for registered-user bearer tokens

	// Upstream LLM
	AnthropicAPIKey  string
	Model            string
	MaxTokens        int // per-response output token cap
	UpstreamTimeout  int // seconds, bound on every upstream call
	RetryMax         int // additional attempts after the first try
	RetryDelayMillis int // linear backoff base delay

	// Admission
	MaxConcurrent         int // global in-flight upstream ceiling
	MaxConcurrentPerOwner int // per-session sub-limit (0 disables)

	// Rate limiting (requests per minute)
	RateLimitEnabled bool
	RateLimitSession int // session token issuance
	RateLimitDefault int // all AI operations

	// Speech provider (optional)
	SpeechAPIURL string
	SpeechAPIKey string
	TTSCacheTTL  int // seconds, cache for synthesized audio
}

// SpeechConfigured returns true if the speech provider is set up.
func (c *Config) SpeechConfigured() bool {
	return c.SpeechAPIURL != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		AuthMode:           getEnv("AUTH_MODE", "optional"),

		SessionTokenSecret: os.Getenv("SESSION_TOKEN_SECRET"),
		SessionTokenTTLMin: getEnvInt("SESSION_TOKEN_TTL_MINUTES", 30),
		AuthJWTSecret:      os.Getenv("AUTH_JWT_SECRET"),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		Model:            getEnv("AI_MODEL", "claude-3-5-haiku-latest"),
		MaxTokens:        getEnvInt("AI_MAX_TOKENS", 1024),
		UpstreamTimeout:  getEnvInt("AI_UPSTREAM_TIMEOUT", 30),
		RetryMax:         getEnvInt("AI_RETRY_MAX", 3),
		RetryDelayMillis: getEnvInt("AI_RETRY_DELAY_MS", 2000),

		MaxConcurrent:         getEnvInt("AI_MAX_CONCURRENT", 28),
		MaxConcurrentPerOwner: getEnvInt("AI_MAX_CONCURRENT_PER_OWNER", 4),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitSession: getEnvInt("RATE_LIMIT_SESSION", 10),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 60),

		SpeechAPIURL: ensureScheme(os.Getenv("SPEECH_API_URL")),
		SpeechAPIKey: os.Getenv("SPEECH_API_KEY"),
		TTSCacheTTL:  getEnvInt("TTS_CACHE_TTL", 3600),
	}

	// Validate required fields
	if cfg.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if cfg.SessionTokenSecret == "" {
		return nil, fmt.Errorf("SESSION_TOKEN_SECRET is required")
	}
	if len(cfg.SessionTokenSecret) < 32 {
		return nil, fmt.Errorf("SESSION_TOKEN_SECRET must be at least 32 characters")
	}

	// Validate numeric ranges
	for _, bound := range []struct {
		name     string
		value    int
		min, max int
	}{
		{"SESSION_TOKEN_TTL_MINUTES", cfg.SessionTokenTTLMin, 1, 24 * 60},
		{"AI_MAX_TOKENS", cfg.MaxTokens, 1, 64000},
		{"AI_UPSTREAM_TIMEOUT", cfg.UpstreamTimeout, 1, 300},
		{"AI_RETRY_MAX", cfg.RetryMax, 0, 10},
		{"AI_RETRY_DELAY_MS", cfg.RetryDelayMillis, 1, 60000},
		{"AI_MAX_CONCURRENT", cfg.MaxConcurrent, 1, 10000},
		{"RATE_LIMIT_SESSION", cfg.RateLimitSession, 1, 10000},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault, 1, 10000},
		{"TTS_CACHE_TTL", cfg.TTSCacheTTL, 1, 7 * 24 * 3600},
	} {
		if bound.value < bound.min || bound.value > bound.max {
			return nil, fmt.Errorf("%s must be between %d and %d, got %d",
				bound.name, bound.min, bound.max, bound.value)
		}
	}
	if cfg.MaxConcurrentPerOwner < 0 {
		return nil, fmt.Errorf("AI_MAX_CONCURRENT_PER_OWNER must not be negative, got %d", cfg.MaxConcurrentPerOwner)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
