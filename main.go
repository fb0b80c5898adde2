// ABOUTME: Entry point for the SkillR AI gateway service
// ABOUTME: Wires config, middleware chains, and the HTTP route table

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/cache"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/config"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/handlers"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/logger"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	authMode, err := middleware.ValidateAuthMode(cfg.AuthMode)
	if err != nil {
		slog.Error("Invalid AUTH_MODE", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting SkillR AI Gateway")
	slog.Info("Upstream model configured", "model", cfg.Model, "max_concurrent", cfg.MaxConcurrent)
	if cfg.SpeechConfigured() {
		slog.Info("Speech backend configured", "url", cfg.SpeechAPIURL)
	} else {
		slog.Info("Speech backend not configured, speech endpoints disabled")
	}

	// Initialize cache (used for synthesized audio)
	cacheTTL := time.Duration(cfg.TTSCacheTTL) * time.Second
	c := cache.New(cacheTTL)
	slog.Info("Cache initialized", "ttl", cacheTTL)

	// Initialize handlers
	h := handlers.NewHandler(cfg, c)
	defer h.Close()

	auth := middleware.Auth(middleware.AuthConfig{Mode: authMode, Secret: cfg.AuthJWTSecret})
	cors := middleware.CORS(cfg.CORSAllowedOrigins)

	var sessionLimiter, defaultLimiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		sessionLimiter = middleware.NewRateLimiter(cfg.RateLimitSession, time.Minute)
		defaultLimiter = middleware.NewRateLimiter(cfg.RateLimitDefault, time.Minute)
		slog.Info("Rate limiting enabled", "session_per_min", cfg.RateLimitSession, "default_per_min", cfg.RateLimitDefault)
	}

	mux := http.NewServeMux()

	// Method-qualified patterns never match OPTIONS, so each path also gets
	// a bare fallback: CORS answers browser preflight there, and any other
	// method lands on the 405 envelope.
	fallback := middleware.Chain(h.MethodNotAllowed, cors, middleware.LogRequest)
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Path, fallback)

		mws := []func(http.HandlerFunc) http.HandlerFunc{cors, middleware.LogRequest, auth}
		if cfg.RateLimitEnabled {
			switch route.Path {
			case "/api/v1/ai/session":
				mws = append(mws, middleware.RateLimit(sessionLimiter, middleware.ClientIP))
			case "/api/v1/health", "/api/v1/openapi.yaml":
				// health and spec stay unthrottled for probes
			default:
				mws = append(mws, middleware.RateLimit(defaultLimiter, middleware.UserOrIP))
			}
		}
		mux.HandleFunc(route.Method+" "+route.Path, middleware.Chain(route.Handler, mws...))
	}

	// Start server
	addr := ":" + cfg.Port
	slog.Info("Server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
