// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds a fully wired gateway server the way main does

package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/cache"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/config"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/handlers"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/middleware"
	"github.com/FutureSkillr/SkillR-MVP-V1-sub000/services"
)

const e2eTokenSecret = "e2e-session-secret-0123456789abcdef0"

// generatorFunc adapts a closure to the services.Generator interface.
type generatorFunc func(ctx context.Context, req services.GenerateRequest) (string, error)

func (f generatorFunc) Generate(ctx context.Context, req services.GenerateRequest) (string, error) {
	return f(ctx, req)
}

// gatewayConfig is the baseline e2e configuration. Tests override fields
// before passing it to newGatewayServer.
func gatewayConfig() *config.Config {
	return &config.Config{
		Port:                  "0",
		AuthMode:              "optional",
		SessionTokenSecret:    e2eTokenSecret,
		SessionTokenTTLMin:    30,
		AnthropicAPIKey:       "e2e-key",
		Model:                 "claude-3-5-haiku-latest",
		MaxTokens:             1024,
		UpstreamTimeout:       10,
		RetryMax:              3,
		RetryDelayMillis:      1,
		MaxConcurrent:         28,
		MaxConcurrentPerOwner: 0,
		TTSCacheTTL:           60,
	}
}

// newGatewayServer assembles the route table behind the full middleware
// chain, mirroring the production wiring.
func newGatewayServer(t *testing.T, cfg *config.Config, gen services.Generator) *httptest.Server {
	t.Helper()

	h := handlers.NewHandler(cfg, cache.New(time.Minute))
	h.SetGeneratorForTesting(gen)
	t.Cleanup(h.Close)

	authMode, err := middleware.ValidateAuthMode(cfg.AuthMode)
	if err != nil {
		t.Fatalf("invalid auth mode: %v", err)
	}
	auth := middleware.Auth(middleware.AuthConfig{Mode: authMode, Secret: cfg.AuthJWTSecret})
	cors := middleware.CORS(cfg.CORSAllowedOrigins)

	mux := http.NewServeMux()
	fallback := middleware.Chain(h.MethodNotAllowed, cors, middleware.LogRequest)
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Path, fallback)
		mux.HandleFunc(route.Method+" "+route.Path,
			middleware.Chain(route.Handler, cors, middleware.LogRequest, auth))
	}

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
