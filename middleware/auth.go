// ABOUTME: Bearer token authentication middleware for registered users
// ABOUTME: Verifies HS256 JWTs from the identity service and attaches claims

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

// AuthMode defines how authentication is enforced.
type AuthMode string

const (
	// AuthModeDisabled skips all authentication.
	AuthModeDisabled AuthMode = "disabled"
	// AuthModeOptional validates tokens if present, allows anonymous.
	AuthModeOptional AuthMode = "optional"
	// AuthModeRequired rejects requests without valid tokens.
	AuthModeRequired AuthMode = "required"
)

// ValidateAuthMode validates an auth mode string. Empty defaults to optional.
func ValidateAuthMode(mode string) (AuthMode, error) {
	switch mode {
	case "", "optional":
		return AuthModeOptional, nil
	case "disabled":
		return AuthModeDisabled, nil
	case "required":
		return AuthModeRequired, nil
	default:
		return "", fmt.Errorf("invalid auth mode: %q (must be disabled, optional, or required)", mode)
	}
}

// UserClaims is the authentication decision attached to the request: the
// gateway consumes who the caller is, not how they proved it.
type UserClaims struct {
	UserID string
	Email  string
}

// AuthConfig holds authentication middleware settings.
type AuthConfig struct {
	Mode   AuthMode
	Secret string // HS256 shared secret; empty disables Bearer verification
}

// tokenClaims is the JWT payload issued by the identity service.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const userClaimsKey contextKey = "userClaims"

// Auth returns middleware that verifies Bearer JWTs:
//   - disabled: passes all requests through
//   - optional: validates auth if present, allows anonymous (endpoints that
//     need a floor, like chat, enforce their own session requirement)
//   - required: rejects requests without a valid token
func Auth(cfg AuthConfig) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if cfg.Mode == AuthModeDisabled {
				next(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				if !strings.HasPrefix(authHeader, "Bearer ") {
					slog.Debug("Auth rejected: invalid format", "path", r.URL.Path)
					writeJSONError(w, "Invalid authorization format", "SESSION_REQUIRED", http.StatusUnauthorized)
					return
				}

				if cfg.Secret == "" {
					slog.Debug("Auth rejected: bearer auth not configured", "path", r.URL.Path)
					writeJSONError(w, "Bearer authentication unavailable", "SESSION_REQUIRED", http.StatusUnauthorized)
					return
				}

				token := strings.TrimPrefix(authHeader, "Bearer ")
				claims, err := verifyToken(token, cfg.Secret)
				if err != nil {
					slog.Debug("Auth rejected: invalid token", "path", r.URL.Path, "error", err.Error())
					writeJSONError(w, "Invalid token", "SESSION_REQUIRED", http.StatusUnauthorized)
					return
				}

				slog.Debug("Auth: valid bearer token", "path", r.URL.Path, "user", claims.UserID)
				ctx := context.WithValue(r.Context(), userClaimsKey, claims)
				next(w, r.WithContext(ctx))
				return
			}

			if cfg.Mode == AuthModeRequired {
				slog.Debug("Auth rejected: no auth provided", "path", r.URL.Path)
				writeJSONError(w, "Authentication required", "SESSION_REQUIRED", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}

// verifyToken parses and verifies an HS256 JWT with the shared secret.
func verifyToken(token, secret string) (*UserClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject claim")
	}

	return &UserClaims{UserID: claims.Subject, Email: claims.Email}, nil
}

// GetUserClaims extracts user claims from request context, nil if absent.
func GetUserClaims(r *http.Request) *UserClaims {
	claims, ok := r.Context().Value(userClaimsKey).(*UserClaims)
	if !ok {
		return nil
	}
	return claims
}

// WithUserClaims attaches claims to a request context. Exported for tests.
func WithUserClaims(ctx context.Context, claims *UserClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}
