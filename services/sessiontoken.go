// ABOUTME: Stateless guest session tokens for the pre-registration funnel
// ABOUTME: HMAC-signed expiry timestamps, validated without server-side state

package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// TokenIssuer mints and verifies short-lived guest session tokens.
// Wire format: "<unixMillis>.<hexHMAC-SHA256>". No server-side record is
// kept; validity is re-derived from the payload and the process-wide secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates an issuer with the given secret and TTL.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue mints a token expiring TTL from now.
func (ti *TokenIssuer) Issue() (string, time.Time) {
	expiresAt := ti.now().Add(ti.ttl)
	payload := strconv.FormatInt(expiresAt.UnixMilli(), 10)
	return payload + "." + ti.sign(payload), expiresAt
}

// Validate checks a token and fails closed: missing token, malformed
// structure, signature mismatch, or expiry all return false. Signature
// comparison is constant-time.
func (ti *TokenIssuer) Validate(token string) bool {
	if token == "" {
		return false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return false
	}
	payload, sig := parts[0], parts[1]

	expected := ti.sign(payload)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return false
	}

	expiry, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return false
	}
	return ti.now().Before(time.UnixMilli(expiry))
}

// sign computes the hex HMAC-SHA256 of the decimal expiry payload.
func (ti *TokenIssuer) sign(payload string) string {
	mac := hmac.New(sha256.New, ti.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
