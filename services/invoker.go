// ABOUTME: Bounded retry wrapper for upstream provider calls
// ABOUTME: Retries rate-limit errors only, with linear backoff and a hard cap

package services

import (
	"context"
	"log/slog"
	"time"
)

// Invoker wraps upstream calls with a bounded retry policy. Only
// identifiable rate-limit errors are retried; all other failures propagate
// immediately. Backoff is linear: (attempt+1) * baseDelay.
type Invoker struct {
	maxRetries int
	baseDelay  time.Duration
}

// NewInvoker creates an invoker allowing maxRetries additional attempts
// after the first try.
func NewInvoker(maxRetries int, baseDelay time.Duration) *Invoker {
	return &Invoker{maxRetries: maxRetries, baseDelay: baseDelay}
}

// Do runs fn, retrying rate-limited failures up to the bound. The returned
// retry count flows into prompt/response logging; retries are never hidden
// from the operator. Exhausting the bound surfaces the last error.
func (iv *Invoker) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, int, error) {
	for attempt := 0; ; attempt++ {
		out, err := fn(ctx)
		if err == nil {
			return out, attempt, nil
		}
		if !IsRateLimited(err) {
			return "", attempt, err
		}
		if attempt >= iv.maxRetries {
			return "", attempt, err
		}

		delay := time.Duration(attempt+1) * iv.baseDelay
		slog.Warn("Upstream rate limited, backing off",
			"attempt", attempt+1,
			"delay_ms", delay.Milliseconds(),
		)

		select {
		case <-ctx.Done():
			return "", attempt, ctx.Err()
		case <-time.After(delay):
		}
	}
}
