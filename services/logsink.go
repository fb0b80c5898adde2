// ABOUTME: Fire-and-forget prompt/response log sink for observability
// ABOUTME: Buffered channel plus writer goroutine; a full buffer drops records

package services

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tidwall/sjson"
)

// PromptLog is one observability record per AI gateway request. No prompt
// or response bodies are recorded, only shape and cost signals.
type PromptLog struct {
	RequestID     string
	Method        string
	Status        int
	LatencyMs     int64
	RetryCount    int
	TokenEstimate int
	Model         string
}

// LogSink writes PromptLog records as JSON lines, fire-and-forget. Record
// never blocks and never fails the request: when the buffer is full the
// record is dropped and counted.
type LogSink struct {
	w       io.Writer
	mu      sync.Mutex
	ch      chan []byte
	done    chan struct{}
	closed  bool
	dropped atomic.Int64
}

// NewLogSink creates a sink writing to w and starts its writer goroutine.
func NewLogSink(w io.Writer) *LogSink {
	s := &LogSink{
		w:    w,
		ch:   make(chan []byte, 256),
		done: make(chan struct{}),
	}
	go s.run()
	return s
}

// Record enqueues one log record. Non-blocking; records arriving after
// Close are dropped rather than racing the channel close.
func (s *LogSink) Record(rec PromptLog) {
	line, err := encodeRecord(rec, time.Now())
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.ch <- line:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns the number of records discarded due to a full buffer.
func (s *LogSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close stops the writer after draining buffered records. The channel is
// closed under the same lock Record sends under, so a request racing
// shutdown drops its record instead of panicking.
func (s *LogSink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	s.mu.Unlock()
	<-s.done
}

func (s *LogSink) run() {
	defer close(s.done)
	for line := range s.ch {
		if _, err := s.w.Write(append(line, '\n')); err != nil {
			// Logging failures must never surface to requests.
			slog.Debug("Prompt log write failed", "error", err)
		}
	}
}

// encodeRecord assembles the JSON line for one record.
func encodeRecord(rec PromptLog, now time.Time) ([]byte, error) {
	line := []byte(`{}`)
	var err error
	for _, field := range []struct {
		key   string
		value interface{}
	}{
		{"ts", now.UTC().Format(time.RFC3339Nano)},
		{"request_id", rec.RequestID},
		{"method", rec.Method},
		{"status", rec.Status},
		{"latency_ms", rec.LatencyMs},
		{"retry_count", rec.RetryCount},
		{"token_estimate", rec.TokenEstimate},
		{"model", rec.Model},
	} {
		line, err = sjson.SetBytes(line, field.key, field.value)
		if err != nil {
			return nil, err
		}
	}
	return line, nil
}

// EstimateTokens is the rough cost heuristic recorded per request: total
// prompt characters divided by four.
func EstimateTokens(parts ...string) int {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	return total / 4
}
