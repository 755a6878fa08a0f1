// Package sse writes server-sent-event frames over an HTTP response.
package sse

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Streamer serializes events onto a long-lived text/event-stream
// response in production order. Each Emit flushes exactly one frame to
// the transport before returning; nothing is batched or reordered.
type Streamer struct {
	w       http.ResponseWriter
	flusher http.Flusher
	logger  *slog.Logger
	closed  bool
}

// Open marks the response as a persistent event stream, disables
// intermediary buffering and flushes the headers before any body bytes.
// It fails when the underlying writer cannot flush.
func Open(w http.ResponseWriter, logger *slog.Logger) (*Streamer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("sse: response writer does not support streaming")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Streamer{w: w, flusher: flusher, logger: logger}, nil
}

// Emit writes one event as a single data frame and flushes it. Events
// use the default message type; no event name is set.
func (s *Streamer) Emit(event any) error {
	if s.closed {
		return fmt.Errorf("sse: emit on closed stream")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("sse: marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("sse: write frame: %w", err)
	}
	s.flusher.Flush()

	s.logger.Debug("emitted frame", "data", string(data))
	return nil
}

// Close terminates the stream with the distinguished end frame. It
// carries no payload and is sent exactly once; later calls are no-ops.
func (s *Streamer) Close() {
	if s.closed {
		return
	}
	s.closed = true

	fmt.Fprint(s.w, "event: end\ndata: {}\n\n")
	s.flusher.Flush()
}
