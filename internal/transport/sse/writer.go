// File: internal/transport/sse/writer.go
// Package sse frames answer fragments as server-sent events and
// reassembles them on the receiving side. Newlines inside a fragment are
// escaped so every event stays a single data line.
package sse

import (
	"fmt"
	"net/http"
	"strings"
)

const (
	// ErrorFrame is the terminal event payload sent after a mid-stream
	// generation failure. Any partial answer already sent stands.
	ErrorFrame = "[Error generating response]"

	newlineEscape = "\\n"
)

// Escape rewrites literal newlines so the fragment survives SSE's
// line-oriented framing.
func Escape(fragment string) string {
	return strings.ReplaceAll(fragment, "\n", newlineEscape)
}

// Unescape reverses Escape on a received payload.
func Unescape(payload string) string {
	return strings.ReplaceAll(payload, newlineEscape, "\n")
}

// Writer frames fragments onto an http.ResponseWriter and flushes after
// every event so fragments reach the client as they are produced.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares the response for event streaming. It returns an
// error when the underlying writer cannot flush, since buffered SSE
// defeats the point.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one fragment as a single SSE event and flushes it.
func (s *Writer) Send(fragment string) error {
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", Escape(fragment)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// SendError emits the terminal error frame.
func (s *Writer) SendError() error {
	return s.Send(ErrorFrame)
}
