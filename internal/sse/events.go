package sse

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SSE event type constants
const (
	EventSession = "session"
	EventLoading = "loading"
	EventStatus  = "status-update"
	EventError   = "error-message"
)

// Message represents a message sent via Server-Sent Events
type Message struct {
	Event string // Event type (e.g., "session", "loading")
	Data  string // JSON or HTML payload
}

// Write writes msg in event-stream framing. Multi-line data is split into
// one data field per line.
func Write(w io.Writer, msg Message) error {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(msg.Event)
	b.WriteString("\n")
	for _, line := range strings.Split(msg.Data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write event %s: %w", msg.Event, err)
	}
	return nil
}

// SetHeaders prepares w for an event stream.
func SetHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies
}
