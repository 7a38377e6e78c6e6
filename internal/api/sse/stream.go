package sse

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/jwpark-dev/cardtable/internal/api/response"
	"github.com/jwpark-dev/cardtable/internal/events"
)

// pingPeriod is the time between keepalive comments
const pingPeriod = 15 * time.Second

// ServeEvents streams bus events to an HTTP client as server-sent events
// until the client disconnects
func ServeEvents(w http.ResponseWriter, r *http.Request, bus *events.Bus) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	// Send initial connection event
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			data, err := json.Marshal(response.EventFromModel(evt))
			if err != nil {
				continue
			}
			if _, err := w.Write(formatMessage(string(evt.Type), string(data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// formatMessage formats an SSE message with event name and data.
// Multi-line data gets a "data: " prefix on each line.
func formatMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}
