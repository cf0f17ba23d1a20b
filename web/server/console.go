package server

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

// ConsoleMessage is one line of renderer output forwarded to the browser
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"` // Without the trailing newline
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info" or "warning"
}

// WebLogger is the core.Logger of a single streamed render. Each message is
// echoed to the server log and queued for the SSE stream; messages that do
// not fit in the queue are counted and dropped so the render never blocks.
type WebLogger struct {
	renderID string
	messages chan<- ConsoleMessage
	dropped  atomic.Int64
}

// NewWebLogger creates a logger for renderID. messages may be nil to only log locally.
func NewWebLogger(renderID string, messages chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{renderID: renderID, messages: messages}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	log.Printf("[%s] %s", wl.renderID, message)

	if wl.messages == nil {
		return
	}
	msg := ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
	}
	select {
	case wl.messages <- msg:
	default:
		wl.dropped.Add(1)
	}
}

// Dropped returns the number of messages that were not queued
func (wl *WebLogger) Dropped() int64 {
	return wl.dropped.Load()
}

// messageLevel marks cancellation reports from the renderer as warnings
func messageLevel(message string) string {
	if strings.Contains(message, "cancelled") {
		return "warning"
	}
	return "info"
}
