// Package trace records panel slides as spans and exports them over OTLP.
package trace

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// EventType identifies the kind of trace event
type EventType string

const (
	EventPanelStart EventType = "panel_start" // Panel attached to a host
	EventPanelEnd   EventType = "panel_end"   // Panel detached; trace is complete
	EventSlideStart EventType = "slide_start" // Panel left a rest state
	EventSlideEnd   EventType = "slide_end"   // Panel came to rest again
)

// IsStart reports whether t opens a span.
func (t EventType) IsStart() bool {
	return t == EventPanelStart || t == EventSlideStart
}

// IsEnd reports whether t closes a span.
func (t EventType) IsEnd() bool {
	return t == EventPanelEnd || t == EventSlideEnd
}

// TraceEvent represents a single event in a panel trace
type TraceEvent struct {
	TraceID    string            `json:"trace_id"`   // Unique ID for the panel's lifetime
	SpanID     string            `json:"span_id"`    // Unique ID for this span
	ParentID   string            `json:"parent_id"`  // Parent span ID (empty for root)
	Type       EventType         `json:"type"`       // Event type
	Name       string            `json:"name"`       // Human-readable name
	Timestamp  time.Time         `json:"timestamp"`  // When the event occurred
	Attributes map[string]string `json:"attributes"` // Additional metadata
}

// NewTraceID generates a random 16-byte trace ID as hex string (32 characters)
func NewTraceID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// NewSpanID generates a random 8-byte span ID as hex string (16 characters)
func NewSpanID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
