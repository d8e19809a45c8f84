package trace

import (
	"context"
	"sync"
	"time"
)

// Span represents a span with start time and duration
type Span struct {
	TraceID    string
	SpanID     string
	ParentID   string
	Name       string
	StartTime  time.Time
	Duration   time.Duration // zero while in progress
	Attributes map[string]string
	Children   []*Span
}

// Trace represents the slides of one panel lifetime
type Trace struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	RootSpan  *Span
	Status    string // "running" or "completed"
}

// Exporter ships completed traces somewhere.
type Exporter interface {
	ExportTrace(ctx context.Context, t *Trace) error
	Shutdown(ctx context.Context) error
}

// Manager stores and manages traces
type Manager struct {
	mu        sync.RWMutex
	traces    map[string]*Trace     // traceID -> Trace
	pending   map[string]*TraceEvent // spanID -> start event (waiting for end)
	recentIDs []string              // Ring buffer of recent trace IDs
	maxTraces int                   // Max traces to keep (default 10)
	onChange  func()                // Callback when trace state changes
	exporter  Exporter              // Receives completed traces; may be nil
	lastErr   error                 // Most recent export error
}

// NewManager creates a trace manager that keeps up to maxTraces traces and
// hands completed ones to exporter. A nil exporter keeps traces in memory only.
func NewManager(maxTraces int, exporter Exporter) *Manager {
	if maxTraces <= 0 {
		maxTraces = 10
	}
	return &Manager{
		traces:    make(map[string]*Trace),
		pending:   make(map[string]*TraceEvent),
		recentIDs: make([]string, 0, maxTraces),
		maxTraces: maxTraces,
		exporter:  exporter,
	}
}

// HandleEvent processes an incoming trace event
// - start events create the span immediately with Duration=0 (in-progress)
// - end events find the matching span and set its Duration
// Returns the affected Trace, or nil if the event was not recognised.
func (m *Manager) HandleEvent(event TraceEvent) *Trace {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case event.Type.IsStart():
		return m.handleStart(event)
	case event.Type.IsEnd():
		return m.handleEnd(event)
	}
	return nil
}

// handleStart must be called with m.mu held
func (m *Manager) handleStart(event TraceEvent) *Trace {
	m.pending[event.SpanID] = &event

	span := &Span{
		TraceID:    event.TraceID,
		SpanID:     event.SpanID,
		ParentID:   event.ParentID,
		Name:       event.Name,
		StartTime:  event.Timestamp,
		Attributes: make(map[string]string, len(event.Attributes)),
	}
	for k, v := range event.Attributes {
		span.Attributes[k] = v
	}

	trace, exists := m.traces[event.TraceID]
	if !exists {
		trace = &Trace{
			ID:        event.TraceID,
			StartTime: event.Timestamp,
			Status:    "running",
		}
		m.traces[event.TraceID] = trace
		m.addToRecentIDs(event.TraceID)
	}

	if event.Type == EventPanelStart || trace.RootSpan == nil {
		if trace.RootSpan != nil {
			span.Children = trace.RootSpan.Children
		}
		trace.RootSpan = span
		trace.StartTime = event.Timestamp
		trace.Status = "running"
	} else if parent := findSpanByID(trace.RootSpan, event.ParentID); parent != nil {
		parent.Children = append(parent.Children, span)
	} else {
		trace.RootSpan.Children = append(trace.RootSpan.Children, span)
	}

	m.callOnChange()
	return trace
}

// handleEnd must be called with m.mu held
func (m *Manager) handleEnd(event TraceEvent) *Trace {
	start, found := m.pending[event.SpanID]
	if !found {
		return nil
	}
	delete(m.pending, event.SpanID)

	trace := m.traces[start.TraceID]
	if trace == nil {
		return nil
	}
	if span := findSpanByID(trace.RootSpan, event.SpanID); span != nil {
		span.Duration = event.Timestamp.Sub(start.Timestamp)
		for k, v := range event.Attributes {
			span.Attributes[k] = v
		}
	}

	if event.Type == EventPanelEnd {
		trace.EndTime = event.Timestamp
		trace.Status = "completed"
		// Export synchronously; this is usually the last thing before exit.
		if m.exporter != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			// Not logged: log output interferes with bubbletea rendering.
			m.lastErr = m.exporter.ExportTrace(ctx, trace)
			cancel()
		}
	}

	m.callOnChange()
	return trace
}

// findSpanByID recursively searches for a span by ID in the trace tree
func findSpanByID(root *Span, spanID string) *Span {
	if root == nil || spanID == "" {
		return nil
	}
	if root.SpanID == spanID {
		return root
	}
	for _, child := range root.Children {
		if found := findSpanByID(child, spanID); found != nil {
			return found
		}
	}
	return nil
}

// addToRecentIDs adds a trace ID to the recent list, evicting old ones if needed
func (m *Manager) addToRecentIDs(traceID string) {
	m.recentIDs = append(m.recentIDs, traceID)
	if len(m.recentIDs) > m.maxTraces {
		oldestID := m.recentIDs[0]
		m.recentIDs = m.recentIDs[1:]
		delete(m.traces, oldestID)
	}
}

// callOnChange calls the onChange callback if set (must be called with lock held)
func (m *Manager) callOnChange() {
	if m.onChange != nil {
		m.onChange()
	}
}

// GetTrace returns a trace by ID
func (m *Manager) GetTrace(id string) *Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.traces[id]
}

// GetRecentTraces returns recent traces (newest first)
func (m *Manager) GetRecentTraces() []*Trace {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Trace, 0, len(m.recentIDs))
	for i := len(m.recentIDs) - 1; i >= 0; i-- {
		if trace, exists := m.traces[m.recentIDs[i]]; exists {
			result = append(result, trace)
		}
	}
	return result
}

// LastExportError returns the error from the most recent export, if any.
func (m *Manager) LastExportError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

// SetOnChange sets callback for state changes (thread-safe)
func (m *Manager) SetOnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Shutdown flushes pending exports and closes the exporter.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	exporter := m.exporter
	m.mu.Unlock()

	if exporter != nil {
		return exporter.Shutdown(ctx)
	}
	return nil
}
