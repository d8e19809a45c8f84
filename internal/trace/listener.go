package trace

import (
	"context"
	"strconv"
	"time"

	"slidingpanel/internal/panel"
)

// Listener turns panel notifications into trace events: one root span for
// the panel's lifetime and one child span per slide, from the moment the
// panel leaves a rest state until it rests again.
type Listener struct {
	manager *Manager
	now     func() time.Time

	traceID    string
	rootSpanID string

	slideSpanID string
	slides      int
	updates     int
	last        panel.State
	closed      bool
}

// NewListener starts a trace named name on manager. now may be nil.
func NewListener(manager *Manager, name string, now func() time.Time) *Listener {
	if now == nil {
		now = time.Now
	}
	l := &Listener{
		manager:    manager,
		now:        now,
		traceID:    NewTraceID(),
		rootSpanID: NewSpanID(),
		last:       panel.Collapsed,
	}
	manager.HandleEvent(TraceEvent{
		TraceID:   l.traceID,
		SpanID:    l.rootSpanID,
		Type:      EventPanelStart,
		Name:      name,
		Timestamp: now(),
	})
	return l
}

// TraceID returns the ID of the trace this listener writes to.
func (l *Listener) TraceID() string {
	return l.traceID
}

// Observe is a panel.Listener.
func (l *Listener) Observe(_ *panel.Controller, s panel.State, progress float64) {
	if l.closed {
		return
	}
	switch s {
	case panel.Sliding:
		if l.slideSpanID == "" {
			l.startSlide(progress)
		}
		l.updates++
	case panel.Collapsed, panel.Expanded:
		if l.slideSpanID != "" {
			l.endSlide(s, progress, false)
		}
	}
	l.last = s
}

// Close ends any open slide, completes the trace and flushes the exporter.
func (l *Listener) Close(ctx context.Context) error {
	if l.closed {
		return nil
	}
	if l.slideSpanID != "" {
		l.endSlide(l.last, 0, true)
	}
	l.closed = true
	l.manager.HandleEvent(TraceEvent{
		TraceID:   l.traceID,
		SpanID:    l.rootSpanID,
		Type:      EventPanelEnd,
		Timestamp: l.now(),
		Attributes: map[string]string{
			"slides": strconv.Itoa(l.slides),
		},
	})
	return l.manager.Shutdown(ctx)
}

func (l *Listener) startSlide(progress float64) {
	l.slides++
	l.updates = 0
	l.slideSpanID = NewSpanID()
	l.manager.HandleEvent(TraceEvent{
		TraceID:   l.traceID,
		SpanID:    l.slideSpanID,
		ParentID:  l.rootSpanID,
		Type:      EventSlideStart,
		Name:      "slide-" + strconv.Itoa(l.slides),
		Timestamp: l.now(),
		Attributes: map[string]string{
			"from_state":     l.last.String(),
			"start_progress": formatProgress(progress),
		},
	})
}

// endSlide closes the open slide span. An interrupted slide never came to
// rest, so it has no end progress.
func (l *Listener) endSlide(to panel.State, progress float64, interrupted bool) {
	attrs := map[string]string{
		"to_state": to.String(),
		"updates":  strconv.Itoa(l.updates),
	}
	if interrupted {
		attrs["interrupted"] = "true"
	} else {
		attrs["end_progress"] = formatProgress(progress)
	}
	l.manager.HandleEvent(TraceEvent{
		TraceID:    l.traceID,
		SpanID:     l.slideSpanID,
		ParentID:   l.rootSpanID,
		Type:       EventSlideEnd,
		Timestamp:  l.now(),
		Attributes: attrs,
	})
	l.slideSpanID = ""
}

func formatProgress(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
