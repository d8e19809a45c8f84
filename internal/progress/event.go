// Package progress carries panel notifications away from the UI goroutine.
package progress

import (
	"time"

	"slidingpanel/internal/panel"
)

// Event is one panel notification.
type Event struct {
	State     panel.State `json:"state"`
	Progress  float64     `json:"progress"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChanEmitter emits events to a channel for consumers off the UI goroutine.
type ChanEmitter struct {
	Ch chan<- Event

	// Now stamps events; nil means time.Now.
	Now func() time.Time

	dropped int
}

// Emit sends the event to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Emit(ev Event) {
	if ev.Timestamp.IsZero() {
		if e.Now != nil {
			ev.Timestamp = e.Now()
		} else {
			ev.Timestamp = time.Now()
		}
	}
	select {
	case e.Ch <- ev:
	default:
		// Channel full; never block the panel
		e.dropped++
	}
}

// Dropped returns how many events were discarded because the channel was full.
func (e *ChanEmitter) Dropped() int {
	return e.dropped
}

// Listener adapts the emitter to a panel listener.
func (e *ChanEmitter) Listener() panel.Listener {
	return func(_ *panel.Controller, s panel.State, p float64) {
		e.Emit(Event{State: s, Progress: p})
	}
}
