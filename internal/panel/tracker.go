package panel

import (
	"math"
	"time"
)

// Sample is one observed pointer position along the drag axis.
type Sample struct {
	Position float64
	Time     time.Time
}

// Tracker converts a stream of pointer samples into displacement and velocity.
// Only samples inside a short rolling window feed the velocity estimate, so a
// finger that pauses before lifting releases with little or no velocity.
type Tracker struct {
	window     time.Duration
	maxSamples int

	active  bool
	down    Sample
	last    Sample
	samples []Sample
}

// NewTracker creates a tracker that keeps samples newer than window, at most
// maxSamples of them. Whether a release is a fling is the Policy's call.
func NewTracker(window time.Duration, maxSamples int) *Tracker {
	if maxSamples < 2 {
		maxSamples = 2
	}
	return &Tracker{
		window:     window,
		maxSamples: maxSamples,
		samples:    make([]Sample, 0, maxSamples),
	}
}

// Active reports whether a pointer is currently down.
func (t *Tracker) Active() bool {
	return t.active
}

// Down starts a new gesture, discarding any previous samples. A NaN or
// infinite position is refused and leaves the tracker unchanged.
func (t *Tracker) Down(pos float64, at time.Time) bool {
	if !finite(pos) {
		return false
	}
	s := Sample{Position: pos, Time: at}
	t.active = true
	t.down = s
	t.last = s
	t.samples = append(t.samples[:0], s)
	return true
}

// Move records a sample and returns the displacement since the previous one.
// Samples whose timestamp is not after the previous sample are ignored and
// reported with ok == false.
func (t *Tracker) Move(pos float64, at time.Time) (delta float64, ok bool) {
	if !t.active || !at.After(t.last.Time) || math.IsNaN(pos) {
		return 0, false
	}
	delta = pos - t.last.Position
	t.record(Sample{Position: pos, Time: at})
	return delta, true
}

// Up ends the gesture and returns the release velocity in units per second.
// A release with a stale timestamp still ends the gesture but contributes no
// sample.
func (t *Tracker) Up(pos float64, at time.Time) float64 {
	if !t.active {
		return 0
	}
	if at.After(t.last.Time) && !math.IsNaN(pos) {
		t.record(Sample{Position: pos, Time: at})
	}
	velocity := t.Velocity()
	t.reset()
	return velocity
}

// Cancel abandons the gesture without producing a velocity.
func (t *Tracker) Cancel() {
	t.reset()
}

// Displacement returns the distance moved since Down.
func (t *Tracker) Displacement() float64 {
	if !t.active {
		return 0
	}
	return t.last.Position - t.down.Position
}

// Velocity estimates the current speed from the oldest and newest samples in
// the window. Fewer than two samples or a zero-length window give 0.
func (t *Tracker) Velocity() float64 {
	if len(t.samples) < 2 {
		return 0
	}
	oldest := t.samples[0]
	newest := t.samples[len(t.samples)-1]
	dt := newest.Time.Sub(oldest.Time).Seconds()
	if dt <= 0 {
		return 0
	}
	return (newest.Position - oldest.Position) / dt
}

func (t *Tracker) record(s Sample) {
	t.last = s
	t.samples = append(t.samples, s)
	cutoff := s.Time.Add(-t.window)
	drop := 0
	for drop < len(t.samples)-1 && t.samples[drop].Time.Before(cutoff) {
		drop++
	}
	if over := len(t.samples) - drop - t.maxSamples; over > 0 {
		drop += over
	}
	if drop > 0 {
		t.samples = append(t.samples[:0], t.samples[drop:]...)
	}
}

func (t *Tracker) reset() {
	t.active = false
	t.samples = t.samples[:0]
	t.down = Sample{}
	t.last = Sample{}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
