package panel

import (
	"math"
	"time"
)

// Easing maps linear animation time in [0, 1] to interpolation progress.
type Easing func(t float64) float64

// Linear moves at constant speed.
func Linear(t float64) float64 { return t }

// EaseOutQuad decelerates toward the target.
func EaseOutQuad(t float64) float64 { return 1 - (1-t)*(1-t) }

// EaseOutCubic decelerates toward the target more sharply than EaseOutQuad.
func EaseOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

// Settle interpolates an offset toward a target, one Advance per frame.
type Settle struct {
	from, to  float64
	duration  time.Duration
	elapsed   time.Duration
	easing    Easing
	tolerance float64
	current   float64
	active    bool
}

// StartSettle begins an interpolation from one offset to another over
// duration. A nil easing means EaseOutCubic.
func StartSettle(from, to float64, duration time.Duration, easing Easing) *Settle {
	if easing == nil {
		easing = EaseOutCubic
	}
	return &Settle{
		from:     from,
		to:       to,
		duration: duration,
		easing:   easing,
		current:  from,
		active:   true,
	}
}

// WithTolerance makes the animation snap to its target once the remaining
// distance is at most tol.
func (s *Settle) WithTolerance(tol float64) *Settle {
	if tol > 0 {
		s.tolerance = tol
	}
	return s
}

// Advance steps the animation by dt and returns the new offset. done is true
// once the target has been reached; the final offset is always exactly the
// target. Advancing a finished or cancelled animation returns its last offset.
func (s *Settle) Advance(dt time.Duration) (offset float64, done bool) {
	if !s.active {
		return s.current, true
	}
	if dt > 0 {
		s.elapsed += dt
	}
	if s.elapsed >= s.duration {
		return s.finish(), true
	}
	t := float64(s.elapsed) / float64(s.duration)
	next := s.from + (s.to-s.from)*s.easing(t)
	if math.IsNaN(next) || math.Abs(s.to-next) <= s.tolerance {
		return s.finish(), true
	}
	s.current = next
	return s.current, false
}

// Cancel stops the animation where it is and returns that offset.
func (s *Settle) Cancel() float64 {
	s.active = false
	return s.current
}

// Active reports whether the animation is still running.
func (s *Settle) Active() bool {
	return s.active
}

// Current returns the last interpolated offset.
func (s *Settle) Current() float64 {
	return s.current
}

// Target returns the offset the animation ends at.
func (s *Settle) Target() float64 {
	return s.to
}

// Remaining returns the scheduled time left.
func (s *Settle) Remaining() time.Duration {
	if !s.active || s.elapsed >= s.duration {
		return 0
	}
	return s.duration - s.elapsed
}

func (s *Settle) finish() float64 {
	s.current = s.to
	s.active = false
	return s.current
}

// settleDuration scales the full-range duration by the distance left and, for
// flings, caps it at the time the release velocity needs to cover that
// distance.
func settleDuration(cfg Config, distance, span, velocity float64, fling bool) time.Duration {
	if span <= 0 || distance <= 0 {
		return 0
	}
	d := time.Duration(float64(cfg.SettleDuration) * math.Min(distance/span, 1))
	if fling && velocity != 0 {
		byVelocity := time.Duration(distance / math.Abs(velocity) * float64(time.Second))
		if byVelocity < d {
			d = byVelocity
		}
	}
	if d < cfg.MinSettleDuration {
		d = cfg.MinSettleDuration
	}
	return d
}
