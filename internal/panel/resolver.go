package panel

import (
	"fmt"
	"math"
)

// Policy holds the tunables of the settle decision.
type Policy struct {
	// SettleThreshold is the progress at or above which a slow release settles
	// to Expanded.
	SettleThreshold float64
	// FlingVelocity is the release speed, in offset units per second, above
	// which the release direction wins over progress.
	FlingVelocity float64
	// Epsilon is the smallest progress change worth notifying listeners about.
	Epsilon float64
}

// DefaultPolicy returns the policy used by DefaultConfig.
func DefaultPolicy() Policy {
	return Policy{
		SettleThreshold: 0.5,
		FlingVelocity:   40,
		Epsilon:         1e-4,
	}
}

// IsFling reports whether a release at velocity is fast enough for its
// direction to override progress.
func (p Policy) IsFling(velocity float64) bool {
	return math.Abs(velocity) > p.FlingVelocity
}

// Validate checks that the policy can drive a Resolver.
func (p Policy) Validate() error {
	if !(p.SettleThreshold > 0 && p.SettleThreshold < 1) {
		return fmt.Errorf("%w: settle threshold %g outside (0, 1)", ErrInvalidConfig, p.SettleThreshold)
	}
	if !(p.FlingVelocity > 0) || math.IsInf(p.FlingVelocity, 0) {
		return fmt.Errorf("%w: fling velocity %g must be positive", ErrInvalidConfig, p.FlingVelocity)
	}
	if !(p.Epsilon >= 0) {
		return fmt.Errorf("%w: epsilon %g must not be negative", ErrInvalidConfig, p.Epsilon)
	}
	return nil
}

// Resolver is the panel state machine.
//
//	COLLAPSED -> SLIDING   Begin
//	EXPANDED  -> SLIDING   Begin
//	SLIDING   -> COLLAPSED Settle(Collapsed)
//	SLIDING   -> EXPANDED  Settle(Expanded)
//
// A disabled resolver refuses to leave its rest state.
type Resolver struct {
	policy  Policy
	state   State
	enabled bool
}

// NewResolver returns a resolver resting in Collapsed. It starts disabled
// until the owner confirms a valid geometry.
func NewResolver(p Policy) *Resolver {
	return &Resolver{policy: p, state: Collapsed}
}

// State returns the current state.
func (r *Resolver) State() State {
	return r.state
}

// Policy returns the resolver's policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// SetEnabled allows or forbids entering Sliding.
func (r *Resolver) SetEnabled(enabled bool) {
	r.enabled = enabled
}

// Enabled reports whether Begin may succeed.
func (r *Resolver) Enabled() bool {
	return r.enabled
}

// Begin moves a resting panel into Sliding. It reports whether the panel is
// Sliding afterwards.
func (r *Resolver) Begin() bool {
	if r.state == Sliding {
		return true
	}
	if !r.enabled {
		return false
	}
	r.state = Sliding
	return true
}

// Settle moves a sliding panel to the given rest state. It reports whether a
// transition happened.
func (r *Resolver) Settle(target State) bool {
	if r.state != Sliding || !target.Terminal() {
		return false
	}
	r.state = target
	return true
}

// Reset forces the resolver into s without going through Sliding.
func (r *Resolver) Reset(s State) {
	r.state = s
}

// Target decides where a released panel settles. A fling settles in the
// direction of velocity; otherwise the nearer rest state wins, with the
// threshold itself counting as Expanded.
func (r *Resolver) Target(progress, velocity float64, fling bool) State {
	if fling && velocity != 0 {
		if velocity > 0 {
			return Expanded
		}
		return Collapsed
	}
	if progress >= r.policy.SettleThreshold {
		return Expanded
	}
	return Collapsed
}

// Changed reports whether moving from progress a to b is worth a notification.
// Reaching either bound always counts.
func (r *Resolver) Changed(a, b float64) bool {
	if a == b {
		return false
	}
	if b == 0 || b == 1 {
		return true
	}
	return math.Abs(b-a) > r.policy.Epsilon
}
