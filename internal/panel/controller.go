package panel

import (
	"fmt"
	"math"
	"time"
)

// Controller is a sliding panel. It owns the geometry, the gesture tracker,
// the state machine and at most one running settle, and it is the single
// place listeners are notified from.
//
// A Controller is not safe for concurrent use; every call must come from the
// goroutine that owns the UI surface.
type Controller struct {
	cfg Config

	geometry    Geometry
	laidOut     bool
	attached    bool
	dragEnabled bool

	tracker  *Tracker
	resolver *Resolver
	settle   *Settle
	target   State // where settle ends

	offset   float64
	progress float64

	dragging   bool
	dragOrigin float64

	subs         listeners
	pubState     State
	pubProgress  float64
	dispatching  bool
	pendingRound bool
}

// New creates an attached Controller resting in Collapsed. It refuses to
// slide until Layout supplies a valid geometry.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Controller{
		cfg:         cfg,
		attached:    true,
		dragEnabled: true,
		tracker:     NewTracker(cfg.VelocityWindow, cfg.MaxSamples),
		resolver:    NewResolver(cfg.Policy),
	}, nil
}

// Config returns the controller's settings.
func (c *Controller) Config() Config { return c.cfg }

// State returns the current panel state.
func (c *Controller) State() State { return c.resolver.State() }

// Progress returns the current progress in [0, 1].
func (c *Controller) Progress() float64 { return c.progress }

// Offset returns the current offset along the drag axis.
func (c *Controller) Offset() float64 { return c.offset }

// Geometry returns the last valid geometry and whether one has been set.
func (c *Controller) Geometry() (Geometry, bool) { return c.geometry, c.laidOut }

// Animating reports whether a settle is running and Advance should be called
// on the next frame.
func (c *Controller) Animating() bool { return c.settle != nil }

// Dragging reports whether a pointer is currently moving the panel.
func (c *Controller) Dragging() bool { return c.dragging }

// Attached reports whether the controller accepts input.
func (c *Controller) Attached() bool { return c.attached }

// DragEnabled reports whether pointer input may move the panel.
func (c *Controller) DragEnabled() bool { return c.dragEnabled }

// AddSlideListener registers fn and returns a handle for removing it.
// A nil fn is ignored.
func (c *Controller) AddSlideListener(fn Listener) Subscription {
	return c.subs.add(fn)
}

// RemoveSlideListener unregisters a listener. It is safe to call from inside
// a notification; the removed listener is not called again.
func (c *Controller) RemoveSlideListener(s Subscription) {
	c.subs.remove(s)
}

// ListenerCount returns the number of registered listeners.
func (c *Controller) ListenerCount() int {
	return c.subs.len()
}

// Layout sets the panel geometry. An invalid geometry is reported as an error
// and leaves the panel unable to slide; a sliding panel is dropped at the
// nearer rest state. A valid re-measure keeps the current progress.
func (c *Controller) Layout(g Geometry) error {
	if err := g.Validate(); err != nil {
		c.laidOut = false
		c.resolver.SetEnabled(false)
		if c.resolver.State() == Sliding {
			target := c.resolver.Target(c.progress, 0, false)
			if c.settle != nil {
				target = c.target
			}
			c.stopMotion()
			c.snapTo(target)
			c.publish()
		}
		return fmt.Errorf("layout: %w", err)
	}

	c.geometry = g
	c.laidOut = true
	c.resolver.SetEnabled(true)
	c.offset = ToOffset(c.progress, g)
	if c.dragging {
		c.dragOrigin = c.offset - c.tracker.Displacement()
	}
	if c.settle != nil {
		remaining := c.settle.Remaining()
		c.settle = StartSettle(c.offset, c.extent(c.target), remaining, c.cfg.Easing).
			WithTolerance(c.cfg.SnapTolerance)
	}
	return nil
}

// Attach re-enables input after Detach.
func (c *Controller) Attach() {
	c.attached = true
}

// Detach finishes any drag or settle at its resolved rest state and ignores
// input until Attach.
func (c *Controller) Detach() {
	if !c.attached {
		return
	}
	c.finishMotion()
	c.attached = false
}

// SetDragEnabled locks or unlocks pointer dragging. Locking during a drag
// releases it as if the pointer were cancelled. Open and Close still work.
func (c *Controller) SetDragEnabled(enabled bool) {
	if c.dragEnabled == enabled {
		return
	}
	c.dragEnabled = enabled
	if !enabled && c.tracker.Active() {
		c.PointerCancel(time.Time{})
	}
}

// Open slides the panel to Expanded. It does nothing if the panel already
// rests there or is already settling there.
func (c *Controller) Open() {
	c.moveTo(Expanded)
}

// Close slides the panel to Collapsed. It does nothing if the panel already
// rests there or is already settling there.
func (c *Controller) Close() {
	c.moveTo(Collapsed)
}

// Toggle opens a collapsed panel and closes an expanded one. A settling panel
// reverses direction; a dragged panel goes opposite to where it would settle.
func (c *Controller) Toggle() {
	switch c.resolver.State() {
	case Collapsed:
		c.Open()
	case Expanded:
		c.Close()
	case Sliding:
		heading := c.resolver.Target(c.progress, 0, false)
		if c.settle != nil {
			heading = c.target
		}
		if heading == Expanded {
			c.Close()
		} else {
			c.Open()
		}
	}
}

// PointerDown starts tracking a pointer. A running settle is cancelled in
// place and its current offset becomes the start of the new drag. A NaN or
// infinite position is ignored.
func (c *Controller) PointerDown(pos float64, at time.Time) {
	if !c.acceptsInput() || !c.dragEnabled || !finite(pos) {
		return
	}
	if c.settle != nil {
		c.setOffset(c.settle.Cancel())
		c.settle = nil
		c.dragging = true
	}
	c.tracker.Down(pos, at)
	c.dragOrigin = c.offset
}

// PointerMove moves the panel with the pointer once the touch slop has been
// exceeded. Out-of-order samples are ignored.
func (c *Controller) PointerMove(pos float64, at time.Time) {
	if !c.tracker.Active() {
		return
	}
	if _, ok := c.tracker.Move(pos, at); !ok {
		return
	}
	disp := c.tracker.Displacement()
	if !c.dragging {
		if math.Abs(disp) <= c.cfg.TouchSlop {
			return
		}
		if !c.resolver.Begin() {
			return
		}
		c.dragging = true
	}
	c.setOffset(c.dragOrigin + disp)
	c.publish()
}

// PointerUp releases the pointer and settles a sliding panel: a fling settles
// in its direction, anything slower settles toward the nearer rest state.
func (c *Controller) PointerUp(pos float64, at time.Time) {
	if !c.tracker.Active() {
		return
	}
	c.PointerMove(pos, at)
	velocity := c.tracker.Up(pos, at)
	fling := c.cfg.IsFling(velocity)
	c.dragging = false
	if c.resolver.State() != Sliding {
		return
	}
	c.settleTo(c.resolver.Target(c.progress, velocity, fling), velocity, fling)
}

// PointerCancel abandons the pointer and settles by position alone.
func (c *Controller) PointerCancel(at time.Time) {
	if !c.tracker.Active() {
		return
	}
	c.tracker.Cancel()
	c.dragging = false
	if c.resolver.State() != Sliding {
		return
	}
	c.settleTo(c.resolver.Target(c.progress, 0, false), 0, false)
}

// Advance steps a running settle by dt and reports whether another frame is
// needed. When the settle completes the panel enters its rest state.
func (c *Controller) Advance(dt time.Duration) bool {
	if c.settle == nil {
		return false
	}
	offset, done := c.settle.Advance(dt)
	c.setOffset(offset)
	if done {
		c.settle = nil
		c.snapTo(c.target)
	}
	c.publish()
	return c.settle != nil
}

func (c *Controller) acceptsInput() bool {
	return c.attached && c.laidOut
}

func (c *Controller) moveTo(target State) {
	if !c.acceptsInput() {
		return
	}
	state := c.resolver.State()
	if state == target {
		return
	}
	if c.settle != nil && c.target == target {
		return
	}
	if c.tracker.Active() {
		c.tracker.Cancel()
		c.dragging = false
	}
	if c.settle != nil {
		c.setOffset(c.settle.Cancel())
		c.settle = nil
	}
	c.settleTo(target, 0, false)
}

func (c *Controller) settleTo(target State, velocity float64, fling bool) {
	if !c.resolver.Begin() {
		return
	}
	to := c.extent(target)
	distance := math.Abs(to - c.offset)
	d := settleDuration(c.cfg, distance, c.geometry.Range(), velocity, fling)
	if d <= 0 || distance <= c.cfg.SnapTolerance {
		c.settle = nil
		c.snapTo(target)
		c.publish()
		return
	}
	c.settle = StartSettle(c.offset, to, d, c.cfg.Easing).WithTolerance(c.cfg.SnapTolerance)
	c.target = target
	c.publish()
}

// finishMotion ends any drag or settle immediately at its resolved target.
func (c *Controller) finishMotion() {
	if c.resolver.State() != Sliding {
		c.stopMotion()
		return
	}
	target := c.resolver.Target(c.progress, 0, false)
	if c.settle != nil {
		target = c.target
	}
	c.stopMotion()
	c.snapTo(target)
	c.publish()
}

func (c *Controller) stopMotion() {
	if c.tracker.Active() {
		c.tracker.Cancel()
	}
	c.dragging = false
	if c.settle != nil {
		c.settle.Cancel()
		c.settle = nil
	}
}

// snapTo puts the panel exactly at a rest state.
func (c *Controller) snapTo(target State) {
	if !c.resolver.Settle(target) {
		c.resolver.Reset(target)
	}
	c.progress = 0
	if target == Expanded {
		c.progress = 1
	}
	c.offset = c.extent(target)
}

func (c *Controller) extent(s State) float64 {
	if s == Expanded {
		return c.geometry.Expanded
	}
	return c.geometry.Collapsed
}

func (c *Controller) setOffset(o float64) {
	c.offset = c.geometry.Clamp(o)
	c.progress = ToProgress(c.offset, c.geometry)
}

// publish notifies listeners if the state changed or progress moved by more
// than the policy epsilon since the last notification. Calls made while a
// notification is running are folded into one more round afterwards.
func (c *Controller) publish() {
	if c.dispatching {
		c.pendingRound = true
		return
	}
	for {
		state, progress := c.resolver.State(), c.progress
		if state == c.pubState && !c.resolver.Changed(c.pubProgress, progress) {
			return
		}
		c.pubState, c.pubProgress = state, progress
		c.dispatching = true
		c.subs.notify(c, state, progress)
		c.dispatching = false
		if !c.pendingRound {
			return
		}
		c.pendingRound = false
	}
}
