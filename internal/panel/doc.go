// Package panel implements the core of a draggable sliding panel.
//
// Core pieces:
//   - Tracker: turns pointer samples into displacement, velocity and a fling flag
//   - ToProgress/ToOffset: map an offset between the panel extents to [0, 1]
//   - Resolver: the COLLAPSED / EXPANDED / SLIDING state machine and settle policy
//   - Settle: a tick-driven interpolation toward the settled offset
//   - Controller: owns the above and is the only type hosts talk to
//
// The package has no event loop of its own. Hosts forward pointer events and
// call Controller.Advance once per frame while Controller.Animating reports true.
// A Controller must only be used from the goroutine that owns the UI surface.
package panel
