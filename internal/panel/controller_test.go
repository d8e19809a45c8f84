package panel

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notification struct {
	state    State
	progress float64
}

// recorder collects every notification a controller publishes.
type recorder struct {
	got []notification
}

func (r *recorder) listen(_ *Controller, s State, p float64) {
	r.got = append(r.got, notification{state: s, progress: p})
}

func (r *recorder) reset() { r.got = nil }

func (r *recorder) last() notification {
	if len(r.got) == 0 {
		return notification{state: -1}
	}
	return r.got[len(r.got)-1]
}

func (r *recorder) states() []State {
	out := make([]State, len(r.got))
	for i, n := range r.got {
		out[i] = n.state
	}
	return out
}

var testGeometry = Geometry{Collapsed: 0, Expanded: 100}

func newTestController(t *testing.T) (*Controller, *recorder) {
	t.Helper()
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Layout(testGeometry))
	rec := &recorder{}
	c.AddSlideListener(rec.listen)
	return c, rec
}

// settle advances frames until the controller stops animating.
func settle(t *testing.T, c *Controller) {
	t.Helper()
	for i := 0; c.Advance(frame); i++ {
		require.Less(t, i, 1000, "settle did not finish")
	}
}

// drag presses at from and moves in equal steps to each position, one per
// interval, starting at start. It returns the time of the last sample.
func drag(c *Controller, start time.Time, interval time.Duration, from float64, to ...float64) time.Time {
	now := start
	c.PointerDown(from, now)
	for _, pos := range to {
		now = now.Add(interval)
		c.PointerMove(pos, now)
	}
	return now
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SettleThreshold = 1.5
	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.VelocityWindow = 0
	_, err = New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestController_InitialState(t *testing.T) {
	c, rec := newTestController(t)
	assert.Equal(t, Collapsed, c.State())
	assert.Equal(t, 0.0, c.Progress())
	assert.Equal(t, 0.0, c.Offset())
	assert.False(t, c.Animating())
	assert.False(t, c.Advance(frame))
	assert.Empty(t, rec.got)
}

func TestController_SlowReleasePastMidpointExpands(t *testing.T) {
	c, rec := newTestController(t)

	end := drag(c, epoch, time.Second, 0, 20, 40, 60)
	assert.Equal(t, Sliding, c.State())
	assert.InDelta(t, 0.6, c.Progress(), 1e-9)

	c.PointerUp(60, end)
	settle(t, c)

	assert.Equal(t, Expanded, c.State())
	assert.Equal(t, 1.0, c.Progress())
	assert.Equal(t, notification{state: Expanded, progress: 1}, rec.last())
	assert.Equal(t, notification{state: Sliding, progress: 0.2}, rec.got[0])
}

func TestController_SlowReleaseBelowMidpointCollapses(t *testing.T) {
	c, rec := newTestController(t)

	end := drag(c, epoch, time.Second, 0, 20, 40)
	c.PointerUp(40, end)
	settle(t, c)

	assert.Equal(t, Collapsed, c.State())
	assert.Equal(t, notification{state: Collapsed, progress: 0}, rec.last())
}

func TestController_FlingOverridesProgress(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	settle(t, c)
	require.Equal(t, Expanded, c.State())
	rec.reset()

	// Slowly drag down to 10, then flick back up to 20 within 50ms.
	now := drag(c, epoch, time.Second, 100, 50, 10)
	now = now.Add(50 * time.Millisecond)
	c.PointerMove(20, now)
	require.InDelta(t, 0.2, c.Progress(), 1e-9)

	c.PointerUp(20, now)
	assert.True(t, c.Animating())
	settle(t, c)

	assert.Equal(t, Expanded, c.State())
	assert.Equal(t, notification{state: Expanded, progress: 1}, rec.last())
	for _, n := range rec.got[:len(rec.got)-1] {
		assert.Equal(t, Sliding, n.state)
	}
}

func TestController_FlingClosedFromHighProgress(t *testing.T) {
	c, _ := newTestController(t)

	now := drag(c, epoch, time.Second, 0, 50, 90)
	now = now.Add(20 * time.Millisecond)
	c.PointerMove(85, now)
	c.PointerUp(85, now)
	settle(t, c)

	assert.Equal(t, Collapsed, c.State())
}

func TestController_OpenFromCollapsed(t *testing.T) {
	c, rec := newTestController(t)

	c.Open()
	assert.Equal(t, Sliding, c.State())
	assert.True(t, c.Animating())
	assert.Equal(t, []notification{{state: Sliding, progress: 0}}, rec.got)

	settle(t, c)

	require.GreaterOrEqual(t, len(rec.got), 3)
	assert.Equal(t, notification{state: Expanded, progress: 1}, rec.last())
	prev := 0.0
	for _, n := range rec.got[:len(rec.got)-1] {
		assert.Equal(t, Sliding, n.state)
		assert.GreaterOrEqual(t, n.progress, prev)
		prev = n.progress
	}
}

func TestController_OpenWhenExpandedIsNoop(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	settle(t, c)
	rec.reset()

	c.Open()
	assert.Empty(t, rec.got)
	assert.Equal(t, Expanded, c.State())
	assert.False(t, c.Animating())
}

func TestController_CloseWhenCollapsedIsNoop(t *testing.T) {
	c, rec := newTestController(t)
	c.Close()
	assert.Empty(t, rec.got)
	assert.False(t, c.Animating())
}

func TestController_OpenWhileOpeningIsNoop(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	c.Advance(frame)
	n := len(rec.got)
	p := c.Progress()

	c.Open()
	assert.Len(t, rec.got, n)
	assert.Equal(t, p, c.Progress())
}

func TestController_CloseReversesSettle(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	c.Advance(frame)
	c.Advance(frame)
	mid := c.Progress()
	require.Greater(t, mid, 0.0)

	c.Close()
	assert.Equal(t, mid, c.Progress(), "reversing must not jump")
	settle(t, c)

	assert.Equal(t, Collapsed, c.State())
	assert.NotContains(t, rec.states()[:len(rec.got)-1], Expanded)
}

func TestController_PointerDownInterruptsSettle(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	for i := 0; i < 3; i++ {
		c.Advance(frame)
	}
	last := c.Progress()
	require.Greater(t, last, 0.0)
	require.Less(t, last, 1.0)
	rec.reset()

	c.PointerDown(c.Offset(), epoch)

	assert.False(t, c.Animating())
	assert.True(t, c.Dragging())
	assert.Equal(t, Sliding, c.State())
	assert.Equal(t, last, c.Progress())
	assert.Empty(t, rec.got, "interrupting must not notify")

	// The drag continues from the interpolated offset.
	start := c.Offset()
	c.PointerMove(c.Offset()+5, epoch.Add(time.Second))
	assert.InDelta(t, start+5, c.Offset(), 1e-9)

	c.PointerUp(c.Offset(), epoch.Add(2*time.Second))
	settle(t, c)
	for _, n := range rec.got[:len(rec.got)-1] {
		assert.Equal(t, Sliding, n.state)
	}
	assert.True(t, rec.last().state.Terminal())
}

func TestController_InterruptedSettleReleasedInPlace(t *testing.T) {
	c, _ := newTestController(t)
	c.Open()
	for i := 0; i < 6; i++ {
		c.Advance(frame)
	}
	require.Greater(t, c.Progress(), 0.5)

	c.PointerDown(0, epoch)
	c.PointerUp(0, epoch)
	assert.Equal(t, Sliding, c.State())
	settle(t, c)
	assert.Equal(t, Expanded, c.State())
}

func TestController_RemoveListenerDuringNotification(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Layout(testGeometry))

	var victim Subscription
	victimCalls := 0
	c.AddSlideListener(func(p *Controller, _ State, _ float64) {
		p.RemoveSlideListener(victim)
	})
	victim = c.AddSlideListener(func(*Controller, State, float64) {
		victimCalls++
	})
	rec := &recorder{}
	c.AddSlideListener(rec.listen)

	c.Open()
	settle(t, c)

	assert.Equal(t, 0, victimCalls)
	assert.NotEmpty(t, rec.got, "listeners after the removed one still run")
	assert.Equal(t, 2, c.ListenerCount())
}

func TestController_ListenerRemovesItself(t *testing.T) {
	c, rec := newTestController(t)

	var self Subscription
	calls := 0
	self = c.AddSlideListener(func(p *Controller, _ State, _ float64) {
		calls++
		p.RemoveSlideListener(self)
	})

	c.Open()
	settle(t, c)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Expanded, rec.last().state)
}

func TestController_PanickingListenerDoesNotBlockOthers(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, c.Layout(testGeometry))

	c.AddSlideListener(func(*Controller, State, float64) { panic("boom") })
	rec := &recorder{}
	c.AddSlideListener(rec.listen)

	assert.NotPanics(t, func() {
		c.Open()
		settle(t, c)
	})
	assert.Equal(t, Expanded, rec.last().state)
}

func TestController_NilListenerIgnored(t *testing.T) {
	c, _ := newTestController(t)
	c.AddSlideListener(nil)
	assert.Equal(t, 1, c.ListenerCount())
}

func TestController_ListenerMutationIsCoalesced(t *testing.T) {
	c, rec := newTestController(t)
	c.AddSlideListener(func(p *Controller, s State, _ float64) {
		if s == Expanded {
			p.Close()
		}
	})

	c.Open()
	for i := 0; !slices.Contains(rec.states(), Expanded) && i < 100; i++ {
		c.Advance(frame)
	}

	// Every listener saw EXPANDED before the follow-up SLIDING round.
	n := len(rec.got)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, notification{state: Expanded, progress: 1}, rec.got[n-2])
	assert.Equal(t, notification{state: Sliding, progress: 1}, rec.got[n-1])
	assert.Equal(t, Sliding, c.State())

	settle(t, c)
	assert.Equal(t, Collapsed, c.State())
}

func TestController_InvalidGeometryRefusesToSlide(t *testing.T) {
	c, err := New(DefaultConfig())
	require.NoError(t, err)
	rec := &recorder{}
	c.AddSlideListener(rec.listen)

	// Before any layout.
	c.Open()
	assert.Equal(t, Collapsed, c.State())

	err = c.Layout(Geometry{Collapsed: 10, Expanded: 10})
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
	_, ok := c.Geometry()
	assert.False(t, ok)

	c.Open()
	drag(c, epoch, time.Second, 0, 5, 10)
	assert.Equal(t, Collapsed, c.State())
	assert.Empty(t, rec.got)

	require.NoError(t, c.Layout(testGeometry))
	c.Open()
	assert.Equal(t, Sliding, c.State())
}

func TestController_InvalidRelayoutWhileSlidingRests(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	c.Advance(frame)

	err := c.Layout(Geometry{Collapsed: 5, Expanded: 1})
	require.Error(t, err)
	assert.Equal(t, Expanded, c.State())
	assert.False(t, c.Animating())
	assert.Equal(t, Expanded, rec.last().state)
}

func TestController_RelayoutKeepsProgress(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	settle(t, c)
	rec.reset()

	require.NoError(t, c.Layout(Geometry{Collapsed: 10, Expanded: 210}))
	assert.Equal(t, 210.0, c.Offset())
	assert.Equal(t, 1.0, c.Progress())
	assert.Empty(t, rec.got)
}

func TestController_RelayoutRetargetsSettle(t *testing.T) {
	c, _ := newTestController(t)
	c.Open()
	c.Advance(frame)
	p := c.Progress()

	require.NoError(t, c.Layout(Geometry{Collapsed: 0, Expanded: 50}))
	assert.InDelta(t, p*50, c.Offset(), 1e-9)
	settle(t, c)
	assert.Equal(t, 50.0, c.Offset())
}

func TestController_TouchSlop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TouchSlop = 5
	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Layout(testGeometry))
	rec := &recorder{}
	c.AddSlideListener(rec.listen)

	c.PointerDown(0, epoch)
	c.PointerMove(3, at(500))
	assert.Equal(t, Collapsed, c.State())
	assert.Empty(t, rec.got)

	c.PointerMove(8, at(1000))
	assert.Equal(t, Sliding, c.State())
	assert.InDelta(t, 0.08, c.Progress(), 1e-9)
}

func TestController_TapAtRestDoesNothing(t *testing.T) {
	c, rec := newTestController(t)
	c.PointerDown(0, epoch)
	c.PointerUp(0, at(80))
	assert.Equal(t, Collapsed, c.State())
	assert.Empty(t, rec.got)
}

func TestController_OutOfOrderMoveIgnored(t *testing.T) {
	c, _ := newTestController(t)
	c.PointerDown(0, at(100))
	c.PointerMove(30, at(200))
	c.PointerMove(60, at(150))
	assert.Equal(t, 30.0, c.Offset())
}

func TestController_DragClampsToExtents(t *testing.T) {
	c, rec := newTestController(t)
	drag(c, epoch, time.Second, 0, 60, 140)
	assert.Equal(t, 100.0, c.Offset())
	assert.Equal(t, 1.0, c.Progress())
	assert.Equal(t, Sliding, rec.last().state)
}

func TestController_SubEpsilonMovesAreNotPublished(t *testing.T) {
	c, rec := newTestController(t)
	drag(c, epoch, time.Second, 0, 10)
	n := len(rec.got)

	c.PointerMove(10.001, at(5000))
	assert.Len(t, rec.got, n)
	c.PointerMove(10.002, at(6000))
	assert.Len(t, rec.got, n)
	c.PointerMove(10.5, at(7000))
	assert.Len(t, rec.got, n+1)
}

func TestController_PointerCancelSettlesByPosition(t *testing.T) {
	c, _ := newTestController(t)
	drag(c, epoch, 10*time.Millisecond, 0, 30, 70)
	c.PointerCancel(at(30))
	assert.False(t, c.Dragging())
	settle(t, c)
	assert.Equal(t, Expanded, c.State())
}

func TestController_DetachFinishesMotion(t *testing.T) {
	c, rec := newTestController(t)
	c.Open()
	c.Advance(frame)

	c.Detach()
	assert.False(t, c.Attached())
	assert.False(t, c.Animating())
	assert.Equal(t, Expanded, c.State())
	assert.Equal(t, notification{state: Expanded, progress: 1}, rec.last())

	rec.reset()
	c.Close()
	drag(c, epoch, time.Second, 100, 50)
	assert.Empty(t, rec.got)

	c.Attach()
	c.Close()
	assert.Equal(t, Sliding, c.State())
}

func TestController_DragLock(t *testing.T) {
	c, rec := newTestController(t)
	c.SetDragEnabled(false)
	assert.False(t, c.DragEnabled())

	drag(c, epoch, time.Second, 0, 50)
	assert.Empty(t, rec.got)

	c.Open()
	settle(t, c)
	assert.Equal(t, Expanded, c.State())
}

func TestController_DragLockReleasesActiveDrag(t *testing.T) {
	c, _ := newTestController(t)
	drag(c, epoch, time.Second, 0, 70)
	require.True(t, c.Dragging())

	c.SetDragEnabled(false)
	assert.False(t, c.Dragging())
	settle(t, c)
	assert.Equal(t, Expanded, c.State())
}

func TestController_Toggle(t *testing.T) {
	c, _ := newTestController(t)

	c.Toggle()
	settle(t, c)
	assert.Equal(t, Expanded, c.State())

	c.Toggle()
	c.Advance(frame)
	c.Toggle() // reverses mid-way
	settle(t, c)
	assert.Equal(t, Expanded, c.State())

	c.Toggle()
	settle(t, c)
	assert.Equal(t, Collapsed, c.State())
}

func TestController_OpenDuringDragCancelsDrag(t *testing.T) {
	c, _ := newTestController(t)
	drag(c, epoch, time.Second, 0, 20)
	c.Open()
	assert.False(t, c.Dragging())

	// Further pointer input from the abandoned gesture is ignored.
	c.PointerMove(0, at(5000))
	settle(t, c)
	assert.Equal(t, Expanded, c.State())
}

func TestController_NonFinitePointerDownIgnored(t *testing.T) {
	c, rec := newTestController(t)

	c.PointerDown(math.NaN(), epoch)
	c.PointerMove(50, epoch.Add(10*time.Millisecond))
	c.PointerUp(50, epoch.Add(20*time.Millisecond))

	assert.Equal(t, Collapsed, c.State())
	assert.Equal(t, 0.0, c.Offset())
	assert.False(t, c.Dragging())
	assert.Empty(t, rec.got)

	// A settle in flight is not interrupted by a bad press.
	c.Open()
	c.Advance(frame)
	before := c.Offset()
	c.PointerDown(math.Inf(-1), epoch.Add(time.Second))
	assert.True(t, c.Animating())
	assert.Equal(t, before, c.Offset())
	assert.False(t, math.IsNaN(c.Offset()))

	settle(t, c)
	assert.Equal(t, Expanded, c.State())
}
