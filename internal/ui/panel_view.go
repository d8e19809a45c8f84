package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"slidingpanel/internal/panel"
	"slidingpanel/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FrameInterval is the period of animation frames while the panel settles.
const FrameInterval = 16 * time.Millisecond

// Orientation is the axis the drawer slides along.
type Orientation int

const (
	// Vertical drawers rise from the bottom edge.
	Vertical Orientation = iota
	// Horizontal drawers slide in from the right edge.
	Horizontal
)

func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// ParseOrientation parses "vertical" or "horizontal".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	}
	return Vertical, fmt.Errorf("unknown orientation %q", s)
}

// OpenPanelMsg slides the panel open.
type OpenPanelMsg struct{}

// ClosePanelMsg slides the panel closed.
type ClosePanelMsg struct{}

// TogglePanelMsg opens a closed panel and closes an open one.
type TogglePanelMsg struct{}

// ToggleDragLockMsg locks or unlocks dragging with the mouse.
type ToggleDragLockMsg struct{}

// frameMsg is one animation frame, stamped with the tick time.
type frameMsg time.Time

// PanelOptions configures a PanelView.
type PanelOptions struct {
	Orientation   Orientation
	Peek          int     // collapsed drawer size in cells
	ExpandedRatio float64 // expanded drawer size as a share of the screen
	Body          string  // drawer content
	Now           func() time.Time
}

// PanelView renders a panel.Controller as a drawer on one edge of the screen
// and feeds it terminal input.
type PanelView struct {
	panel *panel.Controller
	opts  PanelOptions
	now   func() time.Time
	bar   progress.Model

	main string

	width, height int
	layoutErr     error

	pressed   bool // a press landed on the drawer
	ticking   bool // a frame tick is scheduled
	lastFrame time.Time
}

// Ensure PanelView implements View.
var _ View = (*PanelView)(nil)

// NewPanelView wraps c. The panel is laid out on the first WindowSizeMsg.
func NewPanelView(c *panel.Controller, opts PanelOptions) *PanelView {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &PanelView{
		panel: c,
		opts:  opts,
		now:   now,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Panel returns the controller behind the view.
func (v *PanelView) Panel() *panel.Controller {
	return v.panel
}

// LayoutErr returns the error from the last resize, if the screen could not
// fit the drawer.
func (v *PanelView) LayoutErr() error {
	return v.layoutErr
}

// SetMain sets the content drawn behind the drawer.
func (v *PanelView) SetMain(s string) {
	v.main = s
}

// Init implements View.
func (v *PanelView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *PanelView) Update(msg tea.Msg) (View, tea.Cmd) {
	from := v.now()
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize(msg.Width, msg.Height)
	case tea.MouseMsg:
		v.handleMouse(msg)
	case OpenPanelMsg:
		v.releasePointer()
		v.panel.Open()
	case ClosePanelMsg:
		v.releasePointer()
		v.panel.Close()
	case TogglePanelMsg:
		v.releasePointer()
		v.panel.Toggle()
	case ToggleDragLockMsg:
		v.releasePointer()
		v.panel.SetDragEnabled(!v.panel.DragEnabled())
	case frameMsg:
		at := time.Time(msg)
		v.ticking = false
		v.panel.Advance(at.Sub(v.lastFrame))
		from = at
	}
	return v, v.scheduleFrame(from)
}

// scheduleFrame starts the frame clock if the panel is settling and no tick
// is pending.
func (v *PanelView) scheduleFrame(from time.Time) tea.Cmd {
	if v.ticking || !v.panel.Animating() {
		return nil
	}
	v.ticking = true
	v.lastFrame = from
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (v *PanelView) resize(width, height int) {
	v.width, v.height = width, height
	axis := height
	if v.opts.Orientation == Horizontal {
		axis = width
	}
	g := panel.Geometry{
		Collapsed: float64(v.opts.Peek),
		Expanded:  math.Floor(v.opts.ExpandedRatio * float64(axis)),
	}
	v.layoutErr = v.panel.Layout(g)
	if v.layoutErr != nil {
		v.pressed = false
	}
}

func (v *PanelView) handleMouse(msg tea.MouseMsg) {
	if v.layoutErr != nil || v.width == 0 {
		return
	}
	pos := v.axisPos(msg.X, msg.Y)
	at := v.now()
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !v.onDrawer(pos) {
			return
		}
		v.pressed = true
		v.panel.PointerDown(pos, at)
	case tea.MouseActionMotion:
		if v.pressed {
			v.panel.PointerMove(pos, at)
		}
	case tea.MouseActionRelease:
		if v.pressed {
			v.pressed = false
			v.panel.PointerUp(pos, at)
		}
	}
}

func (v *PanelView) releasePointer() {
	if v.pressed {
		v.pressed = false
		v.panel.PointerCancel(v.now())
	}
}

// axisPos converts a cell to a position along the drag axis, measured from
// the edge the drawer is attached to. The drawer's leading row or column is
// at the drawer size.
func (v *PanelView) axisPos(x, y int) float64 {
	if v.opts.Orientation == Horizontal {
		return float64(v.width - x)
	}
	return float64(v.height - y)
}

func (v *PanelView) onDrawer(pos float64) bool {
	return pos >= 1 && pos <= float64(v.drawerSize())
}

func (v *PanelView) drawerSize() int {
	return int(math.Round(v.panel.Offset()))
}

// View implements View.
func (v *PanelView) View() string {
	if v.width <= 0 || v.height <= 0 {
		return ""
	}
	if v.layoutErr != nil {
		msg := Styles.Error.Render(textutil.Truncate(v.layoutErr.Error(), v.width))
		if v.height == 1 {
			return msg
		}
		return textutil.Block(v.main, v.width, v.height-1) + "\n" + msg
	}

	size := v.drawerSize()
	if v.opts.Orientation == Horizontal {
		mainW := v.width - size
		drawer := v.renderDrawer(size, v.height)
		if mainW <= 0 {
			return drawer
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, textutil.Block(v.main, mainW, v.height), drawer)
	}

	mainH := v.height - size
	drawer := v.renderDrawer(v.width, size)
	if mainH <= 0 {
		return drawer
	}
	if size <= 0 {
		return textutil.Block(v.main, v.width, mainH)
	}
	return textutil.Block(v.main, v.width, mainH) + "\n" + drawer
}

func (v *PanelView) renderDrawer(w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	fill := func(s lipgloss.Style, text string) string {
		return s.Inline(true).Width(w).MaxWidth(w).Render(text)
	}

	handle, label := Styles.Handle, "≡≡≡"
	if !v.panel.DragEnabled() {
		handle, label = Styles.Locked, "locked"
	}
	p := v.panel.Progress()
	v.bar.Width = max(w-2, 1)

	lines := []string{
		fill(handle, textutil.Center(label, w)),
		fill(Styles.State, fmt.Sprintf(" %s %3.0f%%", v.panel.State(), p*100)),
		fill(Styles.Drawer, " "+v.bar.ViewAs(p)),
	}
	if w > 2 {
		for _, l := range strings.Split(textutil.Block(v.opts.Body, w-2, h), "\n") {
			lines = append(lines, fill(Styles.Drawer, " "+l))
		}
	}
	for len(lines) < h {
		lines = append(lines, fill(Styles.Drawer, ""))
	}
	return strings.Join(lines[:h], "\n")
}
