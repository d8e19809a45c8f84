package ui

import (
	"fmt"
	"log"
	"strings"

	"slidingpanel/internal/panel"
	"slidingpanel/internal/trace"

	tea "github.com/charmbracelet/bubbletea"
)

// ToggleHistoryMsg shows or hides the slide history.
type ToggleHistoryMsg struct{}

// AppModel is the sample screen: a title, the latest slide notification and
// the key hints behind a PanelView drawer.
type AppModel struct {
	Title      string
	Panel      *PanelView
	KeyHandler *KeyHandler

	// Status is the latest listener notification, rendered as text.
	Status        string
	Notifications int

	// History returns the trace of this panel's slides; nil disables SPC h.
	History     func() *trace.Trace
	showHistory bool

	sub panel.Subscription
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return a.Panel.Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if consumed, cmd := a.KeyHandler.Handle(msg); consumed {
			return a, cmd
		}
		return a, nil
	case ToggleHistoryMsg:
		a.showHistory = !a.showHistory && a.History != nil
		return a, nil
	}

	v, cmd := a.Panel.Update(msg)
	if p, ok := v.(*PanelView); ok {
		a.Panel = p
	}
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		if err := a.Panel.LayoutErr(); err != nil {
			log.Printf("ui: resize %dx%d: %v", size.Width, size.Height, err)
		}
	}
	return a, cmd
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	a.Panel.SetMain(a.mainView())
	return a.Panel.View()
}

func (a *AppModel) mainView() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(a.Title))
	b.WriteString("\n\n")
	b.WriteString(Styles.Status.Render(a.Status))
	b.WriteString("\n")
	b.WriteString(Styles.Muted.Render(fmt.Sprintf("%d notifications", a.Notifications)))
	b.WriteString("\n\n")
	b.WriteString(RenderShortcuts(NewKeyMap(a.KeyHandler)))
	if a.showHistory {
		b.WriteString("\n\n")
		b.WriteString(RenderSlideHistory(a.History(), historyLimit))
	}
	if a.KeyHandler.LeaderWaiting {
		b.WriteString("\n")
		b.WriteString(RenderKeybindHelp(a.KeyHandler))
	}
	return b.String()
}

// onSlide is the screen's slide listener.
func (a *AppModel) onSlide(_ *panel.Controller, s panel.State, progress float64) {
	var name string
	switch s {
	case panel.Collapsed:
		name = "COLLAPSED"
	case panel.Expanded:
		name = "EXPANDED"
	case panel.Sliding:
		name = "SLIDING"
	}
	a.Status = fmt.Sprintf("Sliding view %s: %.2f", name, progress)
	a.Notifications++
}

// Close stops listening to the panel.
func (a *AppModel) Close() {
	a.Panel.Panel().RemoveSlideListener(a.sub)
}

// NewAppModel creates the sample screen around c.
func NewAppModel(title string, c *panel.Controller, opts PanelOptions) *AppModel {
	reg := NewKeybindRegistry()
	reg.BindWithDesc("o", msgCmd(OpenPanelMsg{}), "open")
	reg.BindWithDesc("c", msgCmd(ClosePanelMsg{}), "close")
	reg.BindWithDesc("t", msgCmd(TogglePanelMsg{}), "toggle")
	reg.Bind("enter", msgCmd(TogglePanelMsg{}))
	reg.BindWithDesc("q", tea.Quit, "quit")
	reg.Bind("ctrl+c", tea.Quit)
	reg.BindWithDesc("SPC o", msgCmd(OpenPanelMsg{}), "open")
	reg.BindWithDesc("SPC c", msgCmd(ClosePanelMsg{}), "close")
	reg.BindWithDesc("SPC t", msgCmd(TogglePanelMsg{}), "toggle")
	reg.BindWithDesc("SPC l", msgCmd(ToggleDragLockMsg{}), "lock drag")
	reg.BindWithDesc("SPC h", msgCmd(ToggleHistoryMsg{}), "history")
	reg.BindWithDesc("SPC q", tea.Quit, "quit")

	a := &AppModel{
		Title:      title,
		Panel:      NewPanelView(c, opts),
		KeyHandler: NewKeyHandler(reg),
	}
	a.onSlide(c, c.State(), c.Progress())
	a.Notifications = 0
	a.sub = c.AddSlideListener(a.onSlide)
	return a
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (a *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: a}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
