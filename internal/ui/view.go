package ui

import tea "github.com/charmbracelet/bubbletea"

// View is a screen region with its own model, update and view.
// PanelView is the only implementation; AppModel composes it.
type View interface {
	Init() tea.Cmd
	Update(tea.Msg) (View, tea.Cmd)
	View() string
}
