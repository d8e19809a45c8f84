package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors used throughout the UI
const (
	ColorAccent    = "86"  // Cyan/green - titles, handle
	ColorHighlight = "205" // Magenta - keys, drawer border
	ColorDanger    = "196" // Red - layout errors
	ColorMuted     = "241" // Gray - hints
	ColorText      = "252" // Light gray - body text
	ColorDrawer    = "236" // Dark gray - drawer background
)

// Styles contains shared style definitions used by the views.
var Styles = struct {
	Title   lipgloss.Style // Bold accent color - screen title
	Status  lipgloss.Style // Listener status line
	Muted   lipgloss.Style
	Hint    lipgloss.Style // Help/hint text
	Error   lipgloss.Style // Layout errors shown instead of the drawer
	Drawer  lipgloss.Style // Drawer body
	Handle  lipgloss.Style // Drag handle row
	Locked  lipgloss.Style // Handle while dragging is locked
	State   lipgloss.Style // State badge
	HelpBox lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Error: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Drawer: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color(ColorDrawer)),
	Handle: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccent)).
		Background(lipgloss.Color(ColorDrawer)).
		Bold(true),
	Locked: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Background(lipgloss.Color(ColorDrawer)),
	State: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Background(lipgloss.Color(ColorDrawer)).
		Bold(true),
	HelpBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
}
