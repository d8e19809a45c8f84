package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// RenderKeybindHelp renders the transient hint bar shown after SPC, or "" if
// nothing is bound under the current sequence.
func RenderKeybindHelp(h *KeyHandler) string {
	if h == nil {
		return ""
	}
	bindings := NewKeyMap(h).ShortHelp()
	if len(bindings) == 0 {
		return ""
	}

	m := help.New()
	m.Styles.ShortKey = lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true)
	m.Styles.ShortDesc = Styles.Hint
	m.Styles.ShortSeparator = Styles.Hint

	prefix := h.Sequence()
	if prefix == "" {
		prefix = h.LeaderSeq
	}
	return Styles.HelpBox.Render(Styles.Muted.Render(prefix) + " " + m.ShortHelpView(bindings))
}

// RenderShortcuts renders the always-visible single-key hints.
func RenderShortcuts(keys KeyMap) string {
	m := help.New()
	m.Styles.ShortKey = Styles.Hint.Bold(true)
	m.Styles.ShortDesc = Styles.Hint
	m.Styles.ShortSeparator = Styles.Hint
	return m.ShortHelpView(keys.Shortcuts())
}
