package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs-style notation: "SPC" for space, "SPC o" for SPC
// then o. Single keys: "o", "enter", "ctrl+c".
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
	}
}

// Bind registers a key sequence to a command, replacing any earlier binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd) {
	r.BindWithDesc(seq, cmd, "")
}

// BindWithDesc registers a key sequence with a description for the help view.
func (r *KeybindRegistry) BindWithDesc(seq string, cmd tea.Cmd, desc string) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	} else {
		delete(r.descriptions, n)
	}
}

// Lookup returns the command for a key sequence, or nil if not bound.
func (r *KeybindRegistry) Lookup(seq string) tea.Cmd {
	return r.bindings[normalizeSeq(seq)]
}

// HasPrefix reports whether any binding continues past seq.
func (r *KeybindRegistry) HasPrefix(seq string) bool {
	prefix := normalizeSeq(seq) + " "
	for k := range r.bindings {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// LeaderHints returns the next key of every binding under currentSeq, mapped
// to its description. An empty currentSeq means "SPC". Keys that lead to
// further bindings are shown with a trailing ellipsis.
func (r *KeybindRegistry) LeaderHints(currentSeq string) map[string]string {
	out := make(map[string]string)
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	for seq, cmd := range r.bindings {
		if cmd == nil || !strings.HasPrefix(seq, prefix) {
			continue
		}
		rest := strings.Fields(strings.TrimPrefix(seq, prefix))
		if len(rest) == 0 {
			continue
		}
		next := rest[0]
		if len(rest) > 1 {
			out[next] = next + "…"
			continue
		}
		if d := r.descriptions[seq]; d != "" {
			out[next] = d
		} else {
			out[next] = seq
		}
	}
	return out
}

// Shortcuts returns the described bindings that take a single key.
func (r *KeybindRegistry) Shortcuts() map[string]string {
	out := make(map[string]string)
	for seq, cmd := range r.bindings {
		if cmd == nil || strings.Contains(seq, " ") {
			continue
		}
		if d := r.descriptions[seq]; d != "" {
			out[seq] = d
		}
	}
	return out
}

// normalizeSeq converts tea key strings to the canonical form.
// "space" -> "SPC", "ctrl+c" -> "ctrl+c", "o" -> "o".
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	if seq == " " {
		parts = []string{"SPC"}
	}
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

// KeyHandler tracks leader key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderKey     string   // " " (tea.KeyMsg.String() format)
	LeaderSeq     string   // "SPC"
	LeaderWaiting bool     // waiting for the key after the leader
	Buffer        []string // sequence typed so far in leader mode
}

// NewKeyHandler creates a handler with SPC as leader.
// Bubble Tea reports space as " " (KeySpace), not "space".
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{
		Registry:  reg,
		LeaderKey: " ",
		LeaderSeq: "SPC",
	}
}

// Handle processes a KeyMsg. If consumed is true the key belonged to the
// keybind system and must not reach the views.
func (h *KeyHandler) Handle(msg tea.KeyMsg) (consumed bool, cmd tea.Cmd) {
	s := msg.String()

	if s == "esc" {
		if h.LeaderWaiting {
			h.reset()
			return true, nil
		}
		return false, nil
	}

	if s == h.LeaderKey && !h.LeaderWaiting {
		h.LeaderWaiting = true
		h.Buffer = []string{h.LeaderSeq}
		return true, nil
	}

	if h.LeaderWaiting {
		h.Buffer = append(h.Buffer, keyToSeqPart(s))
		seq := strings.Join(h.Buffer, " ")
		if c := h.Registry.Lookup(seq); c != nil {
			h.reset()
			return true, c
		}
		// Stay in leader mode while a longer binding is still possible.
		if h.Registry.HasPrefix(seq) {
			return true, nil
		}
		h.reset()
		return true, nil
	}

	if c := h.Registry.Lookup(keyToSeqPart(s)); c != nil {
		return true, c
	}
	return false, nil
}

// Sequence returns the leader sequence typed so far, or "".
func (h *KeyHandler) Sequence() string {
	return strings.Join(h.Buffer, " ")
}

func (h *KeyHandler) reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyMap implements help.KeyMap over the leader hints for the sequence the
// handler has buffered.
type KeyMap struct {
	handler *KeyHandler
}

var _ help.KeyMap = KeyMap{}

// NewKeyMap creates a KeyMap for handler.
func NewKeyMap(handler *KeyHandler) KeyMap {
	return KeyMap{handler: handler}
}

// ShortHelp returns one binding per hint, sorted by key, followed by esc.
func (km KeyMap) ShortHelp() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	hints := km.handler.Registry.LeaderHints(km.handler.Sequence())
	if len(hints) == 0 {
		return nil
	}
	bindings := hintBindings(hints)
	bindings = append(bindings, key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	))
	return bindings
}

// Shortcuts returns the described single-key bindings, sorted by key.
func (km KeyMap) Shortcuts() []key.Binding {
	if km.handler == nil || km.handler.Registry == nil {
		return nil
	}
	return hintBindings(km.handler.Registry.Shortcuts())
}

func hintBindings(hints map[string]string) []key.Binding {
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, hints[k]),
		))
	}
	return bindings
}

// FullHelp returns the short help as a single column.
func (km KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}
