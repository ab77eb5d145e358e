package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the alert review shortcuts. Row navigation is handled by the
// table's own key map.
type KeyMap struct {
	MarkRead key.Binding
	MarkAll  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		MarkRead: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r/enter", "mark read"),
		),
		MarkAll: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "mark all read"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MarkRead, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.MarkRead, k.MarkAll},
		{k.Help, k.Quit},
	}
}
