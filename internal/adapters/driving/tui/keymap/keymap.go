// Package keymap defines keybindings for the chat TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the full help line.
	Help key.Binding

	// Submit sends the typed query, or expands the selected entry when
	// the input is empty.
	Submit key.Binding

	// Up selects the previous collapsible entry.
	Up key.Binding

	// Down selects the next collapsible entry.
	Down key.Binding

	// Expand toggles the body of the selected entry.
	Expand key.Binding

	// ToggleAgent switches agent mode.
	ToggleAgent key.Binding

	// Clear restores the chat log to its initial state.
	Clear key.Binding

	// PageUp scrolls the log up.
	PageUp key.Binding

	// PageDown scrolls the log down.
	PageDown key.Binding

	// Cancel deselects the selected entry.
	Cancel key.Binding

	// Settings opens the settings view.
	Settings key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "prev item"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next item"),
		),
		Expand: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "expand"),
		),
		ToggleAgent: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "agent"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "deselect"),
		),
		Settings: key.NewBinding(
			key.WithKeys("f2"),
			key.WithHelp("f2", "settings"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Clear, k.Quit}
}

// AgentHelp returns the short help for modes with the agent toggle.
func (k *KeyMap) AgentHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleAgent, k.Clear, k.Quit}
}

// SelectionHelp returns keybindings shown while an entry is selected.
func (k *KeyMap) SelectionHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Cancel}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Up, k.Down, k.Expand, k.Cancel},
		{k.PageUp, k.PageDown, k.ToggleAgent, k.Clear},
		{k.Settings, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
