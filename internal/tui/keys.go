package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the task list
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Row actions
	Edit   key.Binding
	Delete key.Binding

	// Actions
	New     key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	// Modal
	Submit key.Binding
	Close  key.Binding

	// Confirmation
	Confirm key.Binding
	Decline key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "delete"),
		),
		New: key.NewBinding(
			key.WithKeys("n", "a"),
			key.WithHelp("n", "add task"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Decline: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Edit, k.Delete, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.New, k.Edit, k.Delete, k.Refresh},
		{k.Submit, k.Close, k.Help, k.Quit},
	}
}
