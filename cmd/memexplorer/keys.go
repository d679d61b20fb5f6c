package main

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Workload control
	Step  key.Binding
	Burst key.Binding
	Reset key.Binding

	// Manual operations
	Alloc   key.Binding
	Free    key.Binding
	Realloc key.Binding
	Check   key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first block"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last block"),
		),
		Step: key.NewBinding(
			key.WithKeys(" ", "n"),
			key.WithHelp("space/n", "step workload"),
		),
		Burst: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "burst 100 steps"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "reset heap"),
		),
		Alloc: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "alloc random size"),
		),
		Free: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "free random slot"),
		),
		Realloc: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "resize random slot"),
		),
		Check: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "integrity check"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
