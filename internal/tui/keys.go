package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the ranking TUI.
type KeyMap struct {
	// Navigation within the focused pane.
	Up   key.Binding
	Down key.Binding

	// Reordering the focused ranked value.
	MoveUp    key.Binding
	MoveDown  key.Binding
	RaiseOne  key.Binding // left gesture
	LowerOne  key.Binding // right gesture
	Remove    key.Binding
	Blur      key.Binding
	Select    key.Binding
	SwitchTab key.Binding

	Import key.Binding
	Export key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K/S-↑", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J/S-↓", "move down"),
	),
	RaiseOne: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "raise"),
	),
	LowerOne: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "lower"),
	),
	Remove: key.NewBinding(
		key.WithKeys("x", "delete", "backspace"),
		key.WithHelp("x/Del", "remove"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "unfocus"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter", "select/add"),
	),
	SwitchTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	Import: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Remove, k.SwitchTab, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.SwitchTab, k.Blur},
		{k.MoveUp, k.MoveDown, k.RaiseOne, k.LowerOne, k.Remove},
		{k.Import, k.Export, k.Reset, k.Help, k.Quit},
	}
}
