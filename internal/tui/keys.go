package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap collects every binding the root model answers to. Tab-specific
// actions are repeated here so the help view can describe them even though
// the components handle the key presses themselves.
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Help     key.Binding
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Add      key.Binding
	Mark     key.Binding
	Unmark   key.Binding
	Archive  key.Binding
	Delete   key.Binding
	Restore  key.Binding
	Edit     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Quit, k.Help},
		{k.Up, k.Down, k.Enter},
		{k.Add, k.Mark, k.Unmark, k.Archive, k.Delete, k.Restore, k.Edit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add habit")),
		Mark:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark done")),
		Unmark:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unmark")),
		Archive:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "archive")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Restore:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restore")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit settings")),
	}
}
