package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI key bindings.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	All       key.Binding
	Active    key.Binding
	Completed key.Binding
	Clear     key.Binding
	Panel     key.Binding
	Insert    key.Binding
	Submit    key.Binding
	Leave     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space/x", "toggle")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		All:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		Active:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		Completed: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		Panel:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "open/close")),
		Insert:    key.NewBinding(key.WithKeys("i", "a"), key.WithHelp("i", "new task")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "list")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Insert, k.Toggle, k.Delete, k.Panel, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle, k.Delete},
		{k.All, k.Active, k.Completed, k.Clear},
		{k.Insert, k.Submit, k.Leave, k.Panel},
		{k.Help, k.Quit},
	}
}

// inputKeyMap is the help shown while typing.
type inputKeyMap struct{ k keyMap }

func (i inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{i.k.Submit, i.k.Leave, i.k.Panel}
}

func (i inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{i.ShortHelp()}
}
