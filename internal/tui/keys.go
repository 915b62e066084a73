package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the browse-mode bindings. It implements help.KeyMap.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Toggle   key.Binding
	Collapse key.Binding
	Expand   key.Binding

	Rename    key.Binding
	Delete    key.Binding
	NewFolder key.Binding
	Mark      key.Binding
	Group     key.Binding
	Indent    key.Binding
	Outdent   key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding

	Capture key.Binding
	Export  key.Binding
	Clear   key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open/close folder")),
		Collapse: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "collapse")),
		Expand:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "expand")),

		Rename:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		NewFolder: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new folder")),
		Mark:      key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "mark")),
		Group:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "group into folder")),
		Indent:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "into folder above")),
		Outdent:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "out of folder")),
		MoveUp:    key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),

		Capture: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "capture")),
		Export:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Clear:   key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear all")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Capture, k.Rename, k.Delete, k.Group, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Toggle, k.Collapse, k.Expand},
		{k.Rename, k.Delete, k.NewFolder, k.Mark, k.Group},
		{k.Indent, k.Outdent, k.MoveUp, k.MoveDown},
		{k.Capture, k.Export, k.Clear, k.Theme, k.Help, k.Quit},
	}
}
