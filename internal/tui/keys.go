package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	First    key.Binding
	Last     key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Jump     key.Binding
	Goto     key.Binding
	Insert   key.Binding
	Remove   key.Binding
	Update   key.Binding
	Resize   key.Binding
	Type     key.Binding
	Sticky   key.Binding
	Binds    key.Binding
	Frame    key.Binding
	Copy     key.Binding
	Save     key.Binding
	Tab      key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "cursor up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "cursor down"),
	),
	First: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "scroll to first"),
	),
	Last: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "scroll to last"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "scroll list up"),
	),
	ScrollDn: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "scroll list down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("pgdn", "page down"),
	),
	Jump: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "scroll to cursor"),
	),
	Goto: key.NewBinding(
		key.WithKeys(":"),
		key.WithHelp(":", "scroll to index"),
	),
	Insert: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "insert above cursor"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove cursor item"),
	),
	Update: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "update cursor item"),
	),
	Resize: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resize cursor item"),
	),
	Type: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle layout type"),
	),
	Sticky: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "toggle sticky"),
	),
	Binds: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "finish pending binds"),
	),
	Frame: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "next frame"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy session as scenario"),
	),
	Save: key.NewBinding(
		key.WithKeys("w"),
		key.WithHelp("w", "save run"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
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

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.ScrollDn, k.Jump, k.Insert, k.Remove, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.First, k.Last, k.Tab},
		{k.ScrollUp, k.ScrollDn, k.PageUp, k.PageDown, k.Jump, k.Goto},
		{k.Insert, k.Remove, k.Update, k.Resize},
		{k.Type, k.Sticky, k.Binds, k.Frame},
		{k.Copy, k.Save, k.Help, k.Quit},
	}
}
