package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevTab  key.Binding
	NextTab  key.Binding
	AddHour  key.Binding
	SubHour  key.Binding
	AddFive  key.Binding
	SubFive  key.Binding
	Zero     key.Binding
	Max      key.Binding
	SetHours key.Binding
	Add      key.Binding
	Remove   key.Binding
	Undo     key.Binding
	Rename   key.Binding
	Color    key.Binding
	Move     key.Binding
	Reload   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous category")),
	Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next category")),
	PrevTab:  key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←", "previous tab")),
	NextTab:  key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("→", "next tab")),
	AddHour:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "one more hour")),
	SubHour:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "one hour less")),
	AddFive:  key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "five more hours")),
	SubFive:  key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "five hours less")),
	Zero:     key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "clear hours")),
	Max:      key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "fill remaining")),
	SetHours: key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "type hours")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add category")),
	Remove:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "remove category")),
	Undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	Rename:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
	Color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next color")),
	Move:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move blocks")),
	Reload:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload from store")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.AddHour, k.SubHour, k.Move, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevTab, k.NextTab},
		{k.AddHour, k.SubHour, k.AddFive, k.SubFive, k.Zero, k.Max, k.SetHours},
		{k.Add, k.Remove, k.Undo, k.Rename, k.Color, k.Move},
		{k.Reload, k.Help, k.Quit},
	}
}
