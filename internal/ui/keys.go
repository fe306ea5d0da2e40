package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the window-level bindings. Keys not bound here go to the
// focused view.
type keyMap struct {
	NextPane      key.Binding
	PrevPane      key.Binding
	NextIteration key.Binding
	PrevIteration key.Binding
	Filter        key.Binding
	ClearFilter   key.Binding
	Open          key.Binding
	Reload        key.Binding
	Help          key.Binding
	PagerHelp     key.Binding
	Quit          key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		NextPane:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevPane:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous view")),
		NextIteration: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next iteration")),
		PrevIteration: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous iteration")),
		Filter:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter hits")),
		ClearFilter:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear filter")),
		Open:          key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "full alignment")),
		Reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload report")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		PagerHelp:     key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "help in pager")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPane, k.PrevPane, k.Open},
		{k.NextIteration, k.PrevIteration, k.Reload},
		{k.Filter, k.ClearFilter},
		{k.Help, k.PagerHelp, k.Quit},
	}
}
