package browser

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Filter  key.Binding
	Clear   key.Binding
	Accept  key.Binding
	Refresh key.Binding
	Quit    key.Binding
	Abort   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear filter")),
		Accept:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "done")),
		Refresh: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Abort:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}
