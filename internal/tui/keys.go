package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit     key.Binding
	Focus    key.Binding
	Term     key.Binding
	Block    key.Binding
	Program  key.Binding
	Sort     key.Binding
	Clear    key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Details  key.Binding
	Back     key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "search/table")),
	Term:     key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "term")),
	Block:    key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "block")),
	Program:  key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "program")),
	Sort:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "sort")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear filters")),
	PrevPage: key.NewBinding(key.WithKeys("pgup", "left"), key.WithHelp("pgup", "prev page")),
	NextPage: key.NewBinding(key.WithKeys("pgdown", "right"), key.WithHelp("pgdn", "next page")),
	Details:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Focus, k.Term, k.Block, k.Program, k.Sort, k.PrevPage, k.NextPage, k.Details, k.Quit}
}
