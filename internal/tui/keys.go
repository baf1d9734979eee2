package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap binds the home screen keys.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Status   key.Binding
	Priority key.Binding
	Sort     key.Binding
	Complete key.Binding
	Reopen   key.Binding
	Cancel   key.Binding
	Delete   key.Binding
	Add      key.Binding
	Edit     key.Binding
	Calendar key.Binding
	Theme    key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
		Priority: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority")),
		Sort:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort")),
		Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
		Reopen:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reopen")),
		Cancel:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Calendar: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "calendar")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Status, k.Priority, k.Sort, k.Add, k.Edit, k.Complete, k.Delete, k.Calendar, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Status, k.Priority, k.Sort},
		{k.Complete, k.Reopen, k.Cancel, k.Delete},
		{k.Add, k.Edit, k.Calendar, k.Theme, k.Quit},
	}
}
