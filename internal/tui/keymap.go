package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit        key.Binding
	fetch       key.Binding
	recalculate key.Binding
	toggleHelp  key.Binding
	switchPane  key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	edit        key.Binding
	preview     key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		fetch:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch board")),
		recalculate: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "recalculate")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		switchPane:  key.NewBinding(key.WithKeys("tab", "h", "l", "left", "right"), key.WithHelp("tab", "switch pane")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "row up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "row down")),
		edit:        key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit hours")),
		preview:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview report")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.edit, k.switchPane, k.preview, k.fetch, k.quit}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.edit, k.preview, k.fetch, k.recalculate},
		{k.switchPane, k.moveUp, k.moveDown},
		{k.toggleHelp, k.quit},
	}
}
