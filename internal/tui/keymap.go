package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	reload        key.Binding
	toggleHelp    key.Binding
	columnLeft    key.Binding
	columnRight   key.Binding
	taskUp        key.Binding
	taskDown      key.Binding
	addTask       key.Binding
	removeTask    key.Binding
	yankTitle     key.Binding
	moveTaskLeft  key.Binding
	moveTaskRight key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		columnLeft:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		columnRight:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		taskUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		taskDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		removeTask:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove task")),
		yankTitle:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank title")),
		moveTaskLeft:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move task left")),
		moveTaskRight: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move task right")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.addTask, k.moveTaskLeft, k.moveTaskRight, k.removeTask, k.toggleHelp, k.quit}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.columnLeft, k.columnRight, k.taskUp, k.taskDown},
		{k.addTask, k.removeTask, k.yankTitle, k.moveTaskLeft, k.moveTaskRight},
		{k.reload, k.toggleHelp, k.quit},
	}
}
