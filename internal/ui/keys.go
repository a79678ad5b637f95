package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"shelf/internal/combobox"
)

type keyMap struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Help        key.Binding
	SwitchFocus key.Binding
	LeaveSearch key.Binding
	FocusSearch key.Binding
	Up          key.Binding
	Down        key.Binding
	Remove      key.Binding
	Details     key.Binding

	search combobox.KeyMap
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		SwitchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch focus")),
		LeaveSearch: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "go to shelf")),
		FocusSearch: key.NewBinding(key.WithKeys("/", "tab"), key.WithHelp("/", "search")),
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Remove:      key.NewBinding(key.WithKeys("d", "delete", "backspace"), key.WithHelp("d", "remove")),
		Details:     key.NewBinding(key.WithKeys("enter", "o"), key.WithHelp("enter", "details")),
		search:      combobox.DefaultKeyMap(),
	}
}

// bindings implements help.KeyMap over a fixed list
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

// helpKeys returns the keys that do something in the current focus
func (m *Model) helpKeys() bindings {
	if m.focus == focusSearch {
		if m.search.IsOpen() {
			return bindings(m.keys.search.ShortHelp())
		}
		return bindings{m.keys.SwitchFocus, m.keys.LeaveSearch, m.keys.ForceQuit}
	}
	return bindings{m.keys.Up, m.keys.Down, m.keys.Details, m.keys.Remove, m.keys.FocusSearch, m.keys.Help, m.keys.Quit}
}
