package combobox

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"shelf/internal/domain"
)

// Navigator owns the open flag and the highlighted index over the current
// suggestion list.
//
// A fresh non-empty list opens with index 0 highlighted so Enter works
// without a directional key first.
type Navigator struct {
	keys  KeyMap
	items []domain.Book
	open  bool
	index int
}

// NewNavigator creates a closed navigator with no highlight
func NewNavigator(keys KeyMap) *Navigator {
	return &Navigator{keys: keys, index: -1}
}

func (n *Navigator) IsOpen() bool         { return n.open }
func (n *Navigator) Index() int           { return n.index }
func (n *Navigator) Items() []domain.Book { return n.items }

// SetItems replaces the list and resets open/index accordingly
func (n *Navigator) SetItems(items []domain.Book) {
	n.items = items
	if len(items) == 0 {
		n.open = false
		n.index = -1
		return
	}
	n.open = true
	n.index = 0
}

// HandleKey processes a key while the list is open. It returns the
// committed item (if any) and whether the key was consumed.
func (n *Navigator) HandleKey(msg tea.KeyMsg) (*domain.Book, bool) {
	if !n.open || len(n.items) == 0 {
		return nil, false
	}

	switch {
	case key.Matches(msg, n.keys.Down):
		if n.index < len(n.items)-1 {
			n.index++
		}
		return nil, true

	case key.Matches(msg, n.keys.Up):
		if n.index > -1 {
			n.index--
		}
		return nil, true

	case key.Matches(msg, n.keys.Commit):
		if n.index < 0 || n.index >= len(n.items) {
			// nothing highlighted: swallow Enter without picking anything
			return nil, true
		}
		item := n.items[n.index]
		n.Dismiss()
		return &item, true

	case key.Matches(msg, n.keys.Dismiss):
		n.Dismiss()
		return nil, true
	}

	return nil, false
}

// Commit highlights item i and commits it, as a click on that row does
func (n *Navigator) Commit(i int) (domain.Book, bool) {
	if !n.open || i < 0 || i >= len(n.items) {
		return domain.Book{}, false
	}
	n.index = i
	item := n.items[i]
	n.Dismiss()
	return item, true
}

// Dismiss closes the list and clears the highlight
func (n *Navigator) Dismiss() {
	n.open = false
	n.index = -1
}

// Reopen shows the current list again without refetching
func (n *Navigator) Reopen() bool {
	if len(n.items) == 0 {
		return false
	}
	if !n.open {
		n.open = true
		n.index = 0
	}
	return true
}
