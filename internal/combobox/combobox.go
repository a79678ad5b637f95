// Package combobox implements the type-ahead book search box: a text input
// whose keystrokes trigger debounced searches, and a dropdown of suggestions
// driven by keyboard and mouse.
//
// The Model wires four controllers together:
//
//   - Debouncer: query text to rate-limited, race-safe searches
//   - Navigator: open flag and highlighted index over the results
//   - DismissalWatcher: closes the list on presses outside it
//   - ScrollSynchronizer: keeps the highlighted row visible
//
// All state lives in those controllers; the Model only routes messages and
// keeps them in step after every event.
package combobox

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shelf/internal/domain"
)

// Config configures a combobox
type Config struct {
	Searcher    Searcher
	Debounce    time.Duration
	Limit       int
	Timeout     time.Duration
	Width       int
	MaxVisible  int
	Prompt      string
	Placeholder string
	Keys        KeyMap
	Styles      Styles

	// Pointer feeds the outside-dismissal watcher; nil disables it.
	Pointer PointerSource

	// OnCommit is called exactly once per committed suggestion.
	OnCommit func(domain.Book) tea.Cmd
}

// Model is the combobox coordinator
type Model struct {
	id       int
	input    textinput.Model
	keys     KeyMap
	onCommit func(domain.Book) tea.Cmd

	debouncer *Debouncer
	nav       *Navigator
	watcher   *DismissalWatcher
	scroller  *ScrollSynchronizer
	list      *suggestionList

	listVersion uint64
	originX     int
	originY     int
	width       int
}

// New creates a combobox from cfg
func New(cfg Config) *Model {
	if cfg.Width <= 0 {
		cfg.Width = 48
	}
	if cfg.MaxVisible <= 0 {
		cfg.MaxVisible = 8
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Keys.Commit.Keys() == nil {
		cfg.Keys = DefaultKeyMap()
	}
	if cfg.Styles.Dropdown.GetBorderStyle() == (lipgloss.Border{}) {
		cfg.Styles = DefaultStyles()
	}

	ti := textinput.New()
	ti.Prompt = cfg.Prompt
	ti.Placeholder = cfg.Placeholder
	ti.CharLimit = 256
	ti.Width = cfg.Width - lipgloss.Width(cfg.Prompt) - 1

	m := &Model{
		id:       nextID(),
		input:    ti,
		keys:     cfg.Keys,
		onCommit: cfg.OnCommit,
		width:    cfg.Width,
	}
	m.debouncer = NewDebouncer(m.id, cfg.Searcher, cfg.Debounce, cfg.Limit, cfg.Timeout)
	m.nav = NewNavigator(cfg.Keys)
	m.list = newSuggestionList(cfg.Width, cfg.MaxVisible, cfg.Styles)
	m.scroller = NewScrollSynchronizer(m.list.Row)
	m.watcher = NewDismissalWatcher(cfg.Pointer, m.regions, func() {
		m.nav.Dismiss()
		m.sync()
	})

	return m
}

// ID returns the unique ID of the combobox
func (m *Model) ID() int { return m.id }

// Query returns the current query text
func (m *Model) Query() string { return m.debouncer.Query() }

// Suggestions returns the current suggestion list
func (m *Model) Suggestions() []domain.Book { return m.debouncer.Items() }

// IsOpen reports whether the dropdown is shown
func (m *Model) IsOpen() bool { return m.nav.IsOpen() }

// SelectedIndex returns the highlighted row, -1 when none
func (m *Model) SelectedIndex() int { return m.nav.Index() }

// IsLoading reports whether the latest search is in flight
func (m *Model) IsLoading() bool { return m.debouncer.Loading() }

// Focused reports whether the input has focus
func (m *Model) Focused() bool { return m.input.Focused() }

// Keys returns the navigation key map (for help rendering)
func (m *Model) Keys() KeyMap { return m.keys }

// SetCursorMode sets how the input cursor is drawn
func (m *Model) SetCursorMode(mode cursor.Mode) tea.Cmd {
	return m.input.Cursor.SetMode(mode)
}

// SetOrigin records where the combobox is drawn on screen
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// InputRegion is the screen area of the text input
func (m *Model) InputRegion() Region {
	return Region{X: m.originX, Y: m.originY, Width: m.width, Height: 1}
}

// DropdownRegion is the screen area of the dropdown; empty while closed
func (m *Model) DropdownRegion() Region {
	if !m.nav.IsOpen() {
		return Region{}
	}
	w, h := m.list.OuterSize()
	return Region{X: m.originX, Y: m.originY + 1, Width: w, Height: h}
}

func (m *Model) regions() []Region {
	return []Region{m.InputRegion(), m.DropdownRegion()}
}

// SetQuery updates the query and schedules a search
func (m *Model) SetQuery(text string) tea.Cmd {
	if m.input.Value() != text {
		m.input.SetValue(text)
	}
	cmd := m.debouncer.SetQuery(text)
	m.sync()
	return cmd
}

// HandleKeyDown runs navigation keys. handled is false for keys the
// navigator does not own, which then belong to the text input.
func (m *Model) HandleKeyDown(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	item, handled := m.nav.HandleKey(msg)
	if !handled {
		return nil, false
	}
	if item != nil {
		cmd = m.commit(*item)
	}
	m.sync()
	return cmd, true
}

// HandleClickItem commits suggestion i as a pointer click does
func (m *Model) HandleClickItem(i int) tea.Cmd {
	item, ok := m.nav.Commit(i)
	if !ok {
		return nil
	}
	cmd := m.commit(item)
	m.sync()
	return cmd
}

// HandleFocus focuses the input and re-opens an existing list without
// searching again
func (m *Model) HandleFocus() tea.Cmd {
	cmd := m.input.Focus()
	if Searchable(m.debouncer.Query()) {
		m.nav.Reopen()
	}
	m.sync()
	return cmd
}

// Blur removes focus from the input. The list stays as it is.
func (m *Model) Blur() {
	m.input.Blur()
}

// Dismiss closes the list without touching the query
func (m *Model) Dismiss() {
	m.nav.Dismiss()
	m.sync()
}

// Close tears the combobox down: the pending timer is cancelled, late
// responses are dropped and the pointer subscription is released.
func (m *Model) Close() {
	m.debouncer.Close()
	m.nav.Dismiss()
	m.watcher.Close()
}

// Update handles messages addressed to the combobox
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg, searchResultMsg:
		cmd, outcome := m.debouncer.Update(msg)
		m.sync()
		if outcome == nil {
			return cmd
		}
		return tea.Batch(cmd, outcomeCmd(*outcome))

	case tea.KeyMsg:
		if !m.input.Focused() {
			return nil
		}
		if cmd, handled := m.HandleKeyDown(msg); handled {
			return cmd
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if value := m.input.Value(); value != before {
			return tea.Batch(cmd, m.SetQuery(value))
		}
		return cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if !isPointerDown(msg) || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if !m.nav.IsOpen() || !m.DropdownRegion().Contains(msg.X, msg.Y) {
		return nil
	}
	frameTop := m.list.styles.Dropdown.GetBorderTopSize() + m.list.styles.Dropdown.GetPaddingTop()
	row := msg.Y - m.originY - 1 - frameTop
	if i, ok := m.list.IndexAtRow(row); ok {
		return m.HandleClickItem(i)
	}
	return nil
}

// View renders the input and, while open, the dropdown below it
func (m *Model) View() string {
	input := m.input.View()
	if !m.nav.IsOpen() {
		return input
	}
	return lipgloss.JoinVertical(lipgloss.Left, input, m.list.View(m.nav.Index()))
}

func (m *Model) commit(item domain.Book) tea.Cmd {
	if m.onCommit == nil {
		return nil
	}
	return m.onCommit(item)
}

// sync brings navigator, watcher and scroller in line with the latest state
func (m *Model) sync() {
	if v := m.debouncer.Version(); v != m.listVersion {
		m.listVersion = v
		items := m.debouncer.Items()
		m.nav.SetItems(items)
		m.list.SetItems(items)
		m.scroller.Reset()
	}
	m.watcher.SetActive(m.nav.IsOpen())
	m.scroller.Sync(m.nav.IsOpen(), m.nav.Index())
}

func outcomeCmd(o Outcome) tea.Cmd {
	if o.Err != nil {
		return func() tea.Msg { return SearchFailedMsg{Query: o.Query, Err: o.Err} }
	}
	return func() tea.Msg { return SearchCompletedMsg{Query: o.Query, Results: o.Results} }
}
