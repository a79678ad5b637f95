package ui

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"shelf/internal/bookapi"
	"shelf/internal/combobox"
	"shelf/internal/config"
	"shelf/internal/domain"
	"shelf/internal/eventbus"
	"shelf/internal/pointer"
	"shelf/internal/shelf"
)

// layout of the screen around the search box
const (
	mainPadX    = 2
	mainPadY    = 1
	titleHeight = 2 // title line plus its bottom margin
)

type focusArea int

const (
	focusSearch focusArea = iota
	focusShelf
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	store  shelf.Store

	search  *combobox.Model
	hub     *pointer.Hub
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  *Styles
	helpR   *HelpRenderer

	width       int
	height      int
	focus       focusArea
	cursor      int // selected row on the shelf
	spinning    bool
	status      string
	statusLevel statusKind

	// while the shelf has focus a hub listener watches for presses on the
	// search box; releaseSearchClick detaches it
	releaseSearchClick func()
	searchClicked      bool

	// openPager shows content in a pager; replaced in tests
	openPager func(what, content string) tea.Cmd
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, searcher combobox.Searcher, store shelf.Store) *Model {
	m := &Model{
		bus:       bus,
		config:    cfg,
		store:     store,
		hub:       pointer.NewHub(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      defaultKeyMap(),
		styles:    NewStyles(),
		helpR:     NewHelpRenderer(),
		openPager: ovPager,
	}
	m.spinner.Style = m.styles.StatusLoading

	m.search = combobox.New(combobox.Config{
		Searcher:    searcher,
		Debounce:    cfg.Search.Debounce(),
		Limit:       cfg.Search.Limit,
		Timeout:     cfg.Search.Timeout(),
		Width:       cfg.UI.Width,
		MaxVisible:  cfg.UI.MaxVisible,
		Prompt:      "Search: ",
		Placeholder: "title or author",
		Keys:        m.keys.search,
		Pointer:     m.hub,
		OnCommit: func(b domain.Book) tea.Cmd {
			return func() tea.Msg { return bookCommittedMsg{book: b} }
		},
	})
	m.search.SetOrigin(mainPadX, mainPadY+titleHeight)

	return m
}

// Init focuses the search box
func (m *Model) Init() tea.Cmd {
	return m.search.HandleFocus()
}

// Search exposes the search box (used by the app shell on shutdown)
func (m *Model) Search() *combobox.Model { return m.search }

// Close releases the search box
func (m *Model) Close() {
	m.stopSearchClicks()
	m.search.Close()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	// mouse reporting follows whoever is listening on the hub
	return m, tea.Batch(cmd, m.hub.Flush())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.hub.Dispatch(msg)
		cmd := m.search.Update(msg)
		if m.searchClicked {
			m.searchClicked = false
			cmd = tea.Batch(cmd, m.focusSearch())
		}
		return cmd

	case combobox.SearchCompletedMsg:
		m.publish(eventbus.SearchCompletedEvent{Query: msg.Query, Results: msg.Results})
		if msg.Results == 0 {
			m.setStatus(statusInfo, fmt.Sprintf("No books match %q", msg.Query))
		} else {
			m.setStatus(statusInfo, "")
		}
		return nil

	case combobox.SearchFailedMsg:
		m.publish(eventbus.SearchFailedEvent{Query: msg.Query, Err: msg.Err})
		m.setStatus(statusError, describeSearchError(msg.Err))
		return nil

	case bookCommittedMsg:
		if !m.store.Add(msg.book) {
			m.setStatus(statusWarning, fmt.Sprintf("%q is already on your shelf", msg.book.Title))
			return nil
		}
		m.cursor = m.store.Len() - 1
		return nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return nil

	case spinner.TickMsg:
		if !m.search.IsLoading() {
			m.spinning = false
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case pagerClosedMsg:
		if msg.err != nil {
			log.Printf("%s pager failed: %v", msg.what, msg.err)
			m.setStatus(statusError, fmt.Sprintf("Could not open %s: %v", msg.what, msg.err))
		}
		return nil
	}

	// debounce timers and search results belong to the search box
	cmd := m.search.Update(msg)
	return tea.Batch(cmd, m.startSpinner())
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	if m.focus == focusSearch {
		if !m.search.IsOpen() {
			switch {
			case key.Matches(msg, m.keys.SwitchFocus), key.Matches(msg, m.keys.LeaveSearch):
				m.focusShelf()
				return nil
			}
		} else if key.Matches(msg, m.keys.SwitchFocus) {
			m.search.Dismiss()
			m.focusShelf()
			return nil
		}
		return tea.Batch(m.search.Update(msg), m.startSpinner())
	}

	books := m.store.All()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		return m.openPager("help", m.helpR.RenderHelpContent())

	case key.Matches(msg, m.keys.FocusSearch):
		return m.focusSearch()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(books)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Details):
		if m.cursor >= 0 && m.cursor < len(books) {
			return m.openPager("details", m.helpR.RenderBookDetails(books[m.cursor]))
		}

	case key.Matches(msg, m.keys.Remove):
		if m.cursor >= 0 && m.cursor < len(books) {
			m.store.Remove(books[m.cursor].ID)
			m.cursor = min(m.cursor, m.store.Len()-1)
		}
	}
	return nil
}

func (m *Model) focusShelf() {
	m.focus = focusShelf
	m.search.Blur()
	if n := m.store.Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.releaseSearchClick == nil {
		m.releaseSearchClick = m.hub.Subscribe(m.watchSearchClick)
	}
}

func (m *Model) focusSearch() tea.Cmd {
	m.stopSearchClicks()
	m.focus = focusSearch
	return m.search.HandleFocus()
}

// watchSearchClick notes a left press on the blurred search box; the
// focus change itself happens back in update
func (m *Model) watchSearchClick(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if m.search.InputRegion().Contains(msg.X, msg.Y) {
		m.searchClicked = true
	}
}

func (m *Model) stopSearchClicks() {
	if m.releaseSearchClick != nil {
		m.releaseSearchClick()
		m.releaseSearchClick = nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}

// handleEvent reacts to domain events forwarded from the bus
func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.BookCommittedEvent:
		m.setStatus(statusSuccess, fmt.Sprintf("Added %q (%d on shelf)", e.Book.Title, e.ShelfSize))
	case eventbus.BookRemovedEvent:
		m.setStatus(statusInfo, fmt.Sprintf("Removed from shelf (%d left)", e.ShelfSize))
	case eventbus.CatalogImportedEvent:
		m.setStatus(statusSuccess, fmt.Sprintf("Imported %d books from %s", e.Count, e.Source))
	}
}

func (m *Model) startSpinner() tea.Cmd {
	if m.spinning || !m.search.IsLoading() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.status = text
	m.statusLevel = kind
}

func (m *Model) publish(event eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(event)
	}
}

func describeSearchError(err error) string {
	switch {
	case errors.Is(err, bookapi.ErrRateLimited):
		return "Search is rate limited; try again in a moment"
	case errors.Is(err, context.DeadlineExceeded):
		return "Search timed out"
	default:
		return fmt.Sprintf("Search failed: %v", err)
	}
}
