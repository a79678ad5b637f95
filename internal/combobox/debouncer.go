package combobox

import (
	"context"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"shelf/internal/domain"
)

// MinQueryLength is the shortest trimmed query that triggers a search
const MinQueryLength = 2

// Searcher is the external book-search collaborator
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Book, error)
}

// SearchFunc adapts a plain function to Searcher
type SearchFunc func(ctx context.Context, query string, limit int) ([]domain.Book, error)

func (f SearchFunc) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	return f(ctx, query, limit)
}

// Outcome describes the latest search once its response has been applied
type Outcome struct {
	Query   string
	Results int
	Err     error
}

// Debouncer turns keystrokes into rate-limited searches and keeps the
// result of the most recently dispatched one.
type Debouncer struct {
	owner   int
	search  Searcher
	delay   time.Duration
	limit   int
	timeout time.Duration

	query   string
	items   []domain.Book
	version uint64
	loading bool

	timerID     int
	cancelTimer context.CancelFunc
	seq         uint64
	closed      bool
}

// NewDebouncer creates a debouncer. owner tags the messages it emits.
func NewDebouncer(owner int, search Searcher, delay time.Duration, limit int, timeout time.Duration) *Debouncer {
	return &Debouncer{
		owner:   owner,
		search:  search,
		delay:   delay,
		limit:   limit,
		timeout: timeout,
	}
}

// Searchable reports whether text is long enough to search for
func Searchable(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinQueryLength
}

// Query returns the raw query as last set
func (d *Debouncer) Query() string { return d.query }

// Items returns the current suggestion list. Callers must not modify it.
func (d *Debouncer) Items() []domain.Book { return d.items }

// Version changes every time the suggestion list is replaced
func (d *Debouncer) Version() uint64 { return d.version }

// Loading reports whether the latest dispatched search is still in flight
func (d *Debouncer) Loading() bool { return d.loading }

// Pending reports whether a debounce timer is running
func (d *Debouncer) Pending() bool { return d.cancelTimer != nil }

// SetQuery records text and (re)starts the debounce timer. Short queries
// clear the list without searching.
func (d *Debouncer) SetQuery(text string) tea.Cmd {
	d.query = text
	d.stopTimer()

	if !Searchable(text) {
		// anything still in flight belongs to an older query
		d.seq++
		d.loading = false
		d.replace(nil)
		return nil
	}
	if d.closed {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancelTimer = cancel
	return debounceTimer(ctx, d.delay, debounceMsg{
		owner: d.owner,
		id:    d.timerID,
		query: strings.TrimSpace(text),
	})
}

// Update consumes the debouncer's own messages. It returns the search
// command when a timer expires, and an Outcome once the latest search
// response has been applied.
func (d *Debouncer) Update(msg tea.Msg) (tea.Cmd, *Outcome) {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.owner != d.owner || msg.id != d.timerID || d.closed {
			return nil, nil
		}
		d.stopTimer()
		return d.dispatch(msg.query), nil

	case searchResultMsg:
		if msg.owner != d.owner {
			return nil, nil
		}
		if msg.seq != d.seq || d.closed {
			log.Printf("combobox: discarding stale results for %q (seq %d, latest %d)", msg.query, msg.seq, d.seq)
			return nil, nil
		}
		d.loading = false
		if msg.err != nil {
			log.Printf("combobox: search for %q failed: %v", msg.query, msg.err)
			d.replace(nil)
			return nil, &Outcome{Query: msg.query, Err: msg.err}
		}
		d.replace(msg.items)
		return nil, &Outcome{Query: msg.query, Results: len(msg.items)}
	}
	return nil, nil
}

// Close cancels the pending timer and drops every in-flight response
func (d *Debouncer) Close() {
	d.stopTimer()
	d.closed = true
	d.seq++
	d.loading = false
}

func (d *Debouncer) dispatch(query string) tea.Cmd {
	d.seq++
	d.loading = true

	seq, owner := d.seq, d.owner
	search, limit, timeout := d.search, d.limit, d.timeout
	log.Printf("combobox: dispatching search %d for %q", seq, query)

	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		items, err := search.Search(ctx, query, limit)
		return searchResultMsg{owner: owner, seq: seq, query: query, items: items, err: err}
	}
}

// stopTimer cancels the running timer and invalidates any expiry already queued
func (d *Debouncer) stopTimer() {
	d.timerID++
	if d.cancelTimer != nil {
		d.cancelTimer()
		d.cancelTimer = nil
	}
}

func (d *Debouncer) replace(items []domain.Book) {
	if len(items) == 0 && len(d.items) == 0 {
		return
	}
	d.items = items
	d.version++
}

func debounceTimer(ctx context.Context, delay time.Duration, msg debounceMsg) tea.Cmd {
	return func() tea.Msg {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
