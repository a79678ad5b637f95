package combobox

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"shelf/internal/domain"
)

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func books(titles ...string) []domain.Book {
	out := make([]domain.Book, len(titles))
	for i, title := range titles {
		out[i] = domain.Book{ID: fmt.Sprintf("id-%d", i), Title: title, Authors: []string{"Author"}}
	}
	return out
}

// fakeSearcher answers from a fixed table and records every query it sees
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]domain.Book
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakePointer counts subscriptions and lets tests press anywhere
type fakePointer struct {
	handlers map[int]func(tea.MouseMsg)
	next     int
	attaches int
	detaches int
}

func newFakePointer() *fakePointer {
	return &fakePointer{handlers: map[int]func(tea.MouseMsg){}}
}

func (p *fakePointer) Subscribe(handler func(tea.MouseMsg)) func() {
	p.next++
	id := p.next
	p.handlers[id] = handler
	p.attaches++
	return func() {
		if _, ok := p.handlers[id]; ok {
			delete(p.handlers, id)
			p.detaches++
		}
	}
}

func (p *fakePointer) Listeners() int { return len(p.handlers) }

func (p *fakePointer) send(msg tea.MouseMsg) {
	handlers := make([]func(tea.MouseMsg), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	for _, h := range handlers {
		h(msg)
	}
}

func (p *fakePointer) press(x, y int) {
	p.send(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

// harness drives a Model the way the bubbletea runtime would, but
// synchronously so tests control ordering.
type harness struct {
	t         *testing.T
	m         *Model
	searcher  *fakeSearcher
	pointer   *fakePointer
	committed []domain.Book
	emitted   []tea.Msg
}

func newHarness(t *testing.T, results map[string][]domain.Book) *harness {
	t.Helper()
	return newHarnessOn(t, results, newFakePointer())
}

// newHarnessOn builds a harness whose combobox listens on pointer, so
// several comboboxes can share one source
func newHarnessOn(t *testing.T, results map[string][]domain.Book, pointer *fakePointer) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		searcher: &fakeSearcher{results: results},
		pointer:  pointer,
	}
	h.m = New(Config{
		Searcher:   h.searcher,
		Debounce:   time.Millisecond,
		Limit:      10,
		Width:      40,
		MaxVisible: 8,
		Pointer:    h.pointer,
		OnCommit: func(b domain.Book) tea.Cmd {
			h.committed = append(h.committed, b)
			return nil
		},
	})
	h.m.SetCursorMode(cursor.CursorStatic)
	h.m.HandleFocus()
	t.Cleanup(h.m.Close)
	return h
}

// run executes cmd and feeds the combobox's own messages back in until
// nothing is left. Any other message is collected in emitted.
func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case debounceMsg, searchResultMsg:
			queue = append(queue, h.m.Update(msg))
		default:
			h.emitted = append(h.emitted, msg)
		}
	}
}

// typeQuery sets the query and lets the debounce and search complete
func (h *harness) typeQuery(text string) {
	h.t.Helper()
	h.run(h.m.SetQuery(text))
}

func (h *harness) key(msg tea.KeyMsg) {
	h.t.Helper()
	h.run(h.m.Update(msg))
}

// expire waits out the debounce for cmd and returns the search command
// it dispatches, without running the search.
func (h *harness) expire(cmd tea.Cmd) tea.Cmd {
	h.t.Helper()
	if cmd == nil {
		h.t.Fatal("expected a debounce command")
	}
	msg := cmd()
	if _, ok := msg.(debounceMsg); !ok {
		h.t.Fatalf("expected debounceMsg, got %T", msg)
	}
	return h.m.Update(msg)
}
