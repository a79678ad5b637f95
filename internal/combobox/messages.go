package combobox

import (
	"sync/atomic"

	"shelf/internal/domain"
)

// Internal ID management. Used to keep messages from one combobox out of
// another when several live in the same program.
var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// debounceMsg is sent when a debounce timer expires
type debounceMsg struct {
	owner int
	id    int
	query string
}

// searchResultMsg carries the response of a dispatched search
type searchResultMsg struct {
	owner int
	seq   uint64
	query string
	items []domain.Book
	err   error
}

// SearchCompletedMsg is emitted when the latest search returned results
type SearchCompletedMsg struct {
	Query   string
	Results int
}

// SearchFailedMsg is emitted when the latest search failed. The suggestion
// list has already been emptied; the caller decides how to surface Err.
type SearchFailedMsg struct {
	Query string
	Err   error
}
