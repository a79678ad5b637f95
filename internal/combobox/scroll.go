package combobox

// Align selects where a row lands when scrolled into view
type Align int

const (
	// AlignNearest moves the list the least needed to show the row
	AlignNearest Align = iota
	AlignStart
	AlignEnd
)

// ScrollOptions mirrors the usual scroll-into-view options
type ScrollOptions struct {
	Align  Align
	Smooth bool
}

// ScrollTarget is a rendered suggestion row that can bring itself into view
type ScrollTarget interface {
	ScrollIntoView(opts ScrollOptions)
}

// Locator finds the rendered row for an index. ok is false when no row
// exists, e.g. while the row set lags behind a shrunken list.
type Locator func(index int) (target ScrollTarget, ok bool)

// ScrollSynchronizer keeps the highlighted row visible
type ScrollSynchronizer struct {
	locate Locator
	last   int
}

// NewScrollSynchronizer creates a synchronizer over locate
func NewScrollSynchronizer(locate Locator) *ScrollSynchronizer {
	return &ScrollSynchronizer{locate: locate, last: -1}
}

// Reset forgets the last synced index; call it when the list is replaced
func (s *ScrollSynchronizer) Reset() {
	s.last = -1
}

// Sync scrolls the row at index into view if the index changed since the
// last call. It reports whether a scroll was requested.
func (s *ScrollSynchronizer) Sync(open bool, index int) bool {
	if !open || index < 0 {
		s.last = -1
		return false
	}
	if index == s.last || s.locate == nil {
		return false
	}
	target, ok := s.locate(index)
	if !ok || target == nil {
		return false
	}
	target.ScrollIntoView(ScrollOptions{Align: AlignNearest, Smooth: true})
	s.last = index
	return true
}
