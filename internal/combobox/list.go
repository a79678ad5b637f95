package combobox

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"shelf/internal/domain"
)

// Styles used by the combobox view
type Styles struct {
	Dropdown lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
}

// DefaultStyles returns the default dropdown styles
func DefaultStyles() Styles {
	return Styles{
		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")),
		Item:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).Bold(true),
	}
}

// suggestionList renders the dropdown rows inside a viewport so long
// result sets scroll instead of growing past maxVisible lines.
type suggestionList struct {
	vp         viewport.Model
	items      []domain.Book
	width      int
	maxVisible int
	styles     Styles
}

func newSuggestionList(width, maxVisible int, styles Styles) *suggestionList {
	if maxVisible < 1 {
		maxVisible = 1
	}
	return &suggestionList{
		vp:         viewport.New(width, 0),
		width:      width,
		maxVisible: maxVisible,
		styles:     styles,
	}
}

// SetItems replaces the rows and scrolls back to the top
func (l *suggestionList) SetItems(items []domain.Book) {
	l.items = items
	l.vp.Height = min(len(items), l.maxVisible)
	l.vp.SetContent(l.render(-1))
	l.vp.SetYOffset(0)
}

// Height is the number of visible rows
func (l *suggestionList) Height() int { return l.vp.Height }

// Offset is the index of the first visible row
func (l *suggestionList) Offset() int { return l.vp.YOffset }

// OuterSize is the rendered size including the border
func (l *suggestionList) OuterSize() (int, int) {
	frameW, frameH := l.styles.Dropdown.GetFrameSize()
	return l.width + frameW, l.vp.Height + frameH
}

// IndexAtRow maps a visible row (0 = first visible line) to an item index
func (l *suggestionList) IndexAtRow(row int) (int, bool) {
	if row < 0 || row >= l.vp.Height {
		return -1, false
	}
	i := l.vp.YOffset + row
	if i >= len(l.items) {
		return -1, false
	}
	return i, true
}

// Row returns the scroll handle for item i
func (l *suggestionList) Row(i int) (ScrollTarget, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return rowHandle{list: l, index: i}, true
}

// View renders the dropdown with the selected row highlighted
func (l *suggestionList) View(selected int) string {
	offset := l.vp.YOffset
	l.vp.SetContent(l.render(selected))
	l.vp.SetYOffset(offset)
	return l.styles.Dropdown.Render(l.vp.View())
}

func (l *suggestionList) scrollTo(i int, align Align) {
	top, height := l.vp.YOffset, l.vp.Height
	switch align {
	case AlignStart:
		top = i
	case AlignEnd:
		top = i - height + 1
	default:
		if i < top {
			top = i
		} else if i >= top+height {
			top = i - height + 1
		}
	}
	l.vp.SetYOffset(top)
}

func (l *suggestionList) render(selected int) string {
	lines := make([]string, len(l.items))
	for i, book := range l.items {
		lines[i] = l.renderRow(book, i == selected)
	}
	return strings.Join(lines, "\n")
}

func (l *suggestionList) renderRow(book domain.Book, selected bool) string {
	marker := "  "
	if selected {
		marker = "> "
	}

	title := book.Title
	if title == "" {
		title = "(untitled)"
	}
	var meta []string
	if authors := book.AuthorLine(); authors != "" {
		meta = append(meta, authors)
	}
	if year := book.Year(); year != "" {
		meta = append(meta, year)
	}

	text := marker + title
	if len(meta) > 0 {
		text += " · " + strings.Join(meta, ", ")
	}
	text = runewidth.FillRight(runewidth.Truncate(text, l.width, "…"), l.width)

	if selected {
		return l.styles.Selected.Render(text)
	}
	return l.styles.Item.Render(text)
}

// rowHandle is the scroll target for one rendered row. Terminal rows move
// in whole lines, so Smooth has no effect here.
type rowHandle struct {
	list  *suggestionList
	index int
}

func (h rowHandle) ScrollIntoView(opts ScrollOptions) {
	if h.index >= len(h.list.items) {
		return
	}
	h.list.scrollTo(h.index, opts.Align)
}
