package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("shelf"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderShelf())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.helpKeys())))

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderShelf() string {
	books := m.store.All()

	header := fmt.Sprintf("Shelf (%d)", len(books))
	var b strings.Builder
	b.WriteString(m.styles.Section.Render(header))
	b.WriteString("\n")

	if len(books) == 0 {
		b.WriteString(m.styles.Dim.Render("  nothing here yet - search and press enter to add a book"))
		b.WriteString("\n")
		return b.String()
	}

	width := m.config.UI.Width
	for i, book := range books {
		marker := "  "
		selected := m.focus == focusShelf && i == m.cursor
		if selected {
			marker = "> "
		}

		line := marker + book.Title
		if authors := book.AuthorLine(); authors != "" {
			line += " - " + authors
		}
		if year := book.Year(); year != "" {
			line += " (" + year + ")"
		}
		line = runewidth.Truncate(line, width, "…")

		if selected {
			line = m.styles.Highlight.Inherit(m.styles.HighlightBg).Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderStatus() string {
	if m.search.IsLoading() {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.spinner.View(), m.styles.StatusLoading.Render(" searching…"))
	}
	switch m.statusLevel {
	case statusError:
		return m.styles.StatusError.Render(m.status)
	case statusWarning:
		return m.styles.StatusWarning.Render(m.status)
	case statusSuccess:
		return m.styles.StatusSuccess.Render(m.status)
	default:
		return m.styles.StatusLoading.Render(m.status)
	}
}
