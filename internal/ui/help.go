package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"shelf/internal/domain"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginTop(1)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	helpDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// HelpRenderer handles help content rendering
type HelpRenderer struct{}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{}
}

func writeKey(b *strings.Builder, keys, desc string) {
	fmt.Fprintf(b, "  %s  %s\n", helpKeyStyle.Render(fmt.Sprintf("%-12s", keys)), helpDescStyle.Render(desc))
}

// RenderHelpContent generates the help page shown in the pager
func (r *HelpRenderer) RenderHelpContent() string {
	var help strings.Builder

	help.WriteString(helpTitleStyle.Render("Shelf Help"))
	help.WriteString("\n")

	help.WriteString(helpSectionStyle.Render("Search"))
	help.WriteString("\n")
	writeKey(&help, "type", "Search for books (2+ characters)")
	writeKey(&help, "↑/↓", "Move through suggestions")
	writeKey(&help, "ctrl+p/n", "Move through suggestions")
	writeKey(&help, "Enter", "Add highlighted book to the shelf")
	writeKey(&help, "click", "Add clicked book to the shelf")
	writeKey(&help, "Esc", "Close suggestions, then go to the shelf")
	writeKey(&help, "Tab", "Go to the shelf")
	help.WriteString("\n")

	help.WriteString(helpSectionStyle.Render("Shelf"))
	help.WriteString("\n")
	writeKey(&help, "↑/↓, k/j", "Move up/down")
	writeKey(&help, "Enter, o", "Show book details")
	writeKey(&help, "d", "Remove book from the shelf")
	writeKey(&help, "/, Tab", "Back to search")
	help.WriteString("\n")

	help.WriteString(helpSectionStyle.Render("Other"))
	help.WriteString("\n")
	writeKey(&help, "?", "Show this help")
	writeKey(&help, "q", "Quit (from the shelf)")
	writeKey(&help, "ctrl+c", "Quit")

	return help.String()
}

// RenderBookDetails generates the details page for a book
func (r *HelpRenderer) RenderBookDetails(book domain.Book) string {
	var b strings.Builder

	title := book.Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(helpTitleStyle.Render(title))
	b.WriteString("\n")

	field := func(name, value string) {
		if value == "" {
			value = "unknown"
		}
		fmt.Fprintf(&b, "%s %s\n", helpKeyStyle.Render(fmt.Sprintf("%-10s", name)), helpDescStyle.Render(value))
	}
	field("Authors", book.AuthorLine())
	field("Published", book.PublishedDate)
	field("ID", book.ID)

	return b.String()
}

// ovCommand runs the ov pager as a tea.ExecCommand so bubbletea releases
// and restores the terminal around it. ov opens the tty itself, so the
// standard streams handed in by bubbletea are not used.
type ovCommand struct {
	content string
}

func (c *ovCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return err
	}
	root.SetConfig(oviewer.NewConfig())
	return root.Run()
}

func (c *ovCommand) SetStdin(io.Reader)  {}
func (c *ovCommand) SetStdout(io.Writer) {}
func (c *ovCommand) SetStderr(io.Writer) {}

// ovPager shows content in ov and reports back with pagerClosedMsg
func ovPager(what, content string) tea.Cmd {
	return tea.Exec(&ovCommand{content: content}, func(err error) tea.Msg {
		return pagerClosedMsg{what: what, err: err}
	})
}
