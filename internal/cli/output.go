package cli

import (
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"shelf/internal/domain"
)

const titleWidth = 48

// renderBooks writes books as a borderless table
func renderBooks(w io.Writer, books []domain.Book) {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			runewidth.Truncate(b.Title, titleWidth, "…"),
			b.AuthorLine(),
			b.Year(),
			b.ID,
		})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"TITLE", "AUTHORS", "YEAR", "ID"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}
