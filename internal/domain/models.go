package domain

import "strings"

// Book is a single suggestion returned by a book-search source.
// Authors and PublishedDate are optional and may be empty.
type Book struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Authors       []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty" yaml:"published_date,omitempty"`
}

// AuthorLine joins the authors for display ("" when unknown)
func (b Book) AuthorLine() string {
	return strings.Join(b.Authors, ", ")
}

// Year returns the leading year of PublishedDate ("2006-01-02", "2006-01" or "2006").
// Dates that do not start with four digits are returned whole.
func (b Book) Year() string {
	d := b.PublishedDate
	if len(d) < 4 {
		return d
	}
	for i := 0; i < 4; i++ {
		if d[i] < '0' || d[i] > '9' {
			return d
		}
	}
	return d[:4]
}

// SearchSource names where suggestions come from
type SearchSource string

const (
	SourceGoogle SearchSource = "google"
	SourceLocal  SearchSource = "local"
)
