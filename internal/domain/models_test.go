package domain

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestBookYear(t *testing.T) {
	cases := map[string]string{
		"1965-08-01": "1965",
		"1969-03":    "1969",
		"1976":       "1976",
		"":           "",
		"197":        "197",
		"c. 1950":    "c. 1950",
		"١٩٦٥-٠٨":    "١٩٦٥-٠٨",
		"Ωμέγα":      "Ωμέγα",
		"2001年":      "2001",
	}
	for date, want := range cases {
		t.Run(date, func(t *testing.T) {
			got := Book{PublishedDate: date}.Year()
			assert.Equal(t, want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestBookAuthorLine(t *testing.T) {
	assert.Equal(t, "", Book{}.AuthorLine())
	assert.Equal(t, "Neil Gaiman, Terry Pratchett", Book{Authors: []string{"Neil Gaiman", "Terry Pratchett"}}.AuthorLine())
}
