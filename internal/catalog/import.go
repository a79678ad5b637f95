package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"shelf/internal/domain"
)

// importFile is the YAML layout accepted by Import. A bare top-level list
// of books is accepted as well.
type importFile struct {
	Books []domain.Book `yaml:"books"`
}

// ParseImport decodes books from YAML. Books without an id get a random
// UUID; books without a title are rejected.
func ParseImport(r io.Reader) ([]domain.Book, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	var books []domain.Book
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&books); err != nil {
			return nil, fmt.Errorf("failed to decode books: %w", err)
		}
	case yaml.MappingNode:
		var f importFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode books: %w", err)
		}
		books = f.Books
	default:
		return nil, fmt.Errorf("catalog file must be a list of books or a mapping with a books key")
	}

	for i := range books {
		books[i].Title = strings.TrimSpace(books[i].Title)
		if books[i].Title == "" {
			return nil, fmt.Errorf("book %d has no title", i+1)
		}
		if books[i].ID == "" {
			books[i].ID = uuid.NewString()
		}
	}
	return books, nil
}

// Import reads books from YAML and stores them. It returns the number of
// books written.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	books, err := ParseImport(r)
	if err != nil {
		return 0, err
	}
	if len(books) == 0 {
		return 0, nil
	}
	if err := s.Put(ctx, books...); err != nil {
		return 0, err
	}
	return len(books), nil
}
