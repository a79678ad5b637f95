// Package catalog is the local, offline book catalog. It stores books in
// SQLite and answers the same searches as the remote volumes endpoint.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"shelf/internal/domain"
)

// ErrNotFound is returned when a book id is not in the catalog
var ErrNotFound = errors.New("book not found")

// authors are stored newline separated so LIKE can match any of them
const authorSep = "\n"

// Store is a SQLite-backed book catalog
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the catalog database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initializeDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize catalog: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or replaces books
func (s *Store) Put(ctx context.Context, books ...domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, authors, published_date, search_key) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			published_date = excluded.published_date,
			search_key = excluded.search_key`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range books {
		if b.ID == "" {
			return fmt.Errorf("book %q has no id", b.Title)
		}
		authors := strings.Join(b.Authors, authorSep)
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, authors, b.PublishedDate, searchKey(b.Title, authors)); err != nil {
			return fmt.Errorf("failed to store book %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Get returns the book with id
func (s *Store) Get(ctx context.Context, id string) (domain.Book, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, title, authors, published_date FROM books WHERE id = ?", id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return domain.Book{}, fmt.Errorf("failed to load book %s: %w", id, err)
	}
	return b, nil
}

// Delete removes the book with id
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM books WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete book %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// List returns every book ordered by title
func (s *Store) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, authors, published_date FROM books ORDER BY title COLLATE NOCASE, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return collect(rows)
}

// Count returns the number of books in the catalog
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return n, nil
}

// Search returns up to limit books whose title or an author contains query
// (case-insensitive). Title prefix matches come first, then the closest
// titles by edit distance.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.Book, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, authors, published_date FROM books
		WHERE search_key LIKE ? ESCAPE '\'`,
		pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog: %w", err)
	}
	books, err := collect(rows)
	if err != nil {
		return nil, err
	}

	rank(books, query)
	if limit > 0 && len(books) > limit {
		books = books[:limit]
	}
	log.Printf("catalog: %q matched %d books", query, len(books))
	return books, nil
}

// rank orders books for query (already lower-cased)
func rank(books []domain.Book, query string) {
	type scored struct {
		prefix bool
		dist   int
		title  string
	}
	scores := make(map[string]scored, len(books))
	for _, b := range books {
		title := strings.ToLower(b.Title)
		scores[b.ID] = scored{
			prefix: strings.HasPrefix(title, query),
			dist:   levenshtein.ComputeDistance(query, title),
			title:  title,
		}
	}
	sort.SliceStable(books, func(i, j int) bool {
		a, b := scores[books[i].ID], scores[books[j].ID]
		if a.prefix != b.prefix {
			return a.prefix
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.title < b.title
	})
}

// searchKey folds title and authors for substring search
func searchKey(title, authors string) string {
	return strings.ToLower(title + authorSep + authors)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(row scanner) (domain.Book, error) {
	var b domain.Book
	var authors string
	if err := row.Scan(&b.ID, &b.Title, &authors, &b.PublishedDate); err != nil {
		return domain.Book{}, err
	}
	if authors != "" {
		b.Authors = strings.Split(authors, authorSep)
	}
	return b, nil
}

func collect(rows *sql.Rows) ([]domain.Book, error) {
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read books: %w", err)
	}
	return books, nil
}
