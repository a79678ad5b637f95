// Package shelf holds the books committed during a session
package shelf

import (
	"sync"

	"shelf/internal/domain"
	"shelf/internal/eventbus"
)

// Store is the session shelf
type Store interface {
	Add(book domain.Book) bool
	Remove(id string) bool
	Get(id string) (domain.Book, bool)
	Contains(id string) bool
	All() []domain.Book
	Len() int
}

// MemoryStore is an in-memory, insertion-ordered Store
type MemoryStore struct {
	mu    sync.RWMutex
	bus   eventbus.EventBus
	order []string
	books map[string]domain.Book
}

// NewMemoryStore creates an empty shelf. bus may be nil.
func NewMemoryStore(bus eventbus.EventBus) *MemoryStore {
	return &MemoryStore{
		bus:   bus,
		books: make(map[string]domain.Book),
	}
}

// Add puts book on the shelf. It returns false if a book with the same id
// is already there.
func (s *MemoryStore) Add(book domain.Book) bool {
	s.mu.Lock()
	if _, ok := s.books[book.ID]; ok {
		s.mu.Unlock()
		return false
	}
	s.books[book.ID] = book
	s.order = append(s.order, book.ID)
	// published under the lock so events leave in the order the shelf changed
	s.publish(eventbus.BookCommittedEvent{Book: book, ShelfSize: len(s.order)})
	s.mu.Unlock()
	return true
}

// Remove takes the book with id off the shelf
func (s *MemoryStore) Remove(id string) bool {
	s.mu.Lock()
	if _, ok := s.books[id]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.books, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.publish(eventbus.BookRemovedEvent{ID: id, ShelfSize: len(s.order)})
	s.mu.Unlock()
	return true
}

// publish must not block; Publish drops rather than waits when the bus is full
func (s *MemoryStore) publish(event eventbus.DomainEvent) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

func (s *MemoryStore) Get(id string) (domain.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	return b, ok
}

func (s *MemoryStore) Contains(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// All returns the books in the order they were added
func (s *MemoryStore) All() []domain.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make([]domain.Book, len(s.order))
	for i, id := range s.order {
		result[i] = s.books[id]
	}
	return result
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
