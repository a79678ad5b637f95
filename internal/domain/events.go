package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventBookCommitted   EventType = "BookCommitted"
	EventBookRemoved     EventType = "BookRemoved"
	EventSearchCompleted EventType = "SearchCompleted"
	EventSearchFailed    EventType = "SearchFailed"
	EventCatalogImported EventType = "CatalogImported"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// BookCommittedEvent is emitted when a suggestion is committed to the shelf
type BookCommittedEvent struct {
	Book Book
	// ShelfSize is the number of books on the shelf after the commit
	ShelfSize int
}

func (e BookCommittedEvent) Type() EventType { return EventBookCommitted }

// BookRemovedEvent is emitted when a book is taken off the shelf
type BookRemovedEvent struct {
	ID        string
	ShelfSize int
}

func (e BookRemovedEvent) Type() EventType { return EventBookRemoved }

// SearchCompletedEvent is emitted when the latest search finished successfully
type SearchCompletedEvent struct {
	Query   string
	Results int
}

func (e SearchCompletedEvent) Type() EventType { return EventSearchCompleted }

// SearchFailedEvent is emitted when the latest search failed
type SearchFailedEvent struct {
	Query string
	Err   error
}

func (e SearchFailedEvent) Type() EventType { return EventSearchFailed }

// CatalogImportedEvent is emitted after books were loaded into the local catalog
type CatalogImportedEvent struct {
	Source string
	Count  int
}

func (e CatalogImportedEvent) Type() EventType { return EventCatalogImported }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path   string
	Source SearchSource
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
