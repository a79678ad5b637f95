package ui

import (
	"shelf/internal/domain"
	"shelf/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// bookCommittedMsg is sent by the search box when a suggestion is picked
type bookCommittedMsg struct {
	book domain.Book
}

// pagerClosedMsg contains the result of a pager command
type pagerClosedMsg struct {
	what string
	err  error
}
