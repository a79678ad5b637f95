// Package pointer fans terminal mouse events out to whoever is listening.
//
// Terminals only report the mouse once asked to, so the hub also tracks
// whether anyone is subscribed and turns mouse reporting on for the first
// subscriber and off again after the last one leaves.
package pointer

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
)

// Hub is a process-wide pointer event source. It is used from inside the
// bubbletea Update loop only and is not safe for concurrent use.
type Hub struct {
	handlers map[int]func(tea.MouseMsg)
	nextID   int

	// reporting is what the terminal was last told
	reporting bool
}

// NewHub creates a hub with no subscribers
func NewHub() *Hub {
	return &Hub{handlers: make(map[int]func(tea.MouseMsg))}
}

// Subscribe registers handler for every mouse event until the returned
// function is called. Calling it more than once is harmless.
func (h *Hub) Subscribe(handler func(tea.MouseMsg)) func() {
	h.nextID++
	id := h.nextID
	h.handlers[id] = handler
	log.Printf("pointer: subscriber %d attached (%d active)", id, len(h.handlers))

	return func() {
		if _, ok := h.handlers[id]; !ok {
			return
		}
		delete(h.handlers, id)
		log.Printf("pointer: subscriber %d detached (%d active)", id, len(h.handlers))
	}
}

// Len returns the number of subscribers
func (h *Hub) Len() int { return len(h.handlers) }

// Active reports whether anyone is listening
func (h *Hub) Active() bool { return len(h.handlers) > 0 }

// Dispatch delivers msg to every subscriber. Handlers may unsubscribe
// themselves (or others) while being called.
func (h *Hub) Dispatch(msg tea.MouseMsg) {
	if len(h.handlers) == 0 {
		return
	}
	handlers := make([]func(tea.MouseMsg), 0, len(h.handlers))
	for _, handler := range h.handlers {
		handlers = append(handlers, handler)
	}
	for _, handler := range handlers {
		handler(msg)
	}
}

// Flush returns the command that brings terminal mouse reporting in line
// with the subscriber count, or nil if nothing changed since the last call.
func (h *Hub) Flush() tea.Cmd {
	want := h.Active()
	if want == h.reporting {
		return nil
	}
	h.reporting = want
	if want {
		return tea.EnableMouseCellMotion
	}
	return tea.DisableMouse
}
