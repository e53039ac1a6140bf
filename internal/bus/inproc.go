// Package bus replicates the committed state between sessions on the same
// device. Delivery is at-most-once and unordered: the last broadcast
// received wins, and a receiving session replaces its state wholesale. This
// is a deliberate trade-off for a single-operator kiosk, not a distributed
// protocol.
package bus

import (
	"context"
	"sync"

	"kasirpos/internal/domain"
)

// Hub fans broadcasts out between sessions living in one process. Tests use
// it to stand in for cross-tab replication.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	sessions map[int]*InProc
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[int]*InProc)}
}

// Join registers a new session endpoint on the hub.
func (h *Hub) Join() *InProc {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	s := &InProc{hub: h, id: h.nextID}
	h.sessions[s.id] = s
	return s
}

func (h *Hub) broadcast(from int, state domain.AppState) {
	h.mu.Lock()
	handlers := make([]func(domain.AppState), 0, len(h.sessions))
	for id, s := range h.sessions {
		if id == from || s.handler == nil {
			continue
		}
		handlers = append(handlers, s.handler)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(state.Clone())
	}
}

func (h *Hub) leave(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// InProc is one session's endpoint on a Hub. A session never hears its own
// broadcasts.
type InProc struct {
	hub     *Hub
	id      int
	handler func(domain.AppState)
}

func (s *InProc) Publish(_ context.Context, state domain.AppState) {
	s.hub.broadcast(s.id, state)
}

func (s *InProc) Subscribe(fn func(domain.AppState)) {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.handler = fn
}

func (s *InProc) Close() error {
	s.hub.leave(s.id)
	return nil
}
