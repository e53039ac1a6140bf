// Package memory holds the state record in process memory. It backs tests
// and serves as the durable-store stand-in when no database path is
// configured; nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"kasirpos/internal/domain"
	"kasirpos/internal/store"
)

type Store struct {
	mu      sync.RWMutex
	state   *domain.AppState
	present bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load(_ context.Context) (*domain.AppState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.present {
		return nil, store.ErrNotFound
	}
	state := s.state.Clone()
	return &state, nil
}

func (s *Store) Save(_ context.Context, state domain.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := state.Clone()
	s.state = &clone
	s.present = true
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = nil
	s.present = false
	return nil
}

func (s *Store) Close() error { return nil }
