package memory

import (
	"context"
	"encoding/json"
	"sync"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
)

// Store keeps encoded game states so callers never share slices with it.
type Store struct {
	mu          sync.RWMutex
	states      map[string][]byte
	events      map[string][]city.DomainEvent
	credentials map[string]ports.GameCredentialRecord
}

func NewStore() *Store {
	return &Store{
		states:      make(map[string][]byte),
		events:      make(map[string][]city.DomainEvent),
		credentials: make(map[string]ports.GameCredentialRecord),
	}
}

func (s *Store) SeedState(state city.WorldState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.GameID] = raw
	return nil
}

type txKey struct{}

// read runs fn under the read lock unless ctx already holds the store's write lock.
func (s *Store) read(ctx context.Context, fn func()) {
	if ctx.Value(txKey{}) == s {
		fn()
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *Store) write(ctx context.Context, fn func()) {
	if ctx.Value(txKey{}) == s {
		fn()
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}
