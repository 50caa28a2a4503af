package transaction

import (
	"context"
	"sync"
)

// InMemoryStore keeps the default deployment lightweight and testable. It
// intentionally favors clarity over performance.
type InMemoryStore struct {
	mu    sync.RWMutex
	byID  map[string]*Transaction
	order []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]*Transaction)}
}

func (s *InMemoryStore) Save(_ context.Context, tx *Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[tx.ID]; !exists {
		s.order = append(s.order, tx.ID)
	}
	s.byID[tx.ID] = tx.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id string) (*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if tx, ok := s.byID[id]; ok {
		return tx.Clone(), nil
	}
	return nil, ErrNotFound
}

// List returns aggregates in insertion order.
func (s *InMemoryStore) List(_ context.Context) ([]*Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}
