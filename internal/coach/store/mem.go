package store

import (
	"context"
	"sync"

	"github.com/2beens/fitcoach/internal/coach"
)

// MemStore keeps encoded documents in memory, for tests and local development.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{
		docs: make(map[string][]byte),
	}
}

func (s *MemStore) Get(_ context.Context, userID string) (*coach.Document, error) {
	s.mu.RLock()
	raw, ok := s.docs[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, coach.ErrDocumentNotFound
	}
	return decode(raw)
}

func (s *MemStore) Put(_ context.Context, userID string, doc *coach.Document) error {
	raw, err := encode(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[userID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
