package store

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/fitcoach/internal/coach"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemStore
	gets   int
	putErr error
}

func (s *countingStore) Get(ctx context.Context, userID string) (*coach.Document, error) {
	s.gets++
	return s.MemStore.Get(ctx, userID)
}

func (s *countingStore) Put(ctx context.Context, userID string, doc *coach.Document) error {
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemStore.Put(ctx, userID, doc)
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{MemStore: NewMemStore()}
	s := NewCachedStore(backend, 1)

	_, err := s.Get(ctx, "user-1")
	assert.ErrorIs(t, err, coach.ErrDocumentNotFound)
	assert.Equal(t, 1, backend.gets)

	doc := testDocument()
	require.NoError(t, s.Put(ctx, "user-1", doc))

	for i := 0; i < 3; i++ {
		got, err := s.Get(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	}
	// served from cache after the write
	assert.Equal(t, 1, backend.gets)
	assert.Greater(t, s.HitRate(), 0.0)

	// a failed write drops the cached entry
	backend.putErr = errors.New("disk full")
	changed := doc.Clone()
	changed.Stats.TotalCheckIns = 42
	require.Error(t, s.Put(ctx, "user-1", changed))

	got, err := s.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.gets)
	assert.Equal(t, doc.Stats.TotalCheckIns, got.Stats.TotalCheckIns)
}
