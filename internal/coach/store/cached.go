package store

import (
	"context"
	"errors"

	"github.com/2beens/fitcoach/internal/coach"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const cachedDocumentTTLSeconds = 300

// CachedStore is a read-through document cache in front of another store.
// It only stays coherent while all writes for a user go through the same instance,
// so it must not be used with several service instances sharing a backend.
type CachedStore struct {
	next  coach.DocumentStore
	cache *freecache.Cache
}

func NewCachedStore(next coach.DocumentStore, sizeMB int) *CachedStore {
	// freecache enforces its own minimum of 512KB
	return &CachedStore{
		next:  next,
		cache: freecache.NewCache(sizeMB * 1024 * 1024),
	}
}

func (s *CachedStore) Get(ctx context.Context, userID string) (*coach.Document, error) {
	key := []byte(userID)
	if raw, err := s.cache.Get(key); err == nil {
		if doc, err := decode(raw); err == nil {
			return doc, nil
		}
		s.cache.Del(key)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("document cache get [%s]: %s", userID, err)
	}

	doc, err := s.next.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.set(key, doc)
	return doc, nil
}

func (s *CachedStore) Put(ctx context.Context, userID string, doc *coach.Document) error {
	key := []byte(userID)
	// drop first, a failed write must not leave a stale entry behind
	s.cache.Del(key)
	if err := s.next.Put(ctx, userID, doc); err != nil {
		return err
	}
	s.set(key, doc)
	return nil
}

func (s *CachedStore) set(key []byte, doc *coach.Document) {
	raw, err := encode(doc)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, raw, cachedDocumentTTLSeconds); err != nil {
		// freecache.ErrLargeEntry, the document is served from the backend then
		log.Debugf("document cache set [%s]: %s", key, err)
	}
}

func (s *CachedStore) HitRate() float64 {
	return s.cache.HitRate()
}
