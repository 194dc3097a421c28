//go:build integration_test || all_tests

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	testingpkg "github.com/2beens/fitcoach/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_RealRedis(t *testing.T) {
	rdb := testingpkg.RedisClient(t)
	ctx := context.Background()

	s := NewRedisStore(rdb, time.Hour)

	_, err := s.Get(ctx, "user-1")
	assert.ErrorIs(t, err, coach.ErrDocumentNotFound)

	doc := testDocument()
	require.NoError(t, s.Put(ctx, "user-1", doc))

	got, err := s.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Stats, got.Stats)
	assert.Len(t, got.WorkoutHistory, len(doc.WorkoutHistory))

	ttl, err := rdb.TTL(ctx, redisDocumentKey("user-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

// two services sharing redis, as two instances would, must not lose updates
func TestService_SharedRedisLock(t *testing.T) {
	rdb := testingpkg.RedisClient(t)
	ctx := context.Background()

	docStore := NewRedisStore(rdb, time.Hour)
	instances := []*coach.Service{
		coach.NewService(docStore, coach.NewRedisLocker(rdb, 5*time.Second)),
		coach.NewService(docStore, coach.NewRedisLocker(rdb, 5*time.Second)),
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(s *coach.Service) {
			defer wg.Done()
			_, err := s.RecordCheckIn(ctx, "user-1", true, coach.EnergyMedium, "")
			assert.NoError(t, err)
		}(instances[i%2])
	}
	wg.Wait()

	stats, err := instances[0].GetStats(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 20, stats.TotalCheckIns)
}
