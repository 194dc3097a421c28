package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

const redisDocumentKeyPrefix = "fitcoach-document||"

type RedisStore struct {
	redisClient *redis.Client
	// 0 means documents never expire
	ttl time.Duration
}

func NewRedisStore(redisClient *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (_ *coach.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.redis.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := s.redisClient.Get(ctx, redisDocumentKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, coach.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("redis get document: %w", err)
	}

	return decode(raw)
}

func (s *RedisStore) Put(ctx context.Context, userID string, doc *coach.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.redis.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := encode(doc)
	if err != nil {
		return err
	}

	if err := s.redisClient.Set(ctx, redisDocumentKey(userID), string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set document: %w", err)
	}
	return nil
}

func redisDocumentKey(userID string) string {
	return redisDocumentKeyPrefix + userID
}
