package store

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/fitcoach/internal/coach"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Get(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	defer db.Close()
	s := NewRedisStore(db, 0)

	mock.ExpectGet("fitcoach-document||unknown").RedisNil()
	doc, err := s.Get(ctx, "unknown")
	assert.ErrorIs(t, err, coach.ErrDocumentNotFound)
	assert.Nil(t, doc)

	want := testDocument()
	raw, err := encode(want)
	require.NoError(t, err)
	mock.ExpectGet("fitcoach-document||user-1").SetVal(string(raw))
	doc, err = s.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, want, doc)

	mock.ExpectGet("fitcoach-document||user-2").SetErr(errors.New("connection refused"))
	doc, err = s.Get(ctx, "user-2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, coach.ErrDocumentNotFound)
	assert.Nil(t, doc)

	mock.ExpectGet("fitcoach-document||user-3").SetVal("{not json")
	_, err = s.Get(ctx, "user-3")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Put(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	defer db.Close()
	s := NewRedisStore(db, 0)

	doc := testDocument()
	raw, err := encode(doc)
	require.NoError(t, err)

	mock.ExpectSet("fitcoach-document||user-1", string(raw), 0).SetVal("OK")
	require.NoError(t, s.Put(ctx, "user-1", doc))

	mock.ExpectSet("fitcoach-document||user-1", string(raw), 0).SetErr(errors.New("READONLY"))
	assert.Error(t, s.Put(ctx, "user-1", doc))

	assert.NoError(t, mock.ExpectationsWereMet())
}
