package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const psqlSchema = `
CREATE TABLE IF NOT EXISTS coach_document
(
    user_id    VARCHAR PRIMARY KEY,
    document   JSONB                    NOT NULL,
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`

type PsqlStore struct {
	db *pgxpool.Pool
}

func NewPsqlStore(db *pgxpool.Pool) *PsqlStore {
	return &PsqlStore{
		db: db,
	}
}

// EnsureSchema creates the document table if missing.
func (s *PsqlStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, psqlSchema); err != nil {
		return fmt.Errorf("create coach_document table: %w", err)
	}
	return nil
}

func (s *PsqlStore) Get(ctx context.Context, userID string) (_ *coach.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.psql.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID))

	var raw []byte
	if err := s.db.QueryRow(
		ctx,
		`SELECT document FROM coach_document WHERE user_id = $1`,
		userID,
	).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, coach.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}

	return decode(raw)
}

func (s *PsqlStore) Put(ctx context.Context, userID string, doc *coach.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.psql.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user", userID))

	raw, err := encode(doc)
	if err != nil {
		return err
	}

	tag, err := s.db.Exec(
		ctx,
		`INSERT INTO coach_document (user_id, document, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		userID, raw,
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("upsert document: no rows affected")
	}
	return nil
}
