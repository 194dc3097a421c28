package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/2beens/fitcoach/internal/coach"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"
	"github.com/2beens/fitcoach/pkg"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS coach_document (
    user_id    TEXT PRIMARY KEY,
    document   BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`

// SQLiteStore is the embedded single-node backend.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database file at path and makes sure the schema is there.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := pkg.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite [%s]: %w", path, err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID string) (_ *coach.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.sqlite.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var raw []byte
	if err := s.db.QueryRowContext(
		ctx,
		`SELECT document FROM coach_document WHERE user_id = ?`,
		userID,
	).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, coach.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}

	return decode(raw)
}

func (s *SQLiteStore) Put(ctx context.Context, userID string, doc *coach.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.coach.sqlite.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	raw, err := encode(doc)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO coach_document (user_id, document, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (user_id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		userID, raw,
	); err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
