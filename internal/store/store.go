package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS loan_applications (
	id             UUID PRIMARY KEY,
	session_id     TEXT NOT NULL UNIQUE,
	mode           TEXT NOT NULL,
	status         TEXT NOT NULL,
	applicant_name TEXT NOT NULL,
	email          TEXT NOT NULL,
	loan_amount    BIGINT NOT NULL,
	term_months    INTEGER NOT NULL,
	document       JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS loan_application_turns (
	application_id  UUID NOT NULL REFERENCES loan_applications(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	sender          TEXT NOT NULL,
	message         TEXT NOT NULL,
	field_collected TEXT,
	sent_at         TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (application_id, seq)
);

CREATE INDEX IF NOT EXISTS loan_applications_created_at_idx ON loan_applications (created_at DESC);
`

// EnsureSchema creates the application tables when they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
