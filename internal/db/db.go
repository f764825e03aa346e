// Package db provides PostgreSQL storage for candidate profiles.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS candidate_profiles (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	skills      TEXT[] NOT NULL DEFAULT '{}',
	experience  JSONB NOT NULL DEFAULT '{}'::jsonb,
	summary     TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
ALTER TABLE candidate_profiles ADD COLUMN IF NOT EXISTS summary TEXT NOT NULL DEFAULT '';
CREATE INDEX IF NOT EXISTS candidate_profiles_skills_idx ON candidate_profiles USING GIN (skills);
`

// EnsureSchema creates the profile table and its indexes if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
