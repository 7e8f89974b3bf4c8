package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         uuid        PRIMARY KEY DEFAULT gen_random_uuid(),
		name       text        NOT NULL UNIQUE,
		age        integer     NOT NULL DEFAULT 0 CHECK (age >= 0),
		married    boolean     NOT NULL DEFAULT false,
		comment    text        NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         uuid        PRIMARY KEY DEFAULT gen_random_uuid(),
		commenter  uuid        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		comment    text        NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS comments_commenter_created_at_idx ON comments (commenter, created_at)`,
}

type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Migrate creates the tables if they do not exist yet. Safe to run repeatedly.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
