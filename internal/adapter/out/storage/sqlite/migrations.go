package sqlite

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         TEXT     PRIMARY KEY,
		name       TEXT     NOT NULL UNIQUE,
		age        INTEGER  NOT NULL DEFAULT 0 CHECK (age >= 0),
		married    BOOLEAN  NOT NULL DEFAULT 0,
		comment    TEXT     NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id         TEXT     PRIMARY KEY,
		commenter  TEXT     NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		comment    TEXT     NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS comments_commenter_idx ON comments (commenter)`,
}

// Migrate runs all migrations in order.
func Migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
