package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// Progress snapshots are stored one JSON document per user; the version
// column backs the optimistic-concurrency check on writes.
const createUserProgress = `
CREATE TABLE IF NOT EXISTS user_progress (
	user_id TEXT PRIMARY KEY,
	snapshot TEXT NOT NULL,
	version BIGINT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Migrate applies the schema. Statements are idempotent so running it on an
// initialized database is harmless.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, createUserProgress); err != nil {
		return errors.Wrap(err, "create user_progress table")
	}
	return nil
}
