package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Migrate creates the files table when it does not exist yet. The schema is
// deliberately a single table: records are immutable after insert and the
// only mutation is deletion.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS files (
    id          TEXT PRIMARY KEY,
    file_handle TEXT NOT NULL,
    kind        TEXT NOT NULL,
    file_name   TEXT NOT NULL,
    owner_id    BIGINT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS files_owner_created_idx ON files (owner_id, created_at DESC);
`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate files table: %w", err)
	}
	return nil
}
