package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/domain/ports/repository"
)

var _ repository.FileRecordRepository = (*PostgresFileRepo)(nil)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

type PostgresFileRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresFileRepo(pool *pgxpool.Pool) *PostgresFileRepo {
	return &PostgresFileRepo{pool: pool}
}

// Insert persists a new record. The primary key makes concurrent inserts of
// the same id race safely inside Postgres; the loser gets
// domain.ErrDuplicateIdentifier and regenerates.
func (r *PostgresFileRepo) Insert(ctx context.Context, rec *model.FileRecord) error {
	const q = `
INSERT INTO files (id, file_handle, kind, file_name, owner_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6);
`
	_, err := r.pool.Exec(ctx, q, rec.ID, rec.FileHandle, rec.Kind.String(), rec.DisplayName, rec.OwnerID, rec.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateIdentifier
		}
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *PostgresFileRepo) FindByID(ctx context.Context, id string) (*model.FileRecord, error) {
	const q = `
SELECT id, file_handle, kind, file_name, owner_id, created_at
  FROM files WHERE id=$1;
`
	row := r.pool.QueryRow(ctx, q, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find file by id: %w", err)
	}
	return rec, nil
}

func (r *PostgresFileRepo) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.FileRecord, error) {
	const q = `
SELECT id, file_handle, kind, file_name, owner_id, created_at
  FROM files WHERE owner_id=$1
 ORDER BY created_at DESC
 LIMIT $2;
`
	rows, err := r.pool.Query(ctx, q, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list files by owner: %w", err)
	}
	defer rows.Close()

	var out []*model.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteByID is idempotent: a missing row is a no-op success.
func (r *PostgresFileRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id=$1;`, id); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (r *PostgresFileRepo) DistinctOwners(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT owner_id FROM files;`)
	if err != nil {
		return nil, fmt.Errorf("distinct owners: %w", err)
	}
	defer rows.Close()

	var owners []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan owner id: %w", err)
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}

func scanRecord(row pgx.Row) (*model.FileRecord, error) {
	var rec model.FileRecord
	var kind string
	if err := row.Scan(&rec.ID, &rec.FileHandle, &kind, &rec.DisplayName, &rec.OwnerID, &rec.CreatedAt); err != nil {
		return nil, err
	}
	k, err := model.ParseFileKind(kind)
	if err != nil {
		return nil, fmt.Errorf("stored kind %q: %w", kind, err)
	}
	rec.Kind = k
	return &rec, nil
}
