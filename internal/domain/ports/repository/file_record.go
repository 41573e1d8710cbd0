package repository

import (
	"context"

	"telegram-file-relay/internal/domain/model"
)

// -----------------------------
// File records
// -----------------------------

// FileRecordRepository is the durable store for uploaded file records.
//
// Insert must be atomic with respect to concurrent inserts of the same ID and
// return domain.ErrDuplicateIdentifier on collision so the caller can
// regenerate. DeleteByID is idempotent: deleting an absent ID is a no-op
// success, because the menu may race a double press of Delete.
type FileRecordRepository interface {
	Insert(ctx context.Context, rec *model.FileRecord) error
	FindByID(ctx context.Context, id string) (*model.FileRecord, error)
	ListByOwner(ctx context.Context, ownerID int64, limit int) ([]*model.FileRecord, error)
	DeleteByID(ctx context.Context, id string) error
	DistinctOwners(ctx context.Context) ([]int64, error)
}
