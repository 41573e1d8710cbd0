package usecase

import (
	"context"
	"errors"
	"fmt"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/domain/ports/repository"
	"telegram-file-relay/internal/infra/logging"
	"telegram-file-relay/internal/infra/metrics"
	"telegram-file-relay/internal/shareid"

	"github.com/rs/zerolog"
)

// maxIDAttempts bounds identifier regeneration on collision. With 36^8
// possible tokens five attempts is plenty; running out means something is
// deeply wrong with the store, not the generator.
const maxIDAttempts = 5

// recentWindow is the menu size: only this many of the owner's newest files
// are listed. A product decision, not a storage limit.
const recentWindow = 10

// Compile-time check
var _ FileUseCase = (*fileUC)(nil)

// FileUseCase covers the upload, deep-link resolution, listing and deletion
// of file records.
type FileUseCase interface {
	Upload(ctx context.Context, ownerID int64, fileHandle string, kind model.FileKind, displayName string) (*model.FileRecord, error)
	Resolve(ctx context.Context, id string) (*model.FileRecord, error)
	ListRecent(ctx context.Context, ownerID int64) ([]*model.FileRecord, error)
	Delete(ctx context.Context, id string) error
}

type fileUC struct {
	files repository.FileRecordRepository
	log   *zerolog.Logger
}

func NewFileUseCase(files repository.FileRecordRepository, logger *zerolog.Logger) *fileUC {
	return &fileUC{files: files, log: logger}
}

// Upload stores a new record under a freshly generated share identifier.
// The generator has no uniqueness memory, so a duplicate insert is answered
// by regenerating; after maxIDAttempts collisions the upload fails with
// domain.ErrIdentifierSpaceExhausted.
func (u *fileUC) Upload(ctx context.Context, ownerID int64, fileHandle string, kind model.FileKind, displayName string) (*model.FileRecord, error) {
	defer logging.TraceDuration(u.log, "FileUC.Upload")()

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		rec, err := model.NewFileRecord(shareid.New(), fileHandle, kind, displayName, ownerID)
		if err != nil {
			return nil, err
		}
		err = u.files.Insert(ctx, rec)
		if err == nil {
			metrics.IncFileUploaded(rec.Kind.String())
			u.log.Info().Str("file_id", rec.ID).Int64("owner_id", ownerID).Str("kind", rec.Kind.String()).Msg("file stored")
			return rec, nil
		}
		if errors.Is(err, domain.ErrDuplicateIdentifier) {
			metrics.IncIDCollision()
			u.log.Warn().Str("file_id", rec.ID).Msg("share id collision, regenerating")
			continue
		}
		return nil, fmt.Errorf("insert file record: %w", err)
	}
	return nil, domain.ErrIdentifierSpaceExhausted
}

// Resolve is the stateless deep-link read path. It never touches menu state.
func (u *fileUC) Resolve(ctx context.Context, id string) (*model.FileRecord, error) {
	defer logging.TraceDuration(u.log, "FileUC.Resolve")()

	if !shareid.Valid(id) {
		metrics.IncLinkResolution("not_found")
		return nil, domain.ErrNotFound
	}
	rec, err := u.files.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncLinkResolution("not_found")
		}
		return nil, err
	}
	metrics.IncLinkResolution("found")
	return rec, nil
}

func (u *fileUC) ListRecent(ctx context.Context, ownerID int64) ([]*model.FileRecord, error) {
	defer logging.TraceDuration(u.log, "FileUC.ListRecent")()
	return u.files.ListByOwner(ctx, ownerID, recentWindow)
}

// Delete removes a record. Deleting an already-deleted id is a no-op success,
// so a double-pressed Delete button cannot surface an error.
func (u *fileUC) Delete(ctx context.Context, id string) error {
	defer logging.TraceDuration(u.log, "FileUC.Delete")()
	if err := u.files.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	metrics.IncFileDeleted()
	return nil
}
