package model

import (
	"time"

	"telegram-file-relay/internal/domain"
)

// FileKind selects which Telegram send method is used when a shared
// file is relayed to a visitor.
type FileKind string

const (
	KindPhoto    FileKind = "photo"
	KindVideo    FileKind = "video"
	KindDocument FileKind = "document"
)

func ParseFileKind(s string) (FileKind, error) {
	switch FileKind(s) {
	case KindPhoto, KindVideo, KindDocument:
		return FileKind(s), nil
	default:
		return "", domain.ErrInvalidArgument
	}
}

func (k FileKind) String() string { return string(k) }

// FileRecord is a domain entity describing one uploaded file. The ID is the
// public share token embedded in deep links; FileHandle is Telegram's file_id
// and is opaque to us. Records never change after creation, they are only
// deleted.
type FileRecord struct {
	ID          string
	FileHandle  string
	Kind        FileKind
	DisplayName string
	OwnerID     int64
	CreatedAt   time.Time
}

// NewFileRecord builds a record for a fresh upload. Photos arrive without a
// filename, so an empty name falls back to a kind-specific default.
func NewFileRecord(id, fileHandle string, kind FileKind, displayName string, ownerID int64) (*FileRecord, error) {
	if id == "" || fileHandle == "" {
		return nil, domain.ErrInvalidArgument
	}
	if ownerID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := ParseFileKind(string(kind)); err != nil {
		return nil, err
	}
	if displayName == "" {
		displayName = defaultName(kind)
	}
	return &FileRecord{
		ID:          id,
		FileHandle:  fileHandle,
		Kind:        kind,
		DisplayName: displayName,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}, nil
}

func defaultName(kind FileKind) string {
	switch kind {
	case KindPhoto:
		return "photo.jpg"
	case KindVideo:
		return "video.mp4"
	default:
		return "file"
	}
}

func (f *FileRecord) IsZero() bool { return f == nil || f.ID == "" }
