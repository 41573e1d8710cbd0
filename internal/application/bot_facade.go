package application

import (
	"context"
	"fmt"

	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/usecase"
)

// BotFacade composes usecases into high-level bot operations.
// Methods return ready-to-send strings so the Telegram adapter just forwards
// them to the chat.
type BotFacade struct {
	FileUC      usecase.FileUseCase
	MenuUC      usecase.MenuUseCase
	BroadcastUC usecase.BroadcastUseCase
}

func NewBotFacade(
	fileUC usecase.FileUseCase,
	menuUC usecase.MenuUseCase,
	broadcastUC usecase.BroadcastUseCase,
) *BotFacade {
	return &BotFacade{
		FileUC:      fileUC,
		MenuUC:      menuUC,
		BroadcastUC: broadcastUC,
	}
}

// HandleWelcome builds the greeting shown on a bare /start.
func (b *BotFacade) HandleWelcome(firstName string) string {
	return fmt.Sprintf("Hello %s! 👋\nWelcome to File Relay Bot.", firstName)
}

// HandleUpload stores the file and returns the confirmation with its share link.
func (b *BotFacade) HandleUpload(ctx context.Context, ownerID int64, fileHandle string, kind model.FileKind, displayName string) (string, error) {
	rec, err := b.FileUC.Upload(ctx, ownerID, fileHandle, kind, displayName)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	return fmt.Sprintf("✅ Upload Complete!\n\n📄 %s\n🔗 %s", rec.DisplayName, b.MenuUC.ShareLink(rec.ID)), nil
}

// HandleDeepLink resolves a share identifier for the /start <id> path and
// returns the record together with the caption used when relaying it.
func (b *BotFacade) HandleDeepLink(ctx context.Context, id string) (*model.FileRecord, string, error) {
	rec, err := b.FileUC.Resolve(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return rec, "📄 " + rec.DisplayName, nil
}

// HandleBroadcast fans the message out to every uploader and reports the count.
func (b *BotFacade) HandleBroadcast(ctx context.Context, message string) (string, error) {
	n, err := b.BroadcastUC.BroadcastMessage(ctx, message)
	if err != nil {
		return "", fmt.Errorf("broadcast: %w", err)
	}
	return fmt.Sprintf("✅ Broadcast sent to %d users.", n), nil
}
