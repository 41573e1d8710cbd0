package adapter

import (
	"context"

	"telegram-file-relay/internal/domain/model"
)

type InlineButton struct {
	Text string
	Data string
	URL  string
}

// View is one rendered menu screen: the message text plus its inline keyboard.
// Rows == nil means the message carries no keyboard at all (not an empty one).
type View struct {
	Text string
	Rows [][]InlineButton
}

// TelegramBotAdapter is the outbound messaging port. EditMessage replaces the
// text and keyboard of an existing message in place; menu navigation only ever
// edits, it never sends a new message.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendButtons(ctx context.Context, chatID int64, text string, rows [][]InlineButton) error
	EditMessage(ctx context.Context, chatID int64, messageID int, view View) error
	SendMedia(ctx context.Context, chatID int64, kind model.FileKind, fileHandle, caption string) error
}
