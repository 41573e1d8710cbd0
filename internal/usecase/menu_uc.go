package usecase

import (
	"context"
	"fmt"

	"telegram-file-relay/internal/domain/ports/adapter"
	"telegram-file-relay/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Callback data layout shared with the Telegram adapter's parser.
const (
	CBManagePrefix = "manage:"
	CBLinkPrefix   = "link:"
	CBDeletePrefix = "del:"
	CBBack         = "back"
)

const (
	listHeaderText = "📁 Click on a file name to manage it:"
	noFilesText    = "📭 You haven't uploaded any files yet."
)

// Compile-time check
var _ MenuUseCase = (*menuUC)(nil)

// MenuUseCase renders the file-management menu screens. Every view is a pure
// function of the store given (ownerID, fileID), so the currently displayed
// message plus the callback payload is the whole navigation state; no session
// table exists anywhere.
type MenuUseCase interface {
	ListView(ctx context.Context, ownerID int64) (adapter.View, error)
	ManageView(ctx context.Context, fileID string) (adapter.View, error)
	LinkView(fileID string) adapter.View
	Delete(ctx context.Context, ownerID int64, fileID string) (adapter.View, error)
	ShareLink(fileID string) string
}

type menuUC struct {
	files       FileUseCase
	botUsername string
	log         *zerolog.Logger
}

func NewMenuUseCase(files FileUseCase, botUsername string, logger *zerolog.Logger) *menuUC {
	return &menuUC{files: files, botUsername: botUsername, log: logger}
}

// ListView shows the owner's most recent files, one button per row. Zero
// records render as a plain text message without a keyboard.
func (u *menuUC) ListView(ctx context.Context, ownerID int64) (adapter.View, error) {
	defer logging.TraceDuration(u.log, "MenuUC.ListView")()

	recs, err := u.files.ListRecent(ctx, ownerID)
	if err != nil {
		return adapter.View{}, fmt.Errorf("list recent files: %w", err)
	}
	if len(recs) == 0 {
		return adapter.View{Text: noFilesText}, nil
	}
	rows := make([][]adapter.InlineButton, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []adapter.InlineButton{
			{Text: "📄 " + rec.DisplayName, Data: CBManagePrefix + rec.ID},
		})
	}
	return adapter.View{Text: listHeaderText, Rows: rows}, nil
}

// ManageView shows the chosen file with its two actions. A missing file
// returns domain.ErrNotFound so the caller can refuse the transition and
// leave the current screen alone (stale buttons after a delete).
func (u *menuUC) ManageView(ctx context.Context, fileID string) (adapter.View, error) {
	defer logging.TraceDuration(u.log, "MenuUC.ManageView")()

	rec, err := u.files.Resolve(ctx, fileID)
	if err != nil {
		return adapter.View{}, err
	}
	return adapter.View{
		Text: fmt.Sprintf("📄 File: %s\n\nWhat would you like to do?", rec.DisplayName),
		Rows: [][]adapter.InlineButton{
			{{Text: "🔗 File Link", Data: CBLinkPrefix + rec.ID}},
			{{Text: "🗑️ Delete File", Data: CBDeletePrefix + rec.ID}},
			{{Text: "⬅️ Back", Data: CBBack}},
		},
	}, nil
}

// LinkView is pure computation: the file's existence was established when the
// manage screen was entered, so no store read is needed here.
func (u *menuUC) LinkView(fileID string) adapter.View {
	return adapter.View{
		Text: fmt.Sprintf("🔗 Your Shareable Link:\n\n%s\n\nTap to copy the link above.", u.ShareLink(fileID)),
		Rows: [][]adapter.InlineButton{
			{{Text: "⬅️ Back", Data: CBManagePrefix + fileID}},
		},
	}
}

// Delete removes the file and re-renders the list as if freshly entered.
// This is the only navigation transition with a persistent side effect.
func (u *menuUC) Delete(ctx context.Context, ownerID int64, fileID string) (adapter.View, error) {
	defer logging.TraceDuration(u.log, "MenuUC.Delete")()

	if err := u.files.Delete(ctx, fileID); err != nil {
		return adapter.View{}, err
	}
	return u.ListView(ctx, ownerID)
}

func (u *menuUC) ShareLink(fileID string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", u.botUsername, fileID)
}
