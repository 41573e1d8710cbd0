package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/domain/ports/adapter"
	"telegram-file-relay/internal/infra/logging"
	"telegram-file-relay/internal/infra/metrics"
	red "telegram-file-relay/internal/infra/redis"
	"telegram-file-relay/internal/shareid"
	"telegram-file-relay/internal/usecase"
)

// cbOp enumerates every navigation action a menu button can carry. Callback
// data is parsed into this form exactly once, at the dispatch boundary; the
// transition switch below is exhaustive over it.
type cbOp int

const (
	opManage cbOp = iota
	opLink
	opDelete
	opBack
)

func (o cbOp) String() string {
	switch o {
	case opManage:
		return "manage"
	case opLink:
		return "link"
	case opDelete:
		return "delete"
	case opBack:
		return "back"
	default:
		return "unknown"
	}
}

type callbackAction struct {
	op     cbOp
	fileID string
}

var errUnknownCallback = errors.New("unknown callback data")

// parseCallback turns raw button data into a tagged action. Anything that
// does not match the layout (including a malformed file id) is rejected here
// so the transition code never sees garbage.
func parseCallback(data string) (callbackAction, error) {
	data = strings.TrimSpace(data)
	if data == usecase.CBBack {
		return callbackAction{op: opBack}, nil
	}

	var op cbOp
	var id string
	switch {
	case strings.HasPrefix(data, usecase.CBManagePrefix):
		op, id = opManage, strings.TrimPrefix(data, usecase.CBManagePrefix)
	case strings.HasPrefix(data, usecase.CBLinkPrefix):
		op, id = opLink, strings.TrimPrefix(data, usecase.CBLinkPrefix)
	case strings.HasPrefix(data, usecase.CBDeletePrefix):
		op, id = opDelete, strings.TrimPrefix(data, usecase.CBDeletePrefix)
	default:
		return callbackAction{}, errUnknownCallback
	}
	if !shareid.Valid(id) {
		return callbackAction{}, errUnknownCallback
	}
	return callbackAction{op: op, fileID: id}, nil
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query == nil || query.From == nil {
		return errors.New("invalid callback query")
	}
	// Navigation always edits the message the button lives on; without it
	// there is nothing to do.
	if query.Message == nil || query.Message.Chat == nil {
		_, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, ""))
		return nil
	}

	ownerID := query.From.ID
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID
	ctx = logging.WithTgID(ctx, ownerID)

	// Stop the telegram spinner when we return. The delete transition
	// upgrades the acknowledgement to a toast.
	ackText := ""
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(query.ID, ackText)) }()

	if r.rateLimiter != nil {
		if allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(ownerID, "callback"), 30, time.Minute); err == nil && !allowed {
			metrics.IncRateLimitTriggered()
			return nil
		}
	}

	action, err := parseCallback(query.Data)
	if err != nil {
		logging.With(ctx, r.log).Debug().Str("data", query.Data).Msg("dropping unknown callback")
		return nil
	}
	metrics.IncTelegramCallback(action.op.String())
	if action.fileID != "" {
		ctx = logging.WithFileID(ctx, action.fileID)
	}

	var view adapter.View
	switch action.op {
	case opManage:
		view, err = r.facade.MenuUC.ManageView(ctx, action.fileID)
		if errors.Is(err, domain.ErrNotFound) {
			// Stale button referencing a deleted file: refuse the
			// transition and leave the list as it is.
			return nil
		}
	case opLink:
		view = r.facade.MenuUC.LinkView(action.fileID)
	case opDelete:
		view, err = r.facade.MenuUC.Delete(ctx, ownerID, action.fileID)
		if err == nil {
			ackText = "✅ File Deleted!"
		}
	case opBack:
		view, err = r.facade.MenuUC.ListView(ctx, ownerID)
	}
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Str("action", action.op.String()).Msg("navigation transition failed")
		return err
	}

	return r.EditMessage(ctx, chatID, messageID, view)
}
