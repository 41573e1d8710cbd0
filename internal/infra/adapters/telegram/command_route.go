package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-file-relay/internal/domain"
	"telegram-file-relay/internal/infra/logging"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,

		"broadcast": r.adminOnly(r.handleBroadcastCommand),
	}
}

// adminOnly silently drops the command for everyone but the configured admin,
// exactly like the public bot behaves: non-admins get no hint the command exists.
func (r *RealTelegramBotAdapter) adminOnly(next commandHandler) commandHandler {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		if !r.isAdmin(message.From.ID) {
			logging.With(ctx, r.log).Debug().Str("command", message.Command()).Msg("admin command from non-admin ignored")
			return nil
		}
		return next(ctx, message)
	}
}

// handleStartCommand covers both entry points: a bare /start greets the user
// with the reply keyboard, /start <id> is a deep link that relays the shared
// file.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	arg := strings.TrimSpace(message.CommandArguments())
	if arg != "" {
		return r.handleDeepLink(ctx, message.Chat.ID, arg)
	}

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(uploadButtonText),
			tgbotapi.NewKeyboardButton(myFilesButtonText),
		),
	)
	msg := tgbotapi.NewMessage(message.Chat.ID, r.facade.HandleWelcome(message.From.FirstName))
	msg.ReplyMarkup = keyboard
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealTelegramBotAdapter) handleDeepLink(ctx context.Context, chatID int64, id string) error {
	ctx = logging.WithFileID(ctx, id)

	rec, caption, err := r.facade.HandleDeepLink(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.SendMessage(ctx, chatID, "❌ File not found or expired.")
		}
		logging.With(ctx, r.log).Error().Err(err).Msg("deep link resolution failed")
		return r.SendMessage(ctx, chatID, "❌ Something went wrong. Please try the link again.")
	}
	return r.SendMedia(ctx, chatID, rec.Kind, rec.FileHandle, caption)
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	reply := "Send me a photo, video or document and I'll give you a shareable link.\n\n" +
		uploadButtonText + " - upload a new file\n" +
		myFilesButtonText + " - manage your uploads"
	return r.SendMessage(ctx, message.Chat.ID, reply)
}

// handleBroadcastCommand sends the given text to every user who has uploaded
// at least one file and reports how many sends succeeded.
func (r *RealTelegramBotAdapter) handleBroadcastCommand(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.CommandArguments())
	if text == "" {
		return r.SendMessage(ctx, message.Chat.ID, "❌ Usage: /broadcast [your message]")
	}

	report, err := r.facade.HandleBroadcast(ctx, text)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("broadcast failed")
		return r.SendMessage(ctx, message.Chat.ID, "❌ Broadcast failed.")
	}
	return r.SendMessage(ctx, message.Chat.ID, report)
}
