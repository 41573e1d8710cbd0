package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-file-relay/internal/application"
	"telegram-file-relay/internal/config"
	"telegram-file-relay/internal/domain/model"
	"telegram-file-relay/internal/domain/ports/adapter"
	"telegram-file-relay/internal/infra/logging"
	"telegram-file-relay/internal/infra/metrics"
	red "telegram-file-relay/internal/infra/redis"
)

const (
	uploadButtonText  = "📤 Upload File"
	myFilesButtonText = "📂 My Files"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// RealTelegramBotAdapter polls Telegram updates and delegates to the facade.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	cfg         *config.BotConfig
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(cfg *config.BotConfig, facade *application.BotFacade, rateLimiter *red.RateLimiter, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					uctx := logging.WithTraceID(ctx, uuid.NewString())
					if err := r.handleUpdate(uctx, up); err != nil {
						logging.With(uctx, r.log).Warn().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) isAdmin(tgID int64) bool {
	return tgID == r.cfg.AdminID
}

// SendMessage implements the outbound port.
func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := r.bot.Send(msg)
	return err
}

// SendButtons sends a message with an inline keyboard.
func (r *RealTelegramBotAdapter) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = buildInlineKeyboard(rows)
	_, err := r.bot.Send(msg)
	return err
}

// EditMessage replaces text and keyboard of an existing message in place.
// Menu navigation only ever calls this, so the conversation never accumulates
// one message per screen.
func (r *RealTelegramBotAdapter) EditMessage(ctx context.Context, chatID int64, messageID int, view adapter.View) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	var edit tgbotapi.EditMessageTextConfig
	if view.Rows == nil {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, view.Text)
	} else {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, view.Text, buildInlineKeyboard(view.Rows))
	}
	_, err := r.bot.Send(edit)
	return err
}

// SendMedia relays a stored file back to a chat, choosing the send method
// by the record's kind.
func (r *RealTelegramBotAdapter) SendMedia(ctx context.Context, chatID int64, kind model.FileKind, fileHandle, caption string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	file := tgbotapi.FileID(fileHandle)
	var msg tgbotapi.Chattable
	switch kind {
	case model.KindPhoto:
		m := tgbotapi.NewPhoto(chatID, file)
		m.Caption = caption
		msg = m
	case model.KindVideo:
		m := tgbotapi.NewVideo(chatID, file)
		m.Caption = caption
		msg = m
	default:
		m := tgbotapi.NewDocument(chatID, file)
		m.Caption = caption
		msg = m
	}
	_, err := r.bot.Send(msg)
	return err
}

func buildInlineKeyboard(rows [][]adapter.InlineButton) tgbotapi.InlineKeyboardMarkup {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			var kb tgbotapi.InlineKeyboardButton
			switch {
			case btn.URL != "":
				kb = tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL)
			case btn.Data != "":
				kb = tgbotapi.NewInlineKeyboardButtonData(label, btn.Data)
			default:
				// safe fallback: use text as callback data
				kb = tgbotapi.NewInlineKeyboardButtonData(label, label)
			}
			kbRow = append(kbRow, kb)
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...)
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	// ----- Inline button callbacks -----
	if update.CallbackQuery != nil {
		return r.handleQuery(ctx, update.CallbackQuery)
	}

	// ----- Regular messages -----
	msg := update.Message
	if msg == nil || msg.From == nil {
		return nil
	}
	tgID := msg.From.ID
	ctx = logging.WithTgID(ctx, tgID)

	command := "message"
	if msg.IsCommand() {
		command = "/" + msg.Command()
	}
	metrics.IncTelegramCommand(command)

	// Basic rate limiting per user per command
	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(tgID, command), 20, time.Minute)
		if err != nil {
			logging.With(ctx, r.log).Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return r.SendMessage(ctx, msg.Chat.ID, "Rate limit exceeded. Please try again later.")
		}
	}

	if msg.IsCommand() {
		if handler, ok := r.commandRoutes()[msg.Command()]; ok {
			return handler(ctx, msg)
		}
		return r.SendMessage(ctx, msg.Chat.ID, "Unknown command. Try /help.")
	}

	switch msg.Text {
	case uploadButtonText:
		return r.SendMessage(ctx, msg.Chat.ID, "Please send the file (Photo, Video, or Document) you want to upload.")
	case myFilesButtonText:
		return r.sendFileList(ctx, msg.Chat.ID, tgID)
	}

	if msg.Document != nil || len(msg.Photo) > 0 || msg.Video != nil {
		return r.handleIncomingFile(ctx, msg)
	}
	return nil
}

// handleIncomingFile stores an uploaded photo/video/document and replies with
// the share link.
func (r *RealTelegramBotAdapter) handleIncomingFile(ctx context.Context, msg *tgbotapi.Message) error {
	var (
		kind        model.FileKind
		fileHandle  string
		displayName string
	)
	switch {
	case msg.Document != nil:
		kind, fileHandle, displayName = model.KindDocument, msg.Document.FileID, msg.Document.FileName
	case len(msg.Photo) > 0:
		// Telegram sends several resolutions; the last one is the original.
		kind, fileHandle = model.KindPhoto, msg.Photo[len(msg.Photo)-1].FileID
	case msg.Video != nil:
		kind, fileHandle, displayName = model.KindVideo, msg.Video.FileID, msg.Video.FileName
	default:
		return nil
	}

	reply, err := r.facade.HandleUpload(ctx, msg.From.ID, fileHandle, kind, displayName)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("upload failed")
		return r.SendMessage(ctx, msg.Chat.ID, "❌ Upload failed. Please try sending the file again.")
	}
	return r.SendMessage(ctx, msg.Chat.ID, reply)
}

// sendFileList renders the list view as a fresh menu message. Navigation from
// here on edits that message in place.
func (r *RealTelegramBotAdapter) sendFileList(ctx context.Context, chatID, ownerID int64) error {
	view, err := r.facade.MenuUC.ListView(ctx, ownerID)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("list view failed")
		return r.SendMessage(ctx, chatID, "❌ Could not load your files. Please try again.")
	}
	if view.Rows == nil {
		return r.SendMessage(ctx, chatID, view.Text)
	}
	return r.SendButtons(ctx, chatID, view.Text, view.Rows)
}
