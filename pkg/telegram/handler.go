package telegram

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/eyysave/savebot/pkg/domain"
	"github.com/eyysave/savebot/pkg/logger"
)

type DownloadService interface {
	ProcessMessage(ctx context.Context, chatID int64, messageID int, text string)
}

type Sender interface {
	SendText(ctx context.Context, chatID int64, replyToMessageID int, text string) (int, error)
}

type handler struct {
	downloadService DownloadService
	sender          Sender
}

func NewHandler(downloadService DownloadService, sender Sender) *handler {
	return &handler{
		downloadService: downloadService,
		sender:          sender,
	}
}

func (h *handler) HandleUpdate(ctx context.Context, update *tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		slog.WarnContext(ctx, "Received unknown update type", "updateID", update.UpdateID)
		return
	}

	if msg.Text == "" {
		slog.WarnContext(ctx, "Ignoring non-text message", "chatID", msg.Chat.ID)
		return
	}

	if isCommand(msg.Text) {
		h.handleCommand(ctx, msg.Chat.ID, msg.Text)
		return
	}

	h.downloadService.ProcessMessage(ctx, msg.Chat.ID, msg.MessageID, msg.Text)
}

func isCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

func (h *handler) handleCommand(ctx context.Context, chatID int64, text string) {
	cmd := strings.ToLower(strings.TrimSpace(text))
	cmd = strings.Split(cmd, "@")[0]
	cmd = strings.Fields(cmd)[0]

	switch cmd {
	case "/start":
		h.reply(ctx, chatID, domain.WelcomeMessage)

	case "/help":
		h.reply(ctx, chatID, domain.HelpMessage)

	default:
		slog.WarnContext(ctx, "Unhandled command", "cmd", cmd)
		h.reply(ctx, chatID, domain.UnknownCommandMessage)
	}
}

func (h *handler) reply(ctx context.Context, chatID int64, text string) {
	if _, err := h.sender.SendText(ctx, chatID, 0, text); err != nil {
		slog.ErrorContext(ctx, "sending command reply", "chatID", chatID, logger.Err(err))
	}
}
