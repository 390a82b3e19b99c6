package workers

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/eyysave/savebot/pkg/logger"
)

type Handler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update)
}

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	SendText(ctx context.Context, chatID int64, replyToMessageID int, text string) (int, error)
}

type telegramUpdateListener struct {
	client        TelegramClient
	authenticator Authenticator
	handler       Handler
	wg            sync.WaitGroup
}

func NewTelegramUpdateListener(
	client TelegramClient,
	authenticator Authenticator,
	handler Handler,
) (*telegramUpdateListener, error) {
	return &telegramUpdateListener{
		client:        client,
		authenticator: authenticator,
		handler:       handler,
	}, nil
}

func (t *telegramUpdateListener) Name() string { return "telegram_update_listener" }

// Start consumes the long-poll update channel. Each update is handled
// on its own goroutine so a slow download never stalls other chats; a
// WaitGroup drains in-flight updates on shutdown.
func (t *telegramUpdateListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update := <-updates:
			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer t.wg.Done()
				t.processUpdate(ctx, &update)
			}(update)
		}
	}
}

func (t *telegramUpdateListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	ctx = logger.ContextWithRequestID(ctx, uuid.NewString())

	if update.Message == nil || update.Message.From == nil {
		slog.WarnContext(ctx, "Received unknown update type", "updateID", update.UpdateID)
		return
	}

	chatID, userID := update.Message.Chat.ID, update.Message.From.ID

	slog.InfoContext(ctx, "Processing update", "chatID", chatID, "userID", userID)

	if !t.authenticator.IsAuthorized(userID) {
		slog.WarnContext(ctx, "Unauthorized access attempt", "userID", userID)
		if _, err := t.client.SendText(ctx, chatID, update.Message.MessageID, "⛔ You are not allowed to use this bot."); err != nil {
			slog.ErrorContext(ctx, "sending unauthorized reply", logger.Err(err))
		}
		return
	}

	t.handler.HandleUpdate(ctx, update)
}
