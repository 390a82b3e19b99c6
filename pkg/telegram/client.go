package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/eyysave/savebot/pkg/domain"
	"github.com/eyysave/savebot/pkg/logger"
)

type client struct {
	bot       *tgbotapi.BotAPI
	updatesCh tgbotapi.UpdatesChannel
}

func NewClient(token string, pollTimeoutSeconds int) (*client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("creating bot api instance: %w", err)
	}

	slog.Info("authorized on telegram", "account", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds

	return &client{
		bot:       bot,
		updatesCh: bot.GetUpdatesChan(u),
	}, nil
}

func (c *client) GetUpdates() tgbotapi.UpdatesChannel {
	return c.updatesCh
}

func (c *client) Username() string {
	return c.bot.Self.UserName
}

// SendText sends a plain text reply and returns the ID of the sent
// message so callers can edit or delete it later.
func (c *client) SendText(ctx context.Context, chatID int64, replyToMessageID int, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyToMessageID

	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("sending message: %w", err)
	}
	return sent.MessageID, nil
}

func (c *client) EditText(ctx context.Context, chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := c.bot.Send(edit); err != nil {
		return fmt.Errorf("editing message %d: %w", messageID, err)
	}
	return nil
}

func (c *client) DeleteMessage(ctx context.Context, chatID int64, messageID int) {
	if _, err := c.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		slog.WarnContext(ctx, "deleting message", "chatID", chatID, "messageID", messageID, logger.Err(err))
	}
}

// SendVideo uploads a local video file as a streaming-capable reply.
func (c *client) SendVideo(ctx context.Context, chatID int64, replyToMessageID int, video *domain.Video) error {
	msg := tgbotapi.NewVideo(chatID, tgbotapi.FilePath(video.FilePath))
	msg.ReplyToMessageID = replyToMessageID
	msg.Caption = video.Caption
	msg.SupportsStreaming = true

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("sending video: %w", err)
	}
	return nil
}

// StartUploading shows the "sending a video" chat action. Telegram
// clears the indicator on its own after a few seconds or once the video
// arrives.
func (c *client) StartUploading(ctx context.Context, chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadVideo)
	if _, err := c.bot.Request(action); err != nil {
		slog.WarnContext(ctx, "sending chat action", "chatID", chatID, logger.Err(err))
	}
}
