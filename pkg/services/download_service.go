package services

import (
	"context"
	"log/slog"

	"github.com/eyysave/savebot/pkg/domain"
	"github.com/eyysave/savebot/pkg/logger"
)

type Classifier interface {
	Classify(text string) domain.ClassifiedLink
}

type Downloader interface {
	Download(ctx context.Context, link domain.ClassifiedLink) domain.DownloadResult
}

type TelegramClient interface {
	Username() string
	SendText(ctx context.Context, chatID int64, replyToMessageID int, text string) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int)
	SendVideo(ctx context.Context, chatID int64, replyToMessageID int, video *domain.Video) error
	StartUploading(ctx context.Context, chatID int64)
}

type downloadService struct {
	classifier Classifier
	downloader Downloader
	client     TelegramClient
}

func NewDownloadService(
	classifier Classifier,
	downloader Downloader,
	client TelegramClient,
) *downloadService {
	return &downloadService{
		classifier: classifier,
		downloader: downloader,
		client:     client,
	}
}

// ProcessMessage handles one inbound text message end to end: classify,
// download, reply. Every failure is converted to a user-facing chat
// message here; nothing propagates past this boundary.
func (s *downloadService) ProcessMessage(ctx context.Context, chatID int64, messageID int, text string) {
	link := s.classifier.Classify(text)
	if link.Platform == domain.PlatformUnrecognized {
		slog.InfoContext(ctx, "No supported link in message", "chatID", chatID)
		if _, err := s.client.SendText(ctx, chatID, messageID, domain.InvalidLinkMessage); err != nil {
			slog.ErrorContext(ctx, "sending invalid link reply", logger.Err(err))
		}
		return
	}

	slog.InfoContext(ctx, "Processing video link", "chatID", chatID, "platform", link.Platform.String(), "url", link.URL)

	progressID, err := s.client.SendText(ctx, chatID, messageID, domain.ProcessingMessage)
	if err != nil {
		slog.ErrorContext(ctx, "sending progress message", logger.Err(err))
	}
	s.client.StartUploading(ctx, chatID)

	result := s.downloader.Download(ctx, link)
	defer result.Cleanup()

	if !result.OK() {
		slog.WarnContext(ctx, "Download failed", "reason", result.Reason.String(), "url", link.URL)
		s.report(ctx, chatID, messageID, progressID, domain.FailureMessage(result.Reason))
		return
	}

	video := &domain.Video{
		FilePath: result.FilePath,
		Caption:  domain.VideoCaption(link.Platform, s.client.Username()),
	}
	if err := s.client.SendVideo(ctx, chatID, messageID, video); err != nil {
		slog.ErrorContext(ctx, "sending video", "path", result.FilePath, logger.Err(err))
		s.report(ctx, chatID, messageID, progressID, domain.DeliveryFailedMessage)
		return
	}

	slog.InfoContext(ctx, "Video delivered", "chatID", chatID, "sizeBytes", result.SizeBytes)

	if progressID != 0 {
		s.client.DeleteMessage(ctx, chatID, progressID)
	}
}

// report surfaces a failure to the user, preferring to edit the progress
// message in place when one was sent.
func (s *downloadService) report(ctx context.Context, chatID int64, messageID, progressID int, text string) {
	if progressID != 0 {
		if err := s.client.EditText(ctx, chatID, progressID, text); err == nil {
			return
		}
	}
	if _, err := s.client.SendText(ctx, chatID, messageID, text); err != nil {
		slog.ErrorContext(ctx, "sending failure reply", logger.Err(err))
	}
}
