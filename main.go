package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/eyysave/savebot/pkg/auth"
	"github.com/eyysave/savebot/pkg/downloader"
	"github.com/eyysave/savebot/pkg/link"
	"github.com/eyysave/savebot/pkg/logger"
	"github.com/eyysave/savebot/pkg/services"
	"github.com/eyysave/savebot/pkg/telegram"
	"github.com/eyysave/savebot/pkg/workers"
)

type Config struct {
	TelegramBotToken       string        `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAllowedUserIDs []int64       `env:"TELEGRAM_ALLOWED_USER_IDS" envSeparator:" "`
	TelegramPollTimeout    int           `env:"TELEGRAM_POLL_TIMEOUT_SECONDS" envDefault:"60"`
	YtDlpPath              string        `env:"YT_DLP_PATH" envDefault:"yt-dlp"`
	MaxFileSizeBytes       int64         `env:"MAX_FILE_SIZE_BYTES" envDefault:"52428800"`
	DownloadTimeout        time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"5m"`
	TempDir                string        `env:"TEMP_DIR"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	var worker workers.Worker
	var workerGroup workers.Group

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramPollTimeout)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	authenticator := auth.NewAuthenticator(cfg.TelegramAllowedUserIDs)

	classifier := link.NewClassifier()

	ytDlp := downloader.NewYtDlp(downloader.Config{
		BinPath:     cfg.YtDlpPath,
		MaxFileSize: cfg.MaxFileSizeBytes,
		Timeout:     cfg.DownloadTimeout,
		TempRoot:    cfg.TempDir,
	})

	downloadService := services.NewDownloadService(classifier, ytDlp, telegramClient)

	handler := telegram.NewHandler(downloadService, telegramClient)

	if worker, err = workers.NewTelegramUpdateListener(
		telegramClient,
		authenticator,
		handler,
	); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	return workerGroup, nil
}
