package downloader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/eyysave/savebot/pkg/domain"
	"github.com/eyysave/savebot/pkg/logger"
)

// Runner executes the extractor binary. Abstracted so tests can
// substitute a fake process.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return string(out), err
}

type Config struct {
	BinPath     string
	MaxFileSize int64
	Timeout     time.Duration
	TempRoot    string
}

type ytDlp struct {
	cfg    Config
	runner Runner
}

// Descending quality ladder. Each rung asks for the best mp4 at or below
// that height; rungs that render over the size ceiling fall through to
// the next one.
var qualityLadder = []int{1080, 720, 480, 360}

func NewYtDlp(cfg Config) *ytDlp {
	if cfg.BinPath == "" {
		cfg.BinPath = "yt-dlp"
	}
	return &ytDlp{cfg: cfg, runner: execRunner{}}
}

func NewYtDlpWithRunner(cfg Config, runner Runner) *ytDlp {
	d := NewYtDlp(cfg)
	d.runner = runner
	return d
}

// Download resolves the link to a local video file no larger than the
// configured ceiling. All extractor failures are absorbed here and
// reported through the result's Reason; nothing from the underlying
// process leaks to the caller.
func (d *ytDlp) Download(ctx context.Context, link domain.ClassifiedLink) domain.DownloadResult {
	dir, err := os.MkdirTemp(d.cfg.TempRoot, "savebot-")
	if err != nil {
		slog.ErrorContext(ctx, "creating temp dir", logger.Err(err))
		return domain.DownloadResult{Reason: domain.ReasonExtractorError, Cleanup: func() {}}
	}
	cleanup := func() {
		if err := os.RemoveAll(dir); err != nil {
			slog.Error("removing temp dir", "dir", dir, logger.Err(err))
		}
	}

	if d.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()
	}

	sawOverSize := false
	for _, height := range qualityLadder {
		slog.InfoContext(ctx, "invoking extractor", "url", link.URL, "platform", link.Platform.String(), "maxHeight", height)

		out, runErr := d.runner.Run(ctx, d.cfg.BinPath, d.args(link.URL, dir, height)...)
		if runErr != nil {
			reason := classifyOutput(out)
			if reason == domain.ReasonOverSize {
				sawOverSize = true
				removeParts(dir)
				continue
			}
			slog.WarnContext(ctx, "extractor failed", "reason", reason.String(), "output", truncate(out, 500), logger.Err(runErr))
			return domain.DownloadResult{Reason: reason, Cleanup: cleanup}
		}

		path, size, found := findVideo(dir)
		if !found {
			// yt-dlp exits zero but skips the download when the asset
			// exceeds --max-filesize, so no file means this rung was
			// too big.
			sawOverSize = true
			continue
		}

		if size > d.cfg.MaxFileSize {
			sawOverSize = true
			if err := os.Remove(path); err != nil {
				slog.Warn("removing oversized file", "path", path, logger.Err(err))
			}
			continue
		}

		slog.InfoContext(ctx, "extraction complete", "path", path, "sizeBytes", size, "maxHeight", height)
		return domain.DownloadResult{FilePath: path, SizeBytes: size, Cleanup: cleanup}
	}

	if sawOverSize {
		return domain.DownloadResult{Reason: domain.ReasonOverSize, Cleanup: cleanup}
	}
	return domain.DownloadResult{Reason: domain.ReasonExtractorError, Cleanup: cleanup}
}

func (d *ytDlp) args(url, dir string, maxHeight int) []string {
	format := fmt.Sprintf(
		"best[ext=mp4][vcodec^=avc1][height<=%d]/best[ext=mp4][height<=%d]/best[height<=%d]",
		maxHeight, maxHeight, maxHeight,
	)
	return []string{
		"--quiet",
		"--no-warnings",
		"--no-playlist",
		"--socket-timeout", "30",
		"--retries", "3",
		"--max-filesize", fmt.Sprintf("%d", d.cfg.MaxFileSize),
		"--merge-output-format", "mp4",
		"-f", format,
		"-o", filepath.Join(dir, "video.%(ext)s"),
		url,
	}
}

func classifyOutput(out string) domain.FailureReason {
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "larger than max-filesize"),
		strings.Contains(lower, "exceeds max-filesize"):
		return domain.ReasonOverSize
	case strings.Contains(lower, "unsupported url"),
		strings.Contains(lower, "is not a valid url"):
		return domain.ReasonInvalidLink
	case strings.Contains(lower, "private"),
		strings.Contains(lower, "login"),
		strings.Contains(lower, "rate-limit"),
		strings.Contains(lower, "unavailable"),
		strings.Contains(lower, "removed"):
		return domain.ReasonPrivateOrUnavailable
	default:
		return domain.ReasonExtractorError
	}
}

// findVideo locates the downloaded file inside dir. The output template
// pins the name to video.<ext>; partial downloads carry a .part suffix
// and are skipped.
func findVideo(dir string) (string, int64, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "video.*"))
	if err != nil {
		return "", 0, false
	}
	for _, m := range matches {
		if strings.HasSuffix(m, ".part") {
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		return m, info.Size(), true
	}
	return "", 0, false
}

func removeParts(dir string) {
	parts, _ := filepath.Glob(filepath.Join(dir, "*.part"))
	for _, p := range parts {
		if err := os.Remove(p); err != nil {
			slog.Warn("removing partial file", "path", p, logger.Err(err))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
