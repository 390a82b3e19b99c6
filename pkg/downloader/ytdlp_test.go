package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eyysave/savebot/pkg/domain"
)

const testMaxSize = 50 * 1024 * 1024

// fakeRunner scripts one outcome per ladder rung.
type fakeRunner struct {
	calls    int
	outcomes []outcome
}

type outcome struct {
	output    string
	err       error
	fileBytes int64 // when > 0, writes video.mp4 of that size into the temp dir
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	if f.calls >= len(f.outcomes) {
		return "", errors.New("unexpected extra invocation")
	}
	o := f.outcomes[f.calls]
	f.calls++

	if o.fileBytes > 0 {
		dir := outputDir(args)
		if err := os.WriteFile(filepath.Join(dir, "video.mp4"), make([]byte, o.fileBytes), 0600); err != nil {
			return "", err
		}
	}
	return o.output, o.err
}

// outputDir recovers the temp dir from the -o template argument.
func outputDir(args []string) string {
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return filepath.Dir(args[i+1])
		}
	}
	return ""
}

func newTestYtDlp(t *testing.T, runner Runner) *ytDlp {
	t.Helper()
	return NewYtDlpWithRunner(Config{
		BinPath:     "yt-dlp",
		MaxFileSize: testMaxSize,
		TempRoot:    t.TempDir(),
	}, runner)
}

func tiktokLink() domain.ClassifiedLink {
	return domain.ClassifiedLink{Platform: domain.PlatformTikTok, URL: "https://vm.tiktok.com/ZMabc123/"}
}

func TestDownloadSuccessFirstRung(t *testing.T) {
	runner := &fakeRunner{outcomes: []outcome{{fileBytes: 1024}}}
	d := newTestYtDlp(t, runner)

	result := d.Download(context.Background(), tiktokLink())
	defer result.Cleanup()

	if !result.OK() {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}
	if result.SizeBytes != 1024 {
		t.Errorf("size = %d, want 1024", result.SizeBytes)
	}
	if runner.calls != 1 {
		t.Errorf("runner calls = %d, want 1", runner.calls)
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		t.Errorf("downloaded file missing: %v", err)
	}
}

func TestDownloadLadderFallsThroughOversizedRungs(t *testing.T) {
	oversize := outcome{output: "ERROR: File is larger than max-filesize", err: errors.New("exit status 1")}
	runner := &fakeRunner{outcomes: []outcome{oversize, oversize, {fileBytes: 2048}}}
	d := newTestYtDlp(t, runner)

	result := d.Download(context.Background(), tiktokLink())
	defer result.Cleanup()

	if !result.OK() {
		t.Fatalf("expected success after fallback, got reason %s", result.Reason)
	}
	if runner.calls != 3 {
		t.Errorf("runner calls = %d, want 3", runner.calls)
	}
}

func TestDownloadEveryRungOversized(t *testing.T) {
	oversize := outcome{output: "ERROR: File is larger than max-filesize", err: errors.New("exit status 1")}
	runner := &fakeRunner{outcomes: []outcome{oversize, oversize, oversize, oversize}}
	d := newTestYtDlp(t, runner)

	result := d.Download(context.Background(), tiktokLink())
	result.Cleanup()

	if result.Reason != domain.ReasonOverSize {
		t.Errorf("reason = %s, want over_size", result.Reason)
	}
	if runner.calls != len(qualityLadder) {
		t.Errorf("runner calls = %d, want %d", runner.calls, len(qualityLadder))
	}
}

func TestDownloadSkippedFileCountsAsOversize(t *testing.T) {
	// --max-filesize makes yt-dlp exit zero without producing a file.
	skipped := outcome{}
	runner := &fakeRunner{outcomes: []outcome{skipped, skipped, skipped, skipped}}
	d := newTestYtDlp(t, runner)

	result := d.Download(context.Background(), tiktokLink())
	result.Cleanup()

	if result.Reason != domain.ReasonOverSize {
		t.Errorf("reason = %s, want over_size", result.Reason)
	}
}

func TestDownloadRejectsOversizedFileOnDisk(t *testing.T) {
	// Extractor reports success but the file on disk busts the ceiling;
	// the next rung produces a small one.
	runner := &fakeRunner{outcomes: []outcome{{fileBytes: testMaxSize + 1}, {fileBytes: 4096}}}
	d := newTestYtDlp(t, runner)

	result := d.Download(context.Background(), tiktokLink())
	defer result.Cleanup()

	if !result.OK() {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}
	if result.SizeBytes > testMaxSize {
		t.Errorf("success size %d exceeds ceiling %d", result.SizeBytes, testMaxSize)
	}
	if runner.calls != 2 {
		t.Errorf("runner calls = %d, want 2", runner.calls)
	}
}

func TestDownloadErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		output     string
		wantReason domain.FailureReason
	}{
		{"unsupported url", "ERROR: Unsupported URL: https://example.com/x", domain.ReasonInvalidLink},
		{"not a valid url", "ERROR: 'foo' is not a valid URL", domain.ReasonInvalidLink},
		{"private video", "ERROR: This video is private", domain.ReasonPrivateOrUnavailable},
		{"login required", "ERROR: [Instagram] Login required to access this content", domain.ReasonPrivateOrUnavailable},
		{"content unavailable", "ERROR: This content is unavailable", domain.ReasonPrivateOrUnavailable},
		{"anything else", "ERROR: Unable to extract video data", domain.ReasonExtractorError},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			runner := &fakeRunner{outcomes: []outcome{{output: test.output, err: errors.New("exit status 1")}}}
			d := newTestYtDlp(t, runner)

			result := d.Download(context.Background(), tiktokLink())
			result.Cleanup()

			if result.Reason != test.wantReason {
				t.Errorf("reason = %s, want %s", result.Reason, test.wantReason)
			}
			if runner.calls != 1 {
				t.Errorf("runner calls = %d, want 1 (hard failures should not retry the ladder)", runner.calls)
			}
		})
	}
}

func TestCleanupRemovesTempDir(t *testing.T) {
	runner := &fakeRunner{outcomes: []outcome{{fileBytes: 512}}}
	d := newTestYtDlp(t, runner)

	result := d.Download(context.Background(), tiktokLink())
	if !result.OK() {
		t.Fatalf("expected success, got reason %s", result.Reason)
	}

	dir := filepath.Dir(result.FilePath)
	result.Cleanup()

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("temp dir %s still exists after cleanup", dir)
	}
}

func TestCleanupAfterFailure(t *testing.T) {
	runner := &fakeRunner{outcomes: []outcome{{output: "ERROR: This video is private", err: errors.New("exit status 1")}}}
	cfg := Config{BinPath: "yt-dlp", MaxFileSize: testMaxSize, TempRoot: t.TempDir()}
	d := NewYtDlpWithRunner(cfg, runner)

	result := d.Download(context.Background(), tiktokLink())
	result.Cleanup()

	entries, err := os.ReadDir(cfg.TempRoot)
	if err != nil {
		t.Fatalf("reading temp root: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp root not empty after cleanup: %d entries left", len(entries))
	}
}
