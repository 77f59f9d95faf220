package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

const (
	// ytdlpOutputTemplate names files inside the private work directory
	ytdlpOutputTemplate = "%(title)s.%(ext)s"

	// ytdlpWorkPattern is the os.MkdirTemp pattern for a yt-dlp run
	ytdlpWorkPattern = ".captube-ytdlp-*"

	ytdlpProgressInterval = 500 * time.Millisecond
)

// ytdlpSelectors is the fixed yt-dlp format selector per mode
var ytdlpSelectors = map[model.Mode]string{
	model.ModeVideo:        "best[ext=mp4]/best",
	model.ModeAudioOnly:    "bestaudio[ext=m4a]/bestaudio",
	model.ModeVideoNoAudio: "bestvideo[ext=mp4]/bestvideo",
}

// ytdlpIncomplete are suffixes of files yt-dlp leaves while still working
var ytdlpIncomplete = []string{".part", ".ytdl", ".temp", ".tmp"}

// ytdlpRunFunc runs yt-dlp once. It exists so tests can replace the binary.
type ytdlpRunFunc func(ctx context.Context, url, selector, output string, onProgress func(ytdlp.ProgressUpdate)) (*ytdlp.Result, error)

// runYtDlp drives the yt-dlp binary found on PATH
func runYtDlp(ctx context.Context, url, selector, output string, onProgress func(ytdlp.ProgressUpdate)) (*ytdlp.Result, error) {
	dl := ytdlp.New().
		NoPlaylist().
		Format(selector).
		Output(output)
	dl.ProgressFunc(ytdlpProgressInterval, onProgress)
	return dl.Run(ctx, url)
}

// YtDlp fetches media by running the external yt-dlp program through
// github.com/lrstanley/go-ytdlp. yt-dlp names its own output, so every run
// happens in a private work directory and the result is moved to a reserved
// name afterwards.
type YtDlp struct {
	run    ytdlpRunFunc
	logger *log.Logger
}

// NewYtDlp creates the yt-dlp backend
func NewYtDlp(logger *log.Logger) *YtDlp {
	if logger == nil {
		logger = log.Default()
	}
	return &YtDlp{run: runYtDlp, logger: logger}
}

// Fetch implements download.Fetcher
func (f *YtDlp) Fetch(ctx context.Context, req download.FetchRequest) (string, error) {
	selector, ok := ytdlpSelectors[req.Mode]
	if !ok {
		return "", model.NewFetchError(model.ErrorUnsupportedFormat, fmt.Errorf("no yt-dlp selector for mode %q", req.Mode))
	}

	work, err := os.MkdirTemp(req.Dir, ytdlpWorkPattern)
	if err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, fmt.Errorf("create work directory: %w", err))
	}
	defer func() {
		if err := os.RemoveAll(work); err != nil {
			f.logger.Printf("yt-dlp: failed to remove %s: %v", work, err)
		}
	}()

	f.logger.Printf("yt-dlp: %s with selector %q", req.Mode, selector)
	result, err := f.run(ctx, req.URL, selector, filepath.Join(work, ytdlpOutputTemplate), func(update ytdlp.ProgressUpdate) {
		progress := model.Progress{
			Stage:      model.StageDownload,
			Downloaded: int64(update.DownloadedBytes),
			Total:      int64(update.TotalBytes),
		}
		if update.TotalBytes > 0 {
			progress.Percent = float64(update.DownloadedBytes) / float64(update.TotalBytes) * 100
		}
		req.Report(progress)
	})
	if err != nil {
		return "", mapYtDlpError(result, err)
	}

	produced, err := findProducedFile(work)
	if err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}

	ext := filepath.Ext(produced)
	title := strings.TrimSuffix(filepath.Base(produced), ext)
	reservation, err := Reserve(req.Dir, title, ext)
	if err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}
	if err := reservation.Commit(produced); err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}
	return reservation.Path(), nil
}

// findProducedFile returns the largest finished file yt-dlp left in dir
func findProducedFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read work directory: %w", err)
	}

	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isIncomplete(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", errors.New("yt-dlp finished without producing a file")
	}
	return best, nil
}

func isIncomplete(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range ytdlpIncomplete {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// mapYtDlpError classifies a failed run from yt-dlp's stderr
func mapYtDlpError(result *ytdlp.Result, err error) error {
	if alreadyClassified(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return model.NewFetchError(model.ErrorNetwork, err)
	}

	var stderr string
	if result != nil {
		stderr = result.Stderr
	}
	if kind := classifyMessage(stderr); kind != model.ErrorUnknown {
		return model.NewFetchError(kind, fmt.Errorf("%w: %s", err, lastLine(stderr)))
	}
	if errors.Is(err, os.ErrNotExist) || strings.Contains(err.Error(), "executable file not found") {
		return model.NewFetchError(model.ErrorUnknown, fmt.Errorf("yt-dlp is not installed: %w", err))
	}
	return classifyFallback(err)
}

// lastLine returns the last non-empty line of s
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
