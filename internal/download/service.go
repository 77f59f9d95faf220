package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/captube/internal/model"
	"github.com/ytget/captube/internal/platform"
)

// RequestIDPrefix prefixes every generated request ID
const RequestIDPrefix = "req-"

// Service orchestrates single download requests. It keeps no state between
// requests, so one Service may serve any number of callers.
type Service struct {
	fetcher    Fetcher
	defaultDir string
	logger     *log.Logger
}

// NewService creates a new download service. An empty defaultDir falls back
// to platform.DefaultDestination; a nil logger uses the standard logger.
func NewService(fetcher Fetcher, defaultDir string, logger *log.Logger) *Service {
	if defaultDir == "" {
		defaultDir = platform.DefaultDestination()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		fetcher:    fetcher,
		defaultDir: defaultDir,
		logger:     logger,
	}
}

// DefaultDir returns the directory used when a request names none
func (s *Service) DefaultDir() string {
	return s.defaultDir
}

// Execute runs one request to completion. It blocks on network and disk I/O
// and never panics; every outcome is reported in the returned result.
func (s *Service) Execute(ctx context.Context, req model.DownloadRequest) model.DownloadResult {
	return s.execute(ctx, req, nil)
}

// ExecuteAsync runs Execute on its own goroutine. onProgress may be nil;
// onDone is called exactly once with the result.
func (s *Service) ExecuteAsync(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc, onDone func(model.DownloadResult)) {
	go func() {
		result := s.execute(ctx, req, onProgress)
		if onDone != nil {
			onDone(result)
		}
	}()
}

func (s *Service) execute(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc) (result model.DownloadResult) {
	id := generateRequestID()
	started := time.Now()
	defer func() {
		result.RequestID = id
		result.StartedAt = started
		result.FinishedAt = time.Now()
		if result.OK() {
			s.logger.Printf("[REQ %s] completed in %s: %s", id, result.Duration().Round(time.Millisecond), result.OutputPath)
		} else {
			s.logger.Printf("[REQ %s] failed: %v", id, result.Err)
		}
	}()

	s.logger.Printf("[REQ %s] %s download of %s", id, req.Mode, req.SourceURL)

	sourceURL, err := validateRequest(req)
	if err != nil {
		return model.Failed(model.ErrorInvalidInput, err)
	}

	if strings.TrimSpace(req.DestinationDir) == "" {
		req = req.WithDestination(s.defaultDir)
	}
	dir := strings.TrimSpace(req.DestinationDir)
	if err := platform.EnsureWritableDir(dir); err != nil {
		return model.Failed(model.ErrorDestinationUnavailable, err)
	}

	if s.fetcher == nil {
		return model.Failed(model.ErrorUnknown, errors.New("no media fetcher configured"))
	}

	path, err := s.fetch(ctx, FetchRequest{
		URL:        sourceURL,
		Mode:       req.Mode,
		Dir:        dir,
		OnProgress: onProgress,
	})
	if err != nil {
		return model.Failed(Classify(err), err)
	}

	if err := verifyOutput(path, dir); err != nil {
		return model.Failed(model.ErrorUnknown, err)
	}
	return model.Succeeded(path)
}

// fetch calls the backend, turning a panic into an error
func (s *Service) fetch(ctx context.Context, req FetchRequest) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			path = ""
			err = fmt.Errorf("media fetcher panicked: %v", r)
		}
	}()
	return s.fetcher.Fetch(ctx, req)
}

// validateRequest checks the URL and mode without touching the filesystem
// and returns the normalized URL.
func validateRequest(req model.DownloadRequest) (string, error) {
	raw := strings.TrimSpace(req.SourceURL)
	if raw == "" {
		return "", errors.New("source URL is empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	case "":
		return "", fmt.Errorf("invalid URL %q: missing scheme", raw)
	default:
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL %q: missing host", raw)
	}

	if !req.Mode.Valid() {
		return "", fmt.Errorf("unsupported mode %q", req.Mode)
	}
	return parsed.String(), nil
}

// verifyOutput enforces that a reported file lies under dir and is non-empty.
// A rejected regular file is removed so a failed request leaves nothing behind.
func verifyOutput(path, dir string) error {
	if path == "" {
		return errors.New("media fetcher returned no output path")
	}
	if !platform.IsWithinDir(path, dir) {
		if info, err := os.Lstat(path); err == nil && info.Mode().IsRegular() {
			_ = os.Remove(path)
		}
		return fmt.Errorf("output %s is outside destination %s", path, dir)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output file missing: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("output %s is not a regular file", path)
	}
	if info.Size() == 0 {
		_ = os.Remove(path)
		return fmt.Errorf("output %s is empty", path)
	}
	return nil
}

// generateRequestID generates a unique, time ordered request ID
func generateRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf(RequestIDPrefix+"%d", time.Now().UnixNano())
	}
	return RequestIDPrefix + id.String()
}
