package fetch

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ytget/captube/internal/download"
)

// Backend names accepted by New
const (
	BackendInnertube = "innertube"
	BackendKkdai     = "kkdai"
	BackendYtDlp     = "ytdlp"
)

// DefaultBackend is used when no backend is configured
const DefaultBackend = BackendInnertube

// DefaultHTTPTimeout bounds a single HTTP request made by a backend
const DefaultHTTPTimeout = 60 * time.Second

// Backends lists every backend name in display order
var Backends = []string{BackendInnertube, BackendKkdai, BackendYtDlp}

// Config selects and configures a backend
type Config struct {
	Backend     string
	HTTPTimeout time.Duration
	Logger      *log.Logger
}

// ParseBackend normalizes a backend name. Empty selects DefaultBackend.
func ParseBackend(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "":
		return DefaultBackend, nil
	case BackendInnertube, BackendKkdai, BackendYtDlp:
		return name, nil
	case "yt-dlp":
		return BackendYtDlp, nil
	}
	return "", fmt.Errorf("unknown backend %q (expected one of %s)", name, strings.Join(Backends, ", "))
}

// New builds the fetcher named by cfg.Backend
func New(cfg Config) (download.Fetcher, error) {
	backend, err := ParseBackend(cfg.Backend)
	if err != nil {
		return nil, err
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	httpClient := &http.Client{Timeout: timeout}

	switch backend {
	case BackendKkdai:
		return NewKkdai(httpClient, cfg.Logger), nil
	case BackendYtDlp:
		return NewYtDlp(cfg.Logger), nil
	default:
		return NewInnertube(httpClient, cfg.Logger), nil
	}
}
