package config

import (
	"time"

	"fyne.io/fyne/v2"

	"github.com/ytget/captube/internal/fetch"
	"github.com/ytget/captube/internal/transcode"
)

// Settings keys for Fyne preferences
const (
	KeyBackend            = "fetch_backend"
	KeyAudioFormat        = "audio_format"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyHTTPTimeoutSeconds = "http_timeout_seconds"
)

// Default values
const (
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = true
	MinHTTPTimeoutSeconds     = 5
	MaxHTTPTimeoutSeconds     = 600
)

// Settings manages persisted application configuration.
// The destination folder is not stored; it lives only for the session.
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetBackend returns the configured media-fetch backend
func (s *Settings) GetBackend() string {
	backend, err := fetch.ParseBackend(s.app.Preferences().String(KeyBackend))
	if err != nil {
		s.SetBackend(fetch.DefaultBackend)
		return fetch.DefaultBackend
	}
	return backend
}

// SetBackend sets the media-fetch backend; unknown names are ignored
func (s *Settings) SetBackend(backend string) {
	if parsed, err := fetch.ParseBackend(backend); err == nil {
		s.app.Preferences().SetString(KeyBackend, parsed)
	}
}

// GetAudioFormat returns the output format for audio-only downloads
func (s *Settings) GetAudioFormat() string {
	format, err := transcode.ParseFormat(s.app.Preferences().String(KeyAudioFormat))
	if err != nil {
		s.SetAudioFormat(transcode.FormatOriginal)
		return transcode.FormatOriginal
	}
	return format
}

// SetAudioFormat sets the audio output format; unknown names are ignored
func (s *Settings) SetAudioFormat(format string) {
	if parsed, err := transcode.ParseFormat(format); err == nil {
		s.app.Preferences().SetString(KeyAudioFormat, parsed)
	}
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to open the folder after a successful download
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to open the folder after a successful download
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetHTTPTimeout returns the per-request HTTP timeout
func (s *Settings) GetHTTPTimeout() time.Duration {
	seconds := s.app.Preferences().Int(KeyHTTPTimeoutSeconds)
	if seconds <= 0 {
		return fetch.DefaultHTTPTimeout
	}
	return time.Duration(seconds) * time.Second
}

// SetHTTPTimeout sets the per-request HTTP timeout, clamped to a sane range
func (s *Settings) SetHTTPTimeout(timeout time.Duration) {
	seconds := int(timeout / time.Second)
	if seconds < MinHTTPTimeoutSeconds {
		seconds = MinHTTPTimeoutSeconds
	}
	if seconds > MaxHTTPTimeoutSeconds {
		seconds = MaxHTTPTimeoutSeconds
	}
	s.app.Preferences().SetInt(KeyHTTPTimeoutSeconds, seconds)
}

// Options returns the persisted settings as Options for the given session destination
func (s *Settings) Options(destination string) Options {
	return Options{
		Backend:     s.GetBackend(),
		AudioFormat: s.GetAudioFormat(),
		Destination: destination,
		HTTPTimeout: s.GetHTTPTimeout(),
		OpenFolder:  s.GetAutoRevealOnComplete(),
	}
}

// GetBackendOptions returns available backends
func (s *Settings) GetBackendOptions() []string {
	return fetch.Backends
}

// GetAudioFormatOptions returns available audio formats
func (s *Settings) GetAudioFormatOptions() []string {
	return transcode.Formats
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
