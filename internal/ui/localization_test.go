package ui

import (
	"testing"

	"github.com/ytget/captube/internal/model"
)

func TestLocalizationCompleteness(t *testing.T) {
	l := NewLocalization()

	for code := range l.GetAvailableLanguages() {
		texts, ok := l.texts[code]
		if !ok {
			t.Fatalf("language %s has no texts", code)
		}
		for key := range l.texts["en"] {
			if texts[key] == "" {
				t.Errorf("language %s is missing %s", code, key)
			}
		}
	}
}

func TestSetLanguage(t *testing.T) {
	l := NewLocalization()

	l.SetLanguage("ru")
	if got := l.GetCurrentLanguage(); got != "ru" {
		t.Fatalf("GetCurrentLanguage() = %s, want ru", got)
	}
	if got := l.GetText(KeyDownload); got != "Скачать" {
		t.Errorf("GetText(KeyDownload) = %q", got)
	}

	// Unknown languages are ignored
	l.SetLanguage("xx")
	if got := l.GetCurrentLanguage(); got != "ru" {
		t.Errorf("GetCurrentLanguage() = %s after unknown language, want ru", got)
	}
}

func TestGetTextFallback(t *testing.T) {
	l := NewLocalization()
	l.texts["en"]["only_en"] = "English only"
	l.SetLanguage("pt")

	if got := l.GetText("only_en"); got != "English only" {
		t.Errorf("GetText() = %q, want English fallback", got)
	}
	if got := l.GetText("missing_key"); got != "missing_key" {
		t.Errorf("GetText() = %q, want the key itself", got)
	}
}

func TestErrorTextPerKind(t *testing.T) {
	l := NewLocalization()

	kinds := []model.ErrorKind{
		model.ErrorInvalidInput,
		model.ErrorDestinationUnavailable,
		model.ErrorNetwork,
		model.ErrorContentUnavailable,
		model.ErrorUnsupportedFormat,
		model.ErrorUnknown,
	}
	seen := make(map[string]model.ErrorKind)
	for _, kind := range kinds {
		text := l.ErrorText(kind)
		if text == "" || text == string(kind) {
			t.Errorf("ErrorText(%s) = %q", kind, text)
		}
		if other, dup := seen[text]; dup {
			t.Errorf("ErrorText(%s) repeats the message of %s", kind, other)
		}
		seen[text] = kind
	}

	if got, want := l.ErrorText("Bogus"), l.ErrorText(model.ErrorUnknown); got != want {
		t.Errorf("ErrorText(unknown kind) = %q, want %q", got, want)
	}
}

func TestModeText(t *testing.T) {
	l := NewLocalization()

	tests := []struct {
		mode model.Mode
		want string
	}{
		{model.ModeVideo, "Video"},
		{model.ModeAudioOnly, "Audio only"},
		{model.ModeVideoNoAudio, "Video without audio"},
		{model.Mode("weird"), "weird"},
	}
	for _, tt := range tests {
		if got := l.ModeText(tt.mode); got != tt.want {
			t.Errorf("ModeText(%s) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	l := NewLocalization()
	if got := l.Format(KeyStatusSaved, "clip.mp4"); got != "Saved: clip.mp4" {
		t.Errorf("Format() = %q", got)
	}
}
