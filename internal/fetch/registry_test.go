package fetch

import (
	"testing"
	"time"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"", DefaultBackend, false},
		{"innertube", BackendInnertube, false},
		{" KKDAI ", BackendKkdai, false},
		{"yt-dlp", BackendYtDlp, false},
		{"ytdlp", BackendYtDlp, false},
		{"ffmpeg", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBackend(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseBackend(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNew(t *testing.T) {
	innertube, err := New(Config{})
	if err != nil {
		t.Fatal(err)
	}
	it, ok := innertube.(*Innertube)
	if !ok {
		t.Fatalf("Expected *Innertube by default, got %T", innertube)
	}
	if lib := it.api.(ytdlpLibrary); lib.httpClient.Timeout != DefaultHTTPTimeout {
		t.Errorf("Expected default timeout, got %s", lib.httpClient.Timeout)
	}

	kkdai, err := New(Config{Backend: BackendKkdai, HTTPTimeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	kk, ok := kkdai.(*Kkdai)
	if !ok {
		t.Fatalf("Expected *Kkdai, got %T", kkdai)
	}
	if kk.logger == nil {
		t.Error("Expected a default logger")
	}

	if _, ok := mustNew(t, BackendYtDlp).(*YtDlp); !ok {
		t.Error("Expected *YtDlp")
	}

	if _, err := New(Config{Backend: "bogus"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}

func mustNew(t *testing.T, backend string) any {
	t.Helper()
	f, err := New(Config{Backend: backend, HTTPTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return f
}
