package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ytget/captube/internal/config"
	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/fetch"
	"github.com/ytget/captube/internal/model"
)

// fakeExecutor completes every request immediately with result
type fakeExecutor struct {
	result   model.DownloadResult
	requests []model.DownloadRequest
}

func (f *fakeExecutor) Execute(ctx context.Context, req model.DownloadRequest) model.DownloadResult {
	f.requests = append(f.requests, req)
	return f.result
}

func (f *fakeExecutor) ExecuteAsync(ctx context.Context, req model.DownloadRequest, onProgress download.ProgressFunc, onDone func(model.DownloadResult)) {
	f.requests = append(f.requests, req)
	go func() {
		if onProgress != nil {
			onProgress(model.Progress{Stage: model.StageDownload, Downloaded: 512, Total: 1024})
		}
		onDone(f.result)
	}()
}

type cliHarness struct {
	executor *fakeExecutor
	options  []config.Options
	opened   []string
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newCLIHarness(t *testing.T, result model.DownloadResult) *cliHarness {
	t.Helper()
	for _, key := range []string{config.EnvBackend, config.EnvAudioFormat, config.EnvDestination, config.EnvHTTPTimeout, config.EnvOpenFolder} {
		unsetForTest(t, key)
	}

	h := &cliHarness{executor: &fakeExecutor{result: result}}

	origService, origOpen := newService, openFolder
	t.Cleanup(func() {
		newService, openFolder = origService, origOpen
	})
	newService = func(opts config.Options, _ *log.Logger) (download.Executor, error) {
		h.options = append(h.options, opts)
		return h.executor, nil
	}
	openFolder = func(path string) error {
		h.opened = append(h.opened, path)
		return nil
	}
	return h
}

func (h *cliHarness) run(args ...string) int {
	return run(context.Background(), args, &h.stdout, &h.stderr, log.New(io.Discard, "", 0))
}

// unsetForTest clears key for the duration of the test
func unsetForTest(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
}

func TestRun_Success(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "Song.m4a")
	h := newCLIHarness(t, model.Succeeded(output))

	code := h.run("-m", "audio", "-d", dir, "https://youtu.be/dQw4w9WgXcQ")

	if code != exitOK {
		t.Fatalf("exit code = %d, want %d (stderr: %s)", code, exitOK, h.stderr.String())
	}
	if got := h.stdout.String(); got != output+"\n" {
		t.Errorf("stdout = %q, want the output path", got)
	}
	if len(h.executor.requests) != 1 {
		t.Fatalf("executor got %d requests, want 1", len(h.executor.requests))
	}
	req := h.executor.requests[0]
	if req.Mode != model.ModeAudioOnly || req.DestinationDir != dir || req.SourceURL != "https://youtu.be/dQw4w9WgXcQ" {
		t.Errorf("request = %+v", req)
	}
	if h.options[0].Backend != fetch.DefaultBackend {
		t.Errorf("backend = %q, want %q", h.options[0].Backend, fetch.DefaultBackend)
	}
	if !strings.Contains(h.stderr.String(), "50%") {
		t.Errorf("stderr should show progress, got %q", h.stderr.String())
	}
	if len(h.opened) != 0 {
		t.Errorf("revealed %v without --open", h.opened)
	}
}

func TestRun_OpenFolder(t *testing.T) {
	output := filepath.Join(t.TempDir(), "clip.mp4")
	h := newCLIHarness(t, model.Succeeded(output))

	if code := h.run("--open", "https://youtu.be/dQw4w9WgXcQ"); code != exitOK {
		t.Fatalf("exit code = %d, want %d", code, exitOK)
	}
	if len(h.opened) != 1 || h.opened[0] != output {
		t.Errorf("revealed %v, want [%s]", h.opened, output)
	}
}

func TestRun_Failure(t *testing.T) {
	h := newCLIHarness(t, model.Failed(model.ErrorContentUnavailable, errors.New("video is private")))

	code := h.run("https://youtu.be/dQw4w9WgXcQ")

	if code != exitFailure {
		t.Fatalf("exit code = %d, want %d", code, exitFailure)
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", h.stdout.String())
	}
	if !strings.Contains(h.stderr.String(), string(model.ErrorContentUnavailable)) {
		t.Errorf("stderr should name the error kind, got %q", h.stderr.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no url", nil},
		{"two urls", []string{"https://youtu.be/a", "https://youtu.be/b"}},
		{"bad mode", []string{"-m", "karaoke", "https://youtu.be/a"}},
		{"bad backend", []string{"-b", "vlc", "https://youtu.be/a"}},
		{"bad audio format", []string{"--audio-format", "flac", "https://youtu.be/a"}},
		{"bad timeout", []string{"--timeout", "soon", "https://youtu.be/a"}},
		{"unknown flag", []string{"--quality", "hd", "https://youtu.be/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCLIHarness(t, model.Succeeded("unused"))

			if code := h.run(tt.args...); code != exitUsage {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, exitUsage, h.stderr.String())
			}
			if len(h.executor.requests) != 0 {
				t.Error("no request should be executed on a usage error")
			}
		})
	}
}

func TestRun_ServiceError(t *testing.T) {
	h := newCLIHarness(t, model.Succeeded("unused"))
	newService = func(config.Options, *log.Logger) (download.Executor, error) {
		return nil, errors.New("no http client")
	}

	if code := h.run("https://youtu.be/dQw4w9WgXcQ"); code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
}

func TestRun_FlagsOverrideEnvironment(t *testing.T) {
	h := newCLIHarness(t, model.Succeeded("unused"))
	t.Setenv(config.EnvBackend, fetch.BackendKkdai)
	t.Setenv(config.EnvHTTPTimeout, "30")

	if code := h.run("https://youtu.be/dQw4w9WgXcQ"); code != exitOK {
		t.Fatalf("exit code = %d (stderr: %s)", code, h.stderr.String())
	}
	if got := h.options[0].Backend; got != fetch.BackendKkdai {
		t.Errorf("backend from environment = %q, want kkdai", got)
	}
	if got := h.options[0].HTTPTimeout; got != 30*time.Second {
		t.Errorf("timeout from environment = %s, want 30s", got)
	}

	if code := h.run("-b", "ytdlp", "--timeout", "2m", "https://youtu.be/dQw4w9WgXcQ"); code != exitOK {
		t.Fatalf("exit code = %d (stderr: %s)", code, h.stderr.String())
	}
	if got := h.options[1].Backend; got != fetch.BackendYtDlp {
		t.Errorf("backend from flag = %q, want ytdlp", got)
	}
	if got := h.options[1].HTTPTimeout; got != 2*time.Minute {
		t.Errorf("timeout from flag = %s, want 2m", got)
	}
}

func TestRun_EnvFile(t *testing.T) {
	h := newCLIHarness(t, model.Succeeded("unused"))

	dest := t.TempDir()
	file := filepath.Join(t.TempDir(), "captube.env")
	content := "CAPTUBE_BACKEND=kkdai\nCAPTUBE_DEST=" + dest + "\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if code := h.run("--env-file", file, "https://youtu.be/dQw4w9WgXcQ"); code != exitOK {
		t.Fatalf("exit code = %d (stderr: %s)", code, h.stderr.String())
	}
	if got := h.options[0].Backend; got != fetch.BackendKkdai {
		t.Errorf("backend = %q, want kkdai", got)
	}
	if got := h.executor.requests[0].DestinationDir; got != dest {
		t.Errorf("destination = %q, want %q", got, dest)
	}
}

func TestProgressPrinter(t *testing.T) {
	var out bytes.Buffer
	p := newProgressPrinter(&out)

	p.Update(model.Progress{Stage: model.StageDownload, Downloaded: 1024, Total: 4096})
	p.Update(model.Progress{Stage: model.StageDownload, Downloaded: 1030, Total: 4096})
	p.Update(model.Progress{Stage: model.StageTranscode, Percent: 25})
	p.Finish()

	got := out.String()
	if n := strings.Count(got, "\r"); n != 2 {
		t.Errorf("printer redrew %d times, want 2: %q", n, got)
	}
	if !strings.Contains(got, "downloading  25% (1.0 KiB / 4.0 KiB)") {
		t.Errorf("missing download line in %q", got)
	}
	if !strings.Contains(got, "converting   25%") {
		t.Errorf("missing transcode line in %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Errorf("Finish() should end the line: %q", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
