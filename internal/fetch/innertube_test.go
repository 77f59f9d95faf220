package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/errs"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

// fakeInnertube mimics the library: it writes output+".tmp" and renames it
type fakeInnertube struct {
	info        *ytdlp.VideoInfo
	resolveErr    error
	downloadErr error
	payload     string
	itags       []int
}

func (f *fakeInnertube) Resolve(context.Context, string) (*ytdlp.VideoInfo, error) {
	return f.info, f.resolveErr
}

func (f *fakeInnertube) Download(_ context.Context, _ string, itag int, outputPath string, onProgress func(ytdlp.Progress)) error {
	f.itags = append(f.itags, itag)
	tmp := outputPath + innertubeTempSuffix
	if err := os.WriteFile(tmp, []byte(f.payload), 0644); err != nil {
		return err
	}
	if f.downloadErr != nil {
		return f.downloadErr
	}
	size := int64(len(f.payload))
	onProgress(ytdlp.Progress{TotalSize: size, DownloadedSize: size, Percent: 100})
	return os.Rename(tmp, outputPath)
}

func sampleVideoInfo() *ytdlp.VideoInfo {
	return &ytdlp.VideoInfo{
		ID:    "dQw4w9WgXcQ",
		Title: "Rick Astley: Never Gonna Give You Up",
		Formats: []ytdlp.Format{
			{Itag: 18, MimeType: mimeMuxedMP4, Quality: "360p", Bitrate: 500000},
			{Itag: 137, MimeType: mimeVideoMP4, Quality: "1080p", Bitrate: 4000000},
			{Itag: 140, MimeType: mimeAudioM4A, Bitrate: 130000},
			{Itag: 251, MimeType: mimeAudioWebM, Bitrate: 160000},
		},
	}
}

func newTestInnertube(api innertubeAPI) *Innertube {
	return &Innertube{api: api, logger: log.New(io.Discard, "", 0)}
}

func TestInnertube_Fetch(t *testing.T) {
	tests := []struct {
		mode     model.Mode
		itag     int
		expected string
	}{
		{model.ModeVideo, 18, "Rick Astley_ Never Gonna Give You Up.mp4"},
		{model.ModeAudioOnly, 140, "Rick Astley_ Never Gonna Give You Up.m4a"},
		{model.ModeVideoNoAudio, 137, "Rick Astley_ Never Gonna Give You Up.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			dir := t.TempDir()
			api := &fakeInnertube{info: sampleVideoInfo(), payload: "media"}
			var updates []model.Progress

			path, err := newTestInnertube(api).Fetch(context.Background(), download.FetchRequest{
				URL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Mode:       tt.mode,
				Dir:        dir,
				OnProgress: func(p model.Progress) { updates = append(updates, p) },
			})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if filepath.Base(path) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, filepath.Base(path))
			}
			if api.itags[0] != tt.itag {
				t.Errorf("Expected itag %d, got %d", tt.itag, api.itags[0])
			}
			if data, _ := os.ReadFile(path); string(data) != "media" {
				t.Errorf("Unexpected content %q", data)
			}
			if len(updates) != 1 || updates[0].Stage != model.StageDownload || updates[0].Percent != 100 {
				t.Errorf("Unexpected progress %+v", updates)
			}
		})
	}
}

func TestInnertube_RepeatedFetchGetsNewName(t *testing.T) {
	dir := t.TempDir()
	fetcher := newTestInnertube(&fakeInnertube{info: sampleVideoInfo(), payload: "media"})
	req := download.FetchRequest{URL: "https://youtu.be/dQw4w9WgXcQ", Mode: model.ModeAudioOnly, Dir: dir}

	first, err := fetcher.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := fetcher.Fetch(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if filepath.Base(second) != "Rick Astley_ Never Gonna Give You Up (1).m4a" {
		t.Errorf("Unexpected second name %s", filepath.Base(second))
	}
	if first == second {
		t.Error("Expected distinct paths")
	}
}

func TestInnertube_Failures(t *testing.T) {
	audioless := &ytdlp.VideoInfo{Title: "Silent", Formats: []ytdlp.Format{{Itag: 137, MimeType: mimeVideoMP4, Quality: "1080p"}}}

	tests := []struct {
		name     string
		api      *fakeInnertube
		expected model.ErrorKind
	}{
		{"private", &fakeInnertube{resolveErr: errs.ErrPrivate}, model.ErrorContentUnavailable},
		{"geo blocked", &fakeInnertube{resolveErr: errs.ErrGeoBlocked}, model.ErrorContentUnavailable},
		{"no audio stream", &fakeInnertube{info: audioless}, model.ErrorUnsupportedFormat},
		{"nil info", &fakeInnertube{}, model.ErrorUnknown},
		{
			"interrupted download",
			&fakeInnertube{info: sampleVideoInfo(), payload: "partial", downloadErr: errors.New("download failed: download chunk failed: dial tcp: i/o timeout")},
			model.ErrorNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			path, err := newTestInnertube(tt.api).Fetch(context.Background(), download.FetchRequest{
				URL: "https://www.youtube.com/watch?v=x", Mode: model.ModeAudioOnly, Dir: dir,
			})

			if path != "" {
				t.Errorf("Expected no path, got %s", path)
			}
			if kind, _ := model.KindOf(err); kind != tt.expected {
				t.Errorf("Expected %s, got %s (%v)", tt.expected, kind, err)
			}
			if entries, _ := os.ReadDir(dir); len(entries) != 0 {
				t.Errorf("Expected empty destination, found %d entries", len(entries))
			}
		})
	}
}

func TestMapInnertubeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected model.ErrorKind
	}{
		{"private", errs.ErrPrivate, model.ErrorContentUnavailable},
		{"unavailable", errs.ErrVideoUnavailable, model.ErrorContentUnavailable},
		{"age", errs.ErrAgeRestricted, model.ErrorContentUnavailable},
		{"geo", fmt.Errorf("resolve: %w", errs.ErrGeoBlocked), model.ErrorContentUnavailable},
		{"rate limited", errs.ErrRateLimited, model.ErrorNetwork},
		{"cipher", errs.ErrCipherFailed, model.ErrorUnknown},
		{"no format", errors.New("no suitable format found"), model.ErrorUnsupportedFormat},
		{"not a video url", errors.New("extract video id failed: invalid"), model.ErrorContentUnavailable},
		{"deadline", context.DeadlineExceeded, model.ErrorNetwork},
		{"canceled", context.Canceled, model.ErrorUnknown},
		{"classified", model.NewFetchError(model.ErrorUnsupportedFormat, errors.New("x")), model.ErrorUnsupportedFormat},
		{"opaque", errors.New("boom"), model.ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := model.KindOf(mapInnertubeError(tt.err))
			if !ok || kind != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, kind)
			}
		})
	}
}
