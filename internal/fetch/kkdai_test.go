package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

type fakeKkdai struct {
	video     *youtube.Video
	videoErr  error
	streamErr error
	body      string
	readErr   error
	requested *youtube.Format
}

func (f *fakeKkdai) GetVideoContext(context.Context, string) (*youtube.Video, error) {
	return f.video, f.videoErr
}

func (f *fakeKkdai) GetStreamContext(_ context.Context, _ *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error) {
	f.requested = format
	if f.streamErr != nil {
		return nil, 0, f.streamErr
	}
	var r io.Reader = strings.NewReader(f.body)
	if f.readErr != nil {
		r = io.MultiReader(r, iotest.ErrReader(f.readErr))
	}
	return io.NopCloser(r), int64(len(f.body)), nil
}

func sampleKkdaiVideo() *youtube.Video {
	return &youtube.Video{
		ID:    "dQw4w9WgXcQ",
		Title: "Clip / Live",
		Formats: youtube.FormatList{
			{ItagNo: 18, MimeType: mimeMuxedMP4, QualityLabel: "360p", Bitrate: 500000, AudioChannels: 2, Height: 360},
			{ItagNo: 22, MimeType: mimeMuxedMP4, QualityLabel: "720p", Bitrate: 1500000, AudioChannels: 2, Height: 720},
			{ItagNo: 137, MimeType: mimeVideoMP4, QualityLabel: "1080p", Bitrate: 4000000, Height: 1080},
			{ItagNo: 140, MimeType: mimeAudioM4A, AverageBitrate: 130000, AudioChannels: 2},
		},
	}
}

func newTestKkdai(client kkdaiAPI) *Kkdai {
	return &Kkdai{client: client, logger: log.New(io.Discard, "", 0)}
}

func TestKkdai_Fetch(t *testing.T) {
	tests := []struct {
		mode     model.Mode
		itag     int
		expected string
	}{
		{model.ModeVideo, 22, "Clip _ Live.mp4"},
		{model.ModeAudioOnly, 140, "Clip _ Live.m4a"},
		{model.ModeVideoNoAudio, 137, "Clip _ Live.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			dir := t.TempDir()
			client := &fakeKkdai{video: sampleKkdaiVideo(), body: "stream bytes"}
			var last model.Progress

			path, err := newTestKkdai(client).Fetch(context.Background(), download.FetchRequest{
				URL:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
				Mode:       tt.mode,
				Dir:        dir,
				OnProgress: func(p model.Progress) { last = p },
			})
			if err != nil {
				t.Fatalf("Fetch failed: %v", err)
			}
			if filepath.Base(path) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, filepath.Base(path))
			}
			if client.requested.ItagNo != tt.itag {
				t.Errorf("Expected itag %d, got %d", tt.itag, client.requested.ItagNo)
			}
			if data, _ := os.ReadFile(path); string(data) != "stream bytes" {
				t.Errorf("Unexpected content %q", data)
			}
			if last.Downloaded != int64(len("stream bytes")) || last.Percent != 100 {
				t.Errorf("Unexpected final progress %+v", last)
			}
			if entries, _ := os.ReadDir(dir); len(entries) != 1 {
				t.Errorf("Expected only the output file, found %d entries", len(entries))
			}
		})
	}
}

func TestKkdai_Failures(t *testing.T) {
	tests := []struct {
		name     string
		client   *fakeKkdai
		expected model.ErrorKind
	}{
		{"private", &fakeKkdai{videoErr: youtube.ErrVideoPrivate}, model.ErrorContentUnavailable},
		{"stream refused", &fakeKkdai{video: sampleKkdaiVideo(), streamErr: youtube.ErrUnexpectedStatusCode(503)}, model.ErrorNetwork},
		{"broken stream", &fakeKkdai{video: sampleKkdaiVideo(), body: "half", readErr: errors.New("read tcp: connection reset by peer")}, model.ErrorNetwork},
		{"empty stream", &fakeKkdai{video: sampleKkdaiVideo()}, model.ErrorUnknown},
		{"no audio", &fakeKkdai{video: &youtube.Video{Title: "x", Formats: youtube.FormatList{{ItagNo: 137, MimeType: mimeVideoMP4}}}}, model.ErrorUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			_, err := newTestKkdai(tt.client).Fetch(context.Background(), download.FetchRequest{
				URL: "https://www.youtube.com/watch?v=x", Mode: model.ModeAudioOnly, Dir: dir,
			})

			if kind, _ := model.KindOf(err); kind != tt.expected {
				t.Errorf("Expected %s, got %s (%v)", tt.expected, kind, err)
			}
			if entries, _ := os.ReadDir(dir); len(entries) != 0 {
				t.Errorf("Expected empty destination, found %d entries", len(entries))
			}
		})
	}
}

func TestMapKkdaiError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected model.ErrorKind
	}{
		{"private", youtube.ErrVideoPrivate, model.ErrorContentUnavailable},
		{"login", fmt.Errorf("get video: %w", youtube.ErrLoginRequired), model.ErrorContentUnavailable},
		{"embed", youtube.ErrNotPlayableInEmbed, model.ErrorContentUnavailable},
		{"bad id", youtube.ErrInvalidCharactersInVideoID, model.ErrorContentUnavailable},
		{"playability", &youtube.ErrPlayabiltyStatus{}, model.ErrorContentUnavailable},
		{"not found", youtube.ErrUnexpectedStatusCode(404), model.ErrorContentUnavailable},
		{"throttled", youtube.ErrUnexpectedStatusCode(429), model.ErrorNetwork},
		{"server", youtube.ErrUnexpectedStatusCode(502), model.ErrorNetwork},
		{"forbidden", youtube.ErrUnexpectedStatusCode(403), model.ErrorUnknown},
		{"timeout", context.DeadlineExceeded, model.ErrorNetwork},
		{"opaque", errors.New("boom"), model.ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := model.KindOf(mapKkdaiError(tt.err))
			if !ok || kind != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, kind)
			}
		})
	}
}
