package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/kkdai/youtube/v2"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

// kkdaiAPI is the part of *youtube.Client used by Kkdai
type kkdaiAPI interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (io.ReadCloser, int64, error)
}

// Kkdai fetches media with github.com/kkdai/youtube/v2 and streams it into
// a temporary file itself.
type Kkdai struct {
	client kkdaiAPI
	logger *log.Logger
}

// NewKkdai creates the kkdai backend
func NewKkdai(httpClient *http.Client, logger *log.Logger) *Kkdai {
	if logger == nil {
		logger = log.Default()
	}
	return &Kkdai{
		client: &youtube.Client{HTTPClient: httpClient},
		logger: logger,
	}
}

// Fetch implements download.Fetcher
func (f *Kkdai) Fetch(ctx context.Context, req download.FetchRequest) (string, error) {
	video, err := f.client.GetVideoContext(ctx, req.URL)
	if err != nil {
		return "", mapKkdaiError(err)
	}

	candidates := make([]candidate, 0, len(video.Formats))
	for i := range video.Formats {
		format := &video.Formats[i]
		c := newCandidate(i, format.ItagNo, format.MimeType, format.QualityLabel, kkdaiBitrate(format), format.ContentLength)
		if format.AudioChannels > 0 {
			c.hasAudio = true
		}
		if c.height == 0 {
			c.height = format.Height
		}
		candidates = append(candidates, c)
	}
	chosen, err := selectFormat(req.Mode, candidates)
	if err != nil {
		return "", err
	}
	format := &video.Formats[chosen.index]
	f.logger.Printf("kkdai: %s itag %d (%s) for %q", req.Mode, format.ItagNo, format.MimeType, video.Title)

	stream, size, err := f.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return "", mapKkdaiError(fmt.Errorf("starting stream: %w", err))
	}
	defer stream.Close()

	reservation, err := Reserve(req.Dir, video.Title, extensionForMime(format.MimeType))
	if err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}

	tmp, err := CreateTemp(req.Dir)
	if err != nil {
		reservation.Abort()
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}

	progress := newProgressWriter(tmp, req, size)
	_, copyErr := io.Copy(progress, stream)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp.Name())
		reservation.Abort()
		if copyErr != nil {
			return "", mapKkdaiError(fmt.Errorf("download failed: %w", copyErr))
		}
		return "", model.NewFetchError(model.ErrorUnknown, closeErr)
	}
	progress.finish()
	if progress.written == 0 {
		_ = os.Remove(tmp.Name())
		reservation.Abort()
		return "", model.NewFetchError(model.ErrorUnknown, errors.New("empty stream: 0 bytes written"))
	}

	if err := reservation.Commit(tmp.Name()); err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}
	return reservation.Path(), nil
}

func kkdaiBitrate(f *youtube.Format) int {
	if f.Bitrate > 0 {
		return f.Bitrate
	}
	return f.AverageBitrate
}

// mapKkdaiError classifies errors from github.com/kkdai/youtube/v2
func mapKkdaiError(err error) error {
	switch {
	case alreadyClassified(err):
		return err
	case errors.Is(err, youtube.ErrVideoPrivate),
		errors.Is(err, youtube.ErrLoginRequired),
		errors.Is(err, youtube.ErrNotPlayableInEmbed),
		errors.Is(err, youtube.ErrInvalidCharactersInVideoID),
		errors.Is(err, youtube.ErrVideoIDMinLength):
		return model.NewFetchError(model.ErrorContentUnavailable, err)
	}

	var statusErr *youtube.ErrPlayabiltyStatus
	if errors.As(err, &statusErr) {
		return model.NewFetchError(model.ErrorContentUnavailable, err)
	}

	var codeErr youtube.ErrUnexpectedStatusCode
	if errors.As(err, &codeErr) {
		switch code := int(codeErr); {
		case code == http.StatusTooManyRequests || code >= http.StatusInternalServerError:
			return model.NewFetchError(model.ErrorNetwork, err)
		case code == http.StatusNotFound || code == http.StatusGone:
			return model.NewFetchError(model.ErrorContentUnavailable, err)
		}
	}
	return classifyFallback(err)
}
