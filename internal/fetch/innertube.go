package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/ytget/ytdlp/v2"
	"github.com/ytget/ytdlp/v2/errs"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/model"
)

// innertubeTempSuffix is the suffix ytdlp appends to the output path while downloading
const innertubeTempSuffix = ".tmp"

// innertubeAPI is the slice of github.com/ytget/ytdlp/v2 used by Innertube
type innertubeAPI interface {
	Resolve(ctx context.Context, url string) (*ytdlp.VideoInfo, error)
	Download(ctx context.Context, url string, itag int, outputPath string, onProgress func(ytdlp.Progress)) error
}

// ytdlpLibrary drives the real library with a shared HTTP client
type ytdlpLibrary struct {
	httpClient *http.Client
}

func (l ytdlpLibrary) Resolve(ctx context.Context, url string) (*ytdlp.VideoInfo, error) {
	_, info, err := ytdlp.New().WithHTTPClient(l.httpClient).ResolveURL(ctx, url)
	return info, err
}

func (l ytdlpLibrary) Download(ctx context.Context, url string, itag int, outputPath string, onProgress func(ytdlp.Progress)) error {
	_, err := ytdlp.New().
		WithHTTPClient(l.httpClient).
		WithFormat("itag="+strconv.Itoa(itag), "").
		WithOutputPath(outputPath).
		WithProgress(onProgress).
		Download(ctx, url)
	return err
}

// Innertube fetches media through YouTube's innertube API using
// github.com/ytget/ytdlp/v2. It needs no external binaries.
type Innertube struct {
	api    innertubeAPI
	logger *log.Logger
}

// NewInnertube creates the innertube backend
func NewInnertube(httpClient *http.Client, logger *log.Logger) *Innertube {
	if logger == nil {
		logger = log.Default()
	}
	return &Innertube{api: ytdlpLibrary{httpClient: httpClient}, logger: logger}
}

// Fetch implements download.Fetcher
func (f *Innertube) Fetch(ctx context.Context, req download.FetchRequest) (string, error) {
	info, err := f.api.Resolve(ctx, req.URL)
	if err != nil {
		return "", mapInnertubeError(err)
	}
	if info == nil {
		return "", model.NewFetchError(model.ErrorUnknown, errors.New("innertube returned no video info"))
	}

	candidates := make([]candidate, 0, len(info.Formats))
	for i, format := range info.Formats {
		if format.Itag == 0 {
			continue
		}
		candidates = append(candidates, newCandidate(i, format.Itag, format.MimeType, format.Quality, format.Bitrate, format.Size))
	}
	chosen, err := selectFormat(req.Mode, candidates)
	if err != nil {
		return "", err
	}
	f.logger.Printf("innertube: %s itag %d (%s) for %q", req.Mode, chosen.itag, chosen.mimeType, info.Title)

	reservation, err := Reserve(req.Dir, info.Title, extensionForMime(chosen.mimeType))
	if err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}
	output := reservation.Path()
	tmpPath := output + innertubeTempSuffix
	// a leftover temp file would make the library resume into it
	_ = os.Remove(tmpPath)

	err = f.api.Download(ctx, req.URL, chosen.itag, output, func(p ytdlp.Progress) {
		req.Report(model.Progress{
			Stage:      model.StageDownload,
			Downloaded: p.DownloadedSize,
			Total:      p.TotalSize,
			Percent:    p.Percent,
		})
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		reservation.Abort()
		return "", mapInnertubeError(err)
	}
	reservation.Keep()
	return output, nil
}

// mapInnertubeError classifies errors from github.com/ytget/ytdlp/v2
func mapInnertubeError(err error) error {
	switch {
	case alreadyClassified(err):
		return err
	case errors.Is(err, errs.ErrPrivate),
		errors.Is(err, errs.ErrVideoUnavailable),
		errors.Is(err, errs.ErrAgeRestricted),
		errors.Is(err, errs.ErrGeoBlocked):
		return model.NewFetchError(model.ErrorContentUnavailable, err)
	case errors.Is(err, errs.ErrRateLimited):
		return model.NewFetchError(model.ErrorNetwork, err)
	case errors.Is(err, errs.ErrCipherFailed):
		return model.NewFetchError(model.ErrorUnknown, fmt.Errorf("signature decipher: %w", err))
	}
	return classifyFallback(err)
}
