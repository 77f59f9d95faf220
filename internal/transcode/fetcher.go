package transcode

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/fetch"
	"github.com/ytget/captube/internal/model"
)

// Audio output formats
const (
	FormatOriginal = "original"
	FormatMP3      = "mp3"
)

// OutputExtension is the extension of converted files
const OutputExtension = ".mp3"

// Formats lists the audio formats in display order
var Formats = []string{FormatOriginal, FormatMP3}

// ParseFormat normalizes an audio format name. Empty selects FormatOriginal.
func ParseFormat(name string) (string, error) {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "", FormatOriginal, "m4a", "native":
		return FormatOriginal, nil
	case FormatMP3:
		return FormatMP3, nil
	}
	return "", fmt.Errorf("unknown audio format %q (expected %s)", name, strings.Join(Formats, " or "))
}

// Fetcher decorates another fetcher and converts audio-only results to MP3
type Fetcher struct {
	inner     download.Fetcher
	converter Converter
	logger    *log.Logger
}

// Wrap returns a fetcher that converts the audio produced by inner
func Wrap(inner download.Fetcher, converter Converter, logger *log.Logger) *Fetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Fetcher{inner: inner, converter: converter, logger: logger}
}

// Fetch implements download.Fetcher
func (f *Fetcher) Fetch(ctx context.Context, req download.FetchRequest) (string, error) {
	input, err := f.inner.Fetch(ctx, req)
	if err != nil || !req.Mode.IsAudioOnly() || strings.EqualFold(filepath.Ext(input), OutputExtension) {
		return input, err
	}
	// the downloaded stream is only an intermediate from here on
	defer func() {
		if err := os.Remove(input); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.logger.Printf("transcode: failed to remove %s: %v", input, err)
		}
	}()

	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	reservation, err := fetch.Reserve(req.Dir, stem, OutputExtension)
	if err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}

	tmp, err := fetch.CreateTemp(req.Dir)
	if err != nil {
		reservation.Abort()
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	f.logger.Printf("transcode: %s -> %s", filepath.Base(input), filepath.Base(reservation.Path()))
	req.Report(model.Progress{Stage: model.StageTranscode})
	err = f.converter.Convert(ctx, input, tmpPath, func(fraction float64) {
		req.Report(model.Progress{Stage: model.StageTranscode, Percent: fraction * 100})
	})
	if err != nil {
		_ = os.Remove(tmpPath)
		reservation.Abort()
		if errors.Is(err, ErrFFmpegNotFound) {
			return "", model.NewFetchError(model.ErrorUnsupportedFormat, err)
		}
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}

	if err := reservation.Commit(tmpPath); err != nil {
		return "", model.NewFetchError(model.ErrorUnknown, err)
	}
	return reservation.Path(), nil
}
