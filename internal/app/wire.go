package app

import (
	"fmt"
	"log"

	"github.com/ytget/captube/internal/config"
	"github.com/ytget/captube/internal/download"
	"github.com/ytget/captube/internal/fetch"
	"github.com/ytget/captube/internal/transcode"
)

// NewFetcher builds the configured backend, wrapped with the MP3 converter
// when audio is to be transcoded.
func NewFetcher(opts config.Options, logger *log.Logger) (download.Fetcher, error) {
	if logger == nil {
		logger = log.Default()
	}
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}

	fetcher, err := fetch.New(fetch.Config{
		Backend:     opts.Backend,
		HTTPTimeout: opts.HTTPTimeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", opts.Backend, err)
	}

	if opts.AudioFormat == transcode.FormatMP3 {
		converter := transcode.NewFFmpeg(logger)
		if !converter.Available() {
			logger.Printf("ffmpeg not found; audio-only downloads will fail until it is installed")
		}
		fetcher = transcode.Wrap(fetcher, converter, logger)
	}
	return fetcher, nil
}

// NewService creates the download service described by opts
func NewService(opts config.Options, logger *log.Logger) (*download.Service, error) {
	if logger == nil {
		logger = log.Default()
	}
	fetcher, err := NewFetcher(opts, logger)
	if err != nil {
		return nil, err
	}
	return download.NewService(fetcher, opts.Destination, logger), nil
}
