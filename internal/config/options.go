package config

import (
	"fmt"
	"time"

	"github.com/ytget/captube/internal/fetch"
	"github.com/ytget/captube/internal/transcode"
)

// Options is the resolved configuration shared by the GUI and the CLI
type Options struct {
	Backend     string
	AudioFormat string
	Destination string // empty selects platform.DefaultDestination
	HTTPTimeout time.Duration
	OpenFolder  bool
}

// DefaultOptions returns the built-in configuration
func DefaultOptions() Options {
	return Options{
		Backend:     fetch.DefaultBackend,
		AudioFormat: transcode.FormatOriginal,
		HTTPTimeout: fetch.DefaultHTTPTimeout,
	}
}

// Normalize validates o and fills defaults
func (o Options) Normalize() (Options, error) {
	backend, err := fetch.ParseBackend(o.Backend)
	if err != nil {
		return o, err
	}
	audioFormat, err := transcode.ParseFormat(o.AudioFormat)
	if err != nil {
		return o, err
	}
	if o.HTTPTimeout < 0 {
		return o, fmt.Errorf("http timeout must not be negative, got %s", o.HTTPTimeout)
	}
	if o.HTTPTimeout == 0 {
		o.HTTPTimeout = fetch.DefaultHTTPTimeout
	}
	o.Backend = backend
	o.AudioFormat = audioFormat
	return o, nil
}
