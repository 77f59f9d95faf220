package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv
const (
	EnvBackend     = "CAPTUBE_BACKEND"
	EnvAudioFormat = "CAPTUBE_AUDIO_FORMAT"
	EnvDestination = "CAPTUBE_DEST"
	EnvHTTPTimeout = "CAPTUBE_HTTP_TIMEOUT"
	EnvOpenFolder  = "CAPTUBE_OPEN_FOLDER"
)

// LoadEnv loads the given dotenv files (".env" when none are named) and
// builds Options from CAPTUBE_* variables. Missing files are not an error;
// variables already set in the environment win over file values.
func LoadEnv(files ...string) (Options, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Options{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds Options from variables returned by lookup
func FromEnv(lookup func(string) (string, bool)) (Options, error) {
	opts := DefaultOptions()

	if v, ok := lookupTrimmed(lookup, EnvBackend); ok {
		opts.Backend = v
	}
	if v, ok := lookupTrimmed(lookup, EnvAudioFormat); ok {
		opts.AudioFormat = v
	}
	if v, ok := lookupTrimmed(lookup, EnvDestination); ok {
		opts.Destination = v
	}
	if v, ok := lookupTrimmed(lookup, EnvHTTPTimeout); ok {
		timeout, err := ParseTimeout(v)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", EnvHTTPTimeout, err)
		}
		opts.HTTPTimeout = timeout
	}
	if v, ok := lookupTrimmed(lookup, EnvOpenFolder); ok {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%s: %w", EnvOpenFolder, err)
		}
		opts.OpenFolder = open
	}

	return opts.Normalize()
}

// ParseTimeout accepts a Go duration ("90s", "2m") or a whole number of seconds
func ParseTimeout(s string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("negative timeout %d", seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative timeout %s", d)
	}
	return d, nil
}

func lookupTrimmed(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
