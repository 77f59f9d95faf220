package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a request failed
type ErrorKind string

const (
	// ErrorInvalidInput means the URL or mode was rejected before any I/O
	ErrorInvalidInput ErrorKind = "InvalidInput"

	// ErrorDestinationUnavailable means the output directory could not be created or written
	ErrorDestinationUnavailable ErrorKind = "DestinationUnavailable"

	// ErrorNetwork means connectivity problems or timeouts
	ErrorNetwork ErrorKind = "NetworkError"

	// ErrorContentUnavailable means the video is removed, private, or region locked
	ErrorContentUnavailable ErrorKind = "ContentUnavailable"

	// ErrorUnsupportedFormat means the requested mode cannot be satisfied for this content
	ErrorUnsupportedFormat ErrorKind = "UnsupportedFormat"

	// ErrorUnknown is the catch-all
	ErrorUnknown ErrorKind = "Unknown"
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	return string(k)
}

// IsFetchKind reports whether a fetch backend may legitimately return k
func (k ErrorKind) IsFetchKind() bool {
	switch k {
	case ErrorNetwork, ErrorContentUnavailable, ErrorUnsupportedFormat, ErrorUnknown:
		return true
	}
	return false
}

// DownloadError is the classified error carried by a failed DownloadResult
type DownloadError struct {
	Kind    ErrorKind
	Message string // diagnostic text, not meant for direct display
	Err     error
}

// Error implements error
func (e *DownloadError) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// NewDownloadError builds a DownloadError whose message is taken from err
func NewDownloadError(kind ErrorKind, err error) *DownloadError {
	de := &DownloadError{Kind: kind, Err: err}
	if err != nil {
		de.Message = err.Error()
	}
	return de
}

// FetchError is returned by media-fetch backends to classify their failures
type FetchError struct {
	Kind ErrorKind
	Err  error
}

// Error implements error
func (e *FetchError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps err with kind. A nil err yields nil.
func NewFetchError(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Kind: kind, Err: err}
}

// KindOf extracts the kind from a FetchError or DownloadError anywhere in the chain.
// Unclassified errors report ErrorUnknown and false.
func KindOf(err error) (ErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	var de *DownloadError
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return ErrorUnknown, false
}
