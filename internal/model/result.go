package model

import "time"

// Outcome is the terminal state of a request
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
)

// DownloadResult is produced exactly once per DownloadRequest.
// Exactly one of OutputPath and Err is set.
type DownloadResult struct {
	RequestID  string
	Outcome    Outcome
	OutputPath string         // set iff Outcome is OutcomeSuccess
	Err        *DownloadError // set iff Outcome is OutcomeFailure
	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded builds a SUCCESS result for path
func Succeeded(path string) DownloadResult {
	return DownloadResult{Outcome: OutcomeSuccess, OutputPath: path}
}

// Failed builds a FAILURE result of the given kind
func Failed(kind ErrorKind, err error) DownloadResult {
	return DownloadResult{Outcome: OutcomeFailure, Err: NewDownloadError(kind, err)}
}

// OK reports whether the request succeeded
func (r DownloadResult) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Kind returns the error kind of a failed result, or "" on success
func (r DownloadResult) Kind() ErrorKind {
	if r.Err == nil {
		return ""
	}
	return r.Err.Kind
}

// Duration returns how long the request took
func (r DownloadResult) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
