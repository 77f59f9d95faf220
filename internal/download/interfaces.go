package download

import (
	"context"

	"github.com/ytget/captube/internal/model"
)

// ProgressFunc receives progress reports while a request runs
type ProgressFunc func(model.Progress)

// FetchRequest is what the orchestrator hands to a Fetcher
type FetchRequest struct {
	URL        string
	Mode       model.Mode
	Dir        string // existing, writable directory
	OnProgress ProgressFunc
}

// Report forwards p to OnProgress when set
func (r FetchRequest) Report(p model.Progress) {
	if r.OnProgress != nil {
		r.OnProgress(p)
	}
}

// Fetcher resolves a media URL and writes the selected stream into Dir.
//
// Implementations must write through a unique temporary file and rename it
// into place, never overwrite an existing file, and remove every partial file
// they created when they fail. Errors should be *model.FetchError values.
type Fetcher interface {
	Fetch(ctx context.Context, req FetchRequest) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, req FetchRequest) (string, error)

// Fetch calls f
func (f FetcherFunc) Fetch(ctx context.Context, req FetchRequest) (string, error) {
	return f(ctx, req)
}

// Executor defines the interface the UI and CLI use to run requests.
type Executor interface {
	Execute(ctx context.Context, req model.DownloadRequest) model.DownloadResult
	ExecuteAsync(ctx context.Context, req model.DownloadRequest, onProgress ProgressFunc, onDone func(model.DownloadResult))
}
