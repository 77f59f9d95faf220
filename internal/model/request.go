package model

// DownloadRequest describes one user-initiated download.
// It is passed by value and never modified after submission.
type DownloadRequest struct {
	SourceURL      string
	Mode           Mode
	DestinationDir string
}

// WithDestination returns a copy of the request targeting dir
func (r DownloadRequest) WithDestination(dir string) DownloadRequest {
	r.DestinationDir = dir
	return r
}
