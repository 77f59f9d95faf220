package download

// Package download implements the download orchestrator: it validates a
// request, prepares the destination directory, delegates to a pluggable media
// fetcher, and turns every outcome into a classified DownloadResult.
