// Package fetch implements the media-fetch backends used by the download
// orchestrator. Every backend resolves a video page, picks one stream for the
// requested mode and writes it into the destination through a temporary file
// and a create-exclusive final name.
package fetch
