// Package transcode converts downloaded audio to MP3 with ffmpeg. It wraps a
// download.Fetcher so the orchestrator still sees a single output file.
package transcode
