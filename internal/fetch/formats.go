package fetch

import (
	"fmt"
	"mime"
	"regexp"
	"strconv"
	"strings"

	"github.com/ytget/captube/internal/model"
)

// audioCodecs are codec prefixes that mark a stream as carrying audio
var audioCodecs = []string{"mp4a", "opus", "vorbis", "ac-3", "ec-3", "flac", "mp3"}

var mimeExtensions = map[string]string{
	"audio/mp4":  ".m4a",
	"audio/webm": ".weba",
	"audio/mpeg": ".mp3",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
	"video/3gpp": ".3gp",
}

var heightRe = regexp.MustCompile(`([0-9]{3,4})p`)

// candidate is a backend neutral view of one downloadable stream
type candidate struct {
	index    int // position in the backend's own format list
	itag     int
	mimeType string
	height   int
	bitrate  int
	size     int64
	hasAudio bool
	hasVideo bool
}

// newCandidate classifies a stream from its MIME type and quality label
func newCandidate(index, itag int, mimeType, quality string, bitrate int, size int64) candidate {
	base, codecs := splitMime(mimeType)
	c := candidate{
		index:    index,
		itag:     itag,
		mimeType: mimeType,
		height:   parseHeight(quality),
		bitrate:  bitrate,
		size:     size,
	}
	switch {
	case strings.HasPrefix(base, "audio/"):
		c.hasAudio = true
	case strings.HasPrefix(base, "video/"):
		c.hasVideo = true
		c.hasAudio = codecsHaveAudio(codecs)
	}
	return c
}

func (c candidate) isMP4() bool {
	base, _ := splitMime(c.mimeType)
	return base == "video/mp4" || base == "audio/mp4"
}

func (c candidate) matches(mode model.Mode) bool {
	if !mode.Valid() {
		return false
	}
	return c.hasVideo == mode.HasVideo() && c.hasAudio == mode.HasAudio()
}

// better reports whether c should be preferred over current for mode
func (c candidate) better(current candidate, mode model.Mode) bool {
	if c.isMP4() != current.isMP4() {
		return c.isMP4()
	}
	if mode.HasVideo() && c.height != current.height {
		return c.height > current.height
	}
	if c.bitrate != current.bitrate {
		return c.bitrate > current.bitrate
	}
	return c.size > current.size
}

// selectFormat picks the single stream served for mode. No matching stream
// yields an UnsupportedFormat fetch error.
func selectFormat(mode model.Mode, candidates []candidate) (candidate, error) {
	var best candidate
	found := false
	for _, c := range candidates {
		if !c.matches(mode) {
			continue
		}
		if !found || c.better(best, mode) {
			best = c
			found = true
		}
	}
	if !found {
		return candidate{}, model.NewFetchError(model.ErrorUnsupportedFormat,
			fmt.Errorf("no %s stream available among %d formats", mode, len(candidates)))
	}
	return best, nil
}

// extensionForMime maps a stream MIME type to a file extension
func extensionForMime(mimeType string) string {
	base, _ := splitMime(mimeType)
	if ext, ok := mimeExtensions[base]; ok {
		return ext
	}
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		return "." + strings.TrimPrefix(sub, "x-")
	}
	return ".bin"
}

// splitMime returns the lower-cased base type and the codec list
func splitMime(mimeType string) (string, []string) {
	base, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		base, _, _ = strings.Cut(mimeType, ";")
		return strings.ToLower(strings.TrimSpace(base)), nil
	}
	var codecs []string
	for _, codec := range strings.Split(params["codecs"], ",") {
		if codec = strings.TrimSpace(codec); codec != "" {
			codecs = append(codecs, strings.ToLower(codec))
		}
	}
	return base, codecs
}

func codecsHaveAudio(codecs []string) bool {
	for _, codec := range codecs {
		for _, prefix := range audioCodecs {
			if strings.HasPrefix(codec, prefix) {
				return true
			}
		}
	}
	return false
}

// parseHeight extracts the pixel height from labels like "720p" or "1080p60"
func parseHeight(label string) int {
	m := heightRe.FindStringSubmatch(label)
	if len(m) < 2 {
		return 0
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return v
}
