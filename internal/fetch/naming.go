package fetch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxTitleRunes bounds the title part of an output file name
	MaxTitleRunes = 180

	// MaxTitleBytes bounds the encoded length of the title part; file systems
	// limit names in bytes, and non-Latin titles need 2 to 4 bytes per rune
	MaxTitleBytes = 200

	// maxNameBytes is the common per-name limit of ext4, APFS and NTFS (UTF-16 aside)
	maxNameBytes = 255

	// FallbackTitle names files whose title sanitizes to nothing
	FallbackTitle = "video"

	// TempPattern is the os.CreateTemp pattern for in-progress downloads
	TempPattern = ".captube-*.part"

	maxCollisions = 10000
)

var (
	unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// SanitizeTitle turns a video title into a portable file name stem
func SanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, title)
	cleaned = unsafeNameChars.ReplaceAllString(cleaned, "_")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " .")

	if runes := []rune(cleaned); len(runes) > MaxTitleRunes {
		cleaned = string(runes[:MaxTitleRunes])
	}
	cleaned = strings.TrimRight(truncateBytes(cleaned, MaxTitleBytes), " .")
	if cleaned == "" {
		return FallbackTitle
	}
	return cleaned
}

// truncateBytes cuts s to at most limit bytes without splitting a rune
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := 0
	for i := range s {
		if i > limit {
			break
		}
		cut = i
	}
	return s[:cut]
}

// Reservation holds an exclusively created final file name until the
// finished download is renamed over it or the reservation is aborted.
type Reservation struct {
	path string
	done bool
}

// Reserve claims the first free name among "title.ext", "title (1).ext", ...
// in dir. The name is created empty with O_EXCL so concurrent requests never
// receive the same path.
func Reserve(dir, title, ext string) (*Reservation, error) {
	stem := SanitizeTitle(title)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	// leave room for the extension and the largest " (n)" suffix
	budget := maxNameBytes - len(ext) - len(fmt.Sprintf(" (%d)", maxCollisions-1))
	if len(stem) > budget {
		stem = strings.TrimRight(truncateBytes(stem, budget), " .")
		if stem == "" {
			stem = FallbackTitle
		}
	}

	for n := 0; n < maxCollisions; n++ {
		name := stem + ext
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		path := filepath.Join(dir, name)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reserve %s: %w", path, err)
		}
		if err := file.Close(); err != nil {
			_ = os.Remove(path)
			return nil, fmt.Errorf("reserve %s: %w", path, err)
		}
		return &Reservation{path: path}, nil
	}
	return nil, fmt.Errorf("no free file name for %q in %s", stem+ext, dir)
}

// Path returns the reserved final path
func (r *Reservation) Path() string {
	return r.path
}

// Commit renames the finished temporary file onto the reserved name.
// On failure both files are removed.
func (r *Reservation) Commit(tmpPath string) error {
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		r.Abort()
		return fmt.Errorf("move %s into place: %w", filepath.Base(tmpPath), err)
	}
	r.done = true
	return nil
}

// Keep marks the reservation as filled by a writer that targeted the final
// path directly.
func (r *Reservation) Keep() {
	r.done = true
}

// Abort removes the reserved name unless the reservation was committed
func (r *Reservation) Abort() {
	if r.done {
		return
	}
	_ = os.Remove(r.path)
	r.done = true
}

// CreateTemp opens a new hidden temporary file in dir for an in-progress download
func CreateTemp(dir string) (*os.File, error) {
	file, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return nil, fmt.Errorf("create temporary file: %w", err)
	}
	return file, nil
}
