package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// FFmpeg constants for MP3 conversion
const (
	// Audio codec settings
	AudioCodec   = "libmp3lame"
	AudioBitrate = "192k"
	OutputFormat = "mp3"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="

	stderrTailLines = 5

	// stderrLineLimit bounds one buffered stderr line; longer lines are skipped
	stderrLineLimit = 64 * 1024
)

// ErrFFmpegNotFound is returned when the ffmpeg executable is not on PATH
var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

// progressKeyRe matches the key=value lines written by -progress
var progressKeyRe = regexp.MustCompile(`^[a-z0-9_]+=`)

// FFmpeg converts audio by running the ffmpeg and ffprobe executables
type FFmpeg struct {
	lookPath func(string) (string, error)
	logger   *log.Logger
}

// NewFFmpeg creates an ffmpeg based converter
func NewFFmpeg(logger *log.Logger) *FFmpeg {
	if logger == nil {
		logger = log.Default()
	}
	return &FFmpeg{lookPath: exec.LookPath, logger: logger}
}

// Available reports whether ffmpeg can be found
func (c *FFmpeg) Available() bool {
	_, err := c.lookPath(FFmpegCommand)
	return err == nil
}

// Convert transcodes inputPath into an MP3 at outputPath, overwriting it
func (c *FFmpeg) Convert(ctx context.Context, inputPath, outputPath string, onProgress func(float64)) error {
	ffmpeg, err := c.lookPath(FFmpegCommand)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}

	// Duration only drives progress reporting
	duration, err := c.mediaDuration(ctx, inputPath)
	if err != nil {
		c.logger.Printf("Failed to get audio duration for %s: %v", inputPath, err)
	}

	cmd := exec.CommandContext(ctx, ffmpeg, BuildFFmpegArgs(inputPath, outputPath)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	tail := monitorProgress(stderr, duration, onProgress)

	if err := cmd.Wait(); err != nil {
		if len(tail) > 0 {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.Join(tail, "; "))
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",              // Drop any video or cover art stream
		"-c:a", AudioCodec, // Audio codec
		"-b:a", AudioBitrate, // Audio bitrate
		"-f", OutputFormat, // Container, the temp name has no usable extension
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// mediaDuration gets the duration of a media file in seconds using ffprobe
func (c *FFmpeg) mediaDuration(ctx context.Context, filePath string) (float64, error) {
	ffprobe, err := c.lookPath(FFprobeCommand)
	if err != nil {
		return 0, fmt.Errorf("ffprobe not found: %w", err)
	}
	cmd := exec.CommandContext(ctx, ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress reads ffmpeg's stderr until EOF, reporting progress from
// out_time_us lines. It returns the last log lines for error messages.
// The pipe is always drained so ffmpeg never blocks on a full stderr.
func monitorProgress(stderr io.Reader, totalDuration float64, onProgress func(float64)) []string {
	reader := bufio.NewReaderSize(stderr, stderrLineLimit)
	var tail []string

	handle := func(line string) {
		if !progressKeyRe.MatchString(line) {
			tail = append(tail, line)
			if len(tail) > stderrTailLines {
				tail = tail[1:]
			}
			return
		}

		// Parse progress line: out_time_us=123456
		if !strings.HasPrefix(line, ProgressTimePrefix) || totalDuration <= 0 || onProgress == nil {
			return
		}
		timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
		if err != nil || timeMicroseconds < 0 {
			return
		}
		progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
		if progress > 1.0 {
			progress = 1.0
		}
		onProgress(progress)
	}

	for {
		raw, err := reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = reader.ReadSlice('\n')
			}
			raw = nil
		}
		if line := strings.TrimSpace(string(raw)); line != "" {
			handle(line)
		}
		if err != nil {
			break
		}
	}
	_, _ = io.Copy(io.Discard, reader)
	return tail
}
