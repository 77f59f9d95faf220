package model

import (
	"fmt"
	"strings"
)

// Mode is the requested output kind of a download
type Mode string

const (
	// ModeVideo downloads a muxed stream carrying both video and audio
	ModeVideo Mode = "video"

	// ModeAudioOnly downloads only the audio track
	ModeAudioOnly Mode = "audio"

	// ModeVideoNoAudio downloads the video track without audio
	ModeVideoNoAudio Mode = "video-only"
)

// Modes lists every supported mode in UI order
var Modes = []Mode{ModeVideo, ModeAudioOnly, ModeVideoNoAudio}

var modeAliases = map[string]Mode{
	"video":          ModeVideo,
	"full":           ModeVideo,
	"audio":          ModeAudioOnly,
	"audio-only":     ModeAudioOnly,
	"audio_only":     ModeAudioOnly,
	"video-only":     ModeVideoNoAudio,
	"video_only":     ModeVideoNoAudio,
	"video-no-audio": ModeVideoNoAudio,
	"mute":           ModeVideoNoAudio,
}

// ParseMode converts a user supplied name into a Mode
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (expected video, audio or video-only)", s)
}

// String returns the string representation of Mode
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the supported modes
func (m Mode) Valid() bool {
	switch m {
	case ModeVideo, ModeAudioOnly, ModeVideoNoAudio:
		return true
	}
	return false
}

// IsAudioOnly returns true when no video track is wanted
func (m Mode) IsAudioOnly() bool {
	return m == ModeAudioOnly
}

// HasVideo returns true when the output carries a video track
func (m Mode) HasVideo() bool {
	return m == ModeVideo || m == ModeVideoNoAudio
}

// HasAudio returns true when the output carries an audio track
func (m Mode) HasAudio() bool {
	return m == ModeVideo || m == ModeAudioOnly
}
