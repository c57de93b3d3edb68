package domain

import (
	"errors"
	"strings"
)

// ErrUnknownFormat is returned when a format id is not in the catalog
var ErrUnknownFormat = errors.New("unknown format")

// FormatKind distinguishes video renditions from audio-only ones
type FormatKind string

const (
	KindVideo FormatKind = "video"
	KindAudio FormatKind = "audio"
)

// FormatDescriptor is one downloadable rendition in the mock catalog
type FormatDescriptor struct {
	ID              string     `json:"id"`
	Quality         string     `json:"quality"`
	Container       string     `json:"container"`
	ApproximateSize string     `json:"approximate_size"`
	FrameRate       *int       `json:"frame_rate,omitempty"`
	HasAudioTrack   bool       `json:"has_audio_track"`
	Kind            FormatKind `json:"kind"`
}

// Extension is the lower-cased first word of the container, e.g. "zip" for "ZIP (MP3)"
func (f FormatDescriptor) Extension() string {
	fields := strings.Fields(strings.ToLower(f.Container))
	if len(fields) == 0 {
		return "bin"
	}
	return fields[0]
}

// MimeType derives a MIME type from the kind and extension
func (f FormatDescriptor) MimeType() string {
	return string(f.Kind) + "/" + f.Extension()
}

func fps(n int) *int { return &n }

// FormatsFor returns the fixed, highest-quality-first list of renditions for
// a playlist (isCollection) or a single video. Each call builds a fresh slice.
func FormatsFor(isCollection bool) []FormatDescriptor {
	if isCollection {
		return []FormatDescriptor{
			{ID: "pl-zip-best", Quality: "Best Available", Container: "ZIP", ApproximateSize: "~250 MB", HasAudioTrack: true, Kind: KindVideo},
			{ID: "pl-mp3-all", Quality: "Audio Only", Container: "ZIP (MP3)", ApproximateSize: "~45 MB", HasAudioTrack: true, Kind: KindAudio},
		}
	}

	return []FormatDescriptor{
		{ID: "4k-mp4", Quality: "2160p (4K)", Container: "MP4", ApproximateSize: "450.2 MB", FrameRate: fps(60), HasAudioTrack: true, Kind: KindVideo},
		{ID: "1440p-mp4", Quality: "1440p (2K)", Container: "MP4", ApproximateSize: "215.8 MB", FrameRate: fps(60), HasAudioTrack: true, Kind: KindVideo},
		{ID: "1080p-mp4", Quality: "1080p (HD)", Container: "MP4", ApproximateSize: "124.5 MB", FrameRate: fps(60), HasAudioTrack: true, Kind: KindVideo},
		{ID: "720p-mp4", Quality: "720p", Container: "MP4", ApproximateSize: "65.2 MB", FrameRate: fps(30), HasAudioTrack: true, Kind: KindVideo},
		{ID: "480p-mp4", Quality: "480p", Container: "MP4", ApproximateSize: "32.1 MB", FrameRate: fps(30), HasAudioTrack: true, Kind: KindVideo},
		{ID: "360p-mp4", Quality: "360p", Container: "MP4", ApproximateSize: "18.5 MB", FrameRate: fps(30), HasAudioTrack: true, Kind: KindVideo},
		{ID: "audio-mp3", Quality: "320kbps", Container: "MP3", ApproximateSize: "8.4 MB", HasAudioTrack: true, Kind: KindAudio},
		{ID: "audio-m4a", Quality: "128kbps", Container: "M4A", ApproximateSize: "3.2 MB", HasAudioTrack: true, Kind: KindAudio},
	}
}

// FindFormat looks a format up by id in the catalog for isCollection
func FindFormat(isCollection bool, id string) (FormatDescriptor, error) {
	for _, f := range FormatsFor(isCollection) {
		if f.ID == id {
			return f, nil
		}
	}
	return FormatDescriptor{}, ErrUnknownFormat
}
