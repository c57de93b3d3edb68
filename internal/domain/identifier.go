package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidURL is returned when a link yields neither a video nor a playlist id
var ErrInvalidURL = errors.New("please enter a valid YouTube URL")

// VideoIDLength is the only accepted length of a video identifier
const VideoIDLength = 11

var (
	// Short link, /v/, /u/<name>/, /embed/ and watch?v= shapes. The last
	// occurrence wins because of the greedy prefix.
	videoIDPattern    = regexp.MustCompile(`^.*((youtu.be/)|(v/)|(/u/\w+/)|(embed/)|(watch\?))\??v?=?([^#&?]*).*`)
	playlistIDPattern = regexp.MustCompile(`[?&]list=([^#&?]+)`)
)

// ExtractVideoID returns the video identifier embedded in url, or "" when
// there is none or it is not exactly VideoIDLength characters long.
func ExtractVideoID(url string) string {
	m := videoIDPattern.FindStringSubmatch(url)
	if len(m) < 8 || len(m[7]) != VideoIDLength {
		return ""
	}
	return m[7]
}

// ExtractPlaylistID returns the value of the first list= query parameter in
// url, or "" when absent.
func ExtractPlaylistID(url string) string {
	m := playlistIDPattern.FindStringSubmatch(url)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// Link is a raw URL together with the identifiers found in it
type Link struct {
	URL        string `json:"url"`
	VideoID    string `json:"video_id,omitempty"`
	PlaylistID string `json:"playlist_id,omitempty"`
}

// IsCollection reports whether the link names a playlist
func (l Link) IsCollection() bool {
	return l.PlaylistID != ""
}

// RecordID is the key a record resolved from this link is stored under
func (l Link) RecordID() string {
	switch {
	case l.PlaylistID != "":
		return l.PlaylistID
	case l.VideoID != "":
		return l.VideoID
	default:
		return "unknown"
	}
}

// ParseLink extracts both identifiers from raw and rejects links that carry neither
func ParseLink(raw string) (Link, error) {
	raw = strings.TrimSpace(raw)
	link := Link{
		URL:        raw,
		VideoID:    ExtractVideoID(raw),
		PlaylistID: ExtractPlaylistID(raw),
	}
	if link.VideoID == "" && link.PlaylistID == "" {
		return link, ErrInvalidURL
	}
	return link, nil
}
