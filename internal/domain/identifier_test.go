package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123ABC", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ#comments", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/v/dQw4w9WgXcQ?version=3", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/u/somebody/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/short", ""},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQX", ""},
		{"https://www.youtube.com/embed/abc", ""},
		{"https://youtube.com/playlist?list=PL123ABC", ""},
		{"https://example.com/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractVideoID(tt.url))
		})
	}
}

func TestExtractPlaylistID(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://youtube.com/playlist?list=PL123ABC", "PL123ABC"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLx_y-z&index=2", "PLx_y-z"},
		{"https://www.youtube.com/playlist?list=PL1#top", "PL1"},
		{"https://www.youtube.com/playlist?list=PLa?b", "PLa"},
		{"https://www.youtube.com/playlist?list=", ""},
		{"https://www.youtube.com/playlist?blist=PL1", ""},
		{"https://youtu.be/dQw4w9WgXcQ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractPlaylistID(tt.url))
		})
	}
}

func TestParseLink(t *testing.T) {
	link, err := ParseLink("  https://youtu.be/dQw4w9WgXcQ ")
	require.NoError(t, err)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", link.URL)
	assert.Equal(t, "dQw4w9WgXcQ", link.VideoID)
	assert.Empty(t, link.PlaylistID)
	assert.False(t, link.IsCollection())
	assert.Equal(t, "dQw4w9WgXcQ", link.RecordID())

	link, err = ParseLink("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123ABC")
	require.NoError(t, err)
	assert.True(t, link.IsCollection())
	assert.Equal(t, "PL123ABC", link.RecordID())

	_, err = ParseLink("https://example.com/watch?v=short")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestLink_RecordIDUnknown(t *testing.T) {
	assert.Equal(t, "unknown", Link{URL: "x"}.RecordID())
}
