package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatsFor_Collection(t *testing.T) {
	formats := FormatsFor(true)

	require.Len(t, formats, 2)
	assert.Equal(t, "pl-zip-best", formats[0].ID)
	assert.Equal(t, KindVideo, formats[0].Kind)
	assert.Equal(t, "pl-mp3-all", formats[1].ID)
	assert.Equal(t, KindAudio, formats[1].Kind)
	for _, f := range formats {
		assert.Nil(t, f.FrameRate)
		assert.True(t, f.HasAudioTrack)
	}
}

func TestFormatsFor_SingleVideo(t *testing.T) {
	formats := FormatsFor(false)
	require.Len(t, formats, 8)

	wantTiers := []string{"2160p", "1440p", "1080p", "720p", "480p", "360p"}
	for i, tier := range wantTiers {
		f := formats[i]
		assert.Equal(t, KindVideo, f.Kind, f.ID)
		assert.Contains(t, f.Quality, tier)
		require.NotNil(t, f.FrameRate, f.ID)
		assert.True(t, f.HasAudioTrack)
	}
	for _, f := range formats[6:] {
		assert.Equal(t, KindAudio, f.Kind, f.ID)
		assert.Nil(t, f.FrameRate)
	}

	ids := map[string]bool{}
	for _, f := range formats {
		assert.False(t, ids[f.ID], "duplicate id %s", f.ID)
		ids[f.ID] = true
	}
}

func TestFormatsFor_FreshSlices(t *testing.T) {
	a := FormatsFor(false)
	a[0].Quality = "mutated"
	*a[0].FrameRate = 1

	b := FormatsFor(false)
	assert.Equal(t, "2160p (4K)", b[0].Quality)
	assert.Equal(t, 60, *b[0].FrameRate)
}

func TestFindFormat(t *testing.T) {
	f, err := FindFormat(false, "720p-mp4")
	require.NoError(t, err)
	assert.Equal(t, "720p", f.Quality)

	_, err = FindFormat(true, "720p-mp4")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatDescriptor_ExtensionAndMime(t *testing.T) {
	tests := []struct {
		format   FormatDescriptor
		ext      string
		mimeType string
	}{
		{FormatDescriptor{Container: "MP4", Kind: KindVideo}, "mp4", "video/mp4"},
		{FormatDescriptor{Container: "ZIP (MP3)", Kind: KindAudio}, "zip", "audio/zip"},
		{FormatDescriptor{Container: "M4A", Kind: KindAudio}, "m4a", "audio/m4a"},
		{FormatDescriptor{Container: "", Kind: KindVideo}, "bin", "video/bin"},
	}

	for _, tt := range tests {
		t.Run(tt.format.Container, func(t *testing.T) {
			assert.Equal(t, tt.ext, tt.format.Extension())
			assert.Equal(t, tt.mimeType, tt.format.MimeType())
		})
	}
}
