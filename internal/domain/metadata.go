package domain

import "fmt"

// MetadataRecord is a resolved video or playlist. ID is the primary key
// inside a library.
type MetadataRecord struct {
	ID              string             `json:"id"`
	SourceURL       string             `json:"source_url"`
	Title           string             `json:"title"`
	ChannelName     string             `json:"channel_name"`
	ViewCount       string             `json:"view_count"`
	PublishedAt     string             `json:"published_at"`
	Description     string             `json:"description"`
	ThumbnailURL    string             `json:"thumbnail_url"`
	DurationOrLabel string             `json:"duration_or_label"`
	IsCollection    bool               `json:"is_collection"`
	ItemCount       *int               `json:"item_count,omitempty"` // set only for collections
	Formats         []FormatDescriptor `json:"formats"`
}

// Field defaults used when the metadata service omits a value
const (
	DefaultTitle              = "Unknown Title"
	DefaultChannel            = "Unknown Channel"
	DefaultViews              = "N/A"
	DefaultPublishedAt        = "Recently"
	DefaultDescription        = "No description available."
	DefaultCollectionDuration = "Playlist"
	DefaultVideoDuration      = "--:--"
)

// Values of a record built after the metadata service itself failed
const (
	UnavailableTitle       = "Video/Playlist Metadata Unavailable"
	UnavailableChannel     = "YouTube"
	UnavailableViews       = "--"
	UnavailablePublishedAt = "--"
	UnavailableDescription = "Could not fetch details. Please check the link and try again."
)

const (
	thumbnailBase             = "https://img.youtube.com/vi/"
	PlaceholderThumbnail      = "https://picsum.photos/800/450?grayscale"
	PlaceholderThumbnailPlain = "https://picsum.photos/800/450"
)

// MaxResThumbnail is the primary thumbnail for a video id
func MaxResThumbnail(videoID string) string {
	return fmt.Sprintf("%s%s/maxresdefault.jpg", thumbnailBase, videoID)
}

// HQThumbnail is the lower-resolution thumbnail used after a service failure
func HQThumbnail(videoID string) string {
	return fmt.Sprintf("%s%s/hqdefault.jpg", thumbnailBase, videoID)
}

// UnavailableRecord builds the record returned when the metadata service
// could not be reached. Identity, collection flag and formats are still set.
func UnavailableRecord(link Link) MetadataRecord {
	thumb := PlaceholderThumbnailPlain
	if link.VideoID != "" {
		thumb = HQThumbnail(link.VideoID)
	}
	return MetadataRecord{
		ID:              link.RecordID(),
		SourceURL:       link.URL,
		Title:           UnavailableTitle,
		ChannelName:     UnavailableChannel,
		ViewCount:       UnavailableViews,
		PublishedAt:     UnavailablePublishedAt,
		Description:     UnavailableDescription,
		ThumbnailURL:    thumb,
		DurationOrLabel: DefaultVideoDuration,
		IsCollection:    link.IsCollection(),
		Formats:         FormatsFor(link.IsCollection()),
	}
}
