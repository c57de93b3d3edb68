package app

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/streamfetch-go/internal/domain"
)

const metadataPrompt = `
Find detailed metadata for this YouTube URL: %s

If it is a video, find: Title, Channel Name, Exact View Count, Upload Date, Duration, and a short description.
If it is a playlist, find: Playlist Title, Channel Name, Item count, and description.

Return ONLY a JSON object with these keys:
- title (string)
- channel (string)
- views (string) - e.g. "1.2M views"
- publishedAt (string)
- description (string) - max 200 characters
- duration (string) - e.g. "10:05" or "25 videos"
- itemCount (number) - playlists only

Do not use markdown formatting. Just raw JSON.
`

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// MetadataFetcher resolves a link into a MetadataRecord through a text
// generation service. It never fails: service errors yield the unavailable
// record and unparseable answers yield per-field defaults.
type MetadataFetcher struct {
	generator domain.TextGenerator
	logger    *zap.Logger
}

// NewMetadataFetcher creates a fetcher. A nil generator makes every fetch
// return the unavailable record.
func NewMetadataFetcher(generator domain.TextGenerator, logger *zap.Logger) *MetadataFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataFetcher{
		generator: generator,
		logger:    logger,
	}
}

// Available reports whether a generator is configured
func (f *MetadataFetcher) Available() bool {
	return f.generator != nil
}

// FetchMetadata resolves link
func (f *MetadataFetcher) FetchMetadata(ctx context.Context, link domain.Link) domain.MetadataRecord {
	logger := f.logger.With(zap.String("url", link.URL), zap.String("id", link.RecordID()))

	if f.generator == nil {
		logger.Warn("Metadata service not configured, returning unavailable record")
		return domain.UnavailableRecord(link)
	}

	text, err := f.generator.Generate(ctx, fmt.Sprintf(metadataPrompt, link.URL))
	if err != nil {
		logger.Error("Metadata service call failed", zap.Error(err))
		return domain.UnavailableRecord(link)
	}

	fields := extractFields(text)
	if fields == nil {
		logger.Warn("No structured metadata in response, using defaults", zap.Int("response_length", len(text)))
	}

	record := buildRecord(link, fields)
	logger.Info("Metadata resolved",
		zap.String("title", record.Title),
		zap.Bool("collection", record.IsCollection))
	return record
}

// Fetch is FetchMetadata for callers holding the raw url and both ids
func (f *MetadataFetcher) Fetch(ctx context.Context, url, videoID, playlistID string) domain.MetadataRecord {
	return f.FetchMetadata(ctx, domain.Link{URL: url, VideoID: videoID, PlaylistID: playlistID})
}

// extractFields decodes the first brace-delimited span of text. It returns
// nil when there is none or it is not a JSON object.
func extractFields(text string) map[string]json.RawMessage {
	match := jsonObjectPattern.FindString(text)
	if match == "" {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match), &fields); err != nil {
		return nil
	}
	return fields
}

func buildRecord(link domain.Link, fields map[string]json.RawMessage) domain.MetadataRecord {
	isCollection := link.IsCollection()

	thumb := domain.PlaceholderThumbnail
	if link.VideoID != "" {
		thumb = domain.MaxResThumbnail(link.VideoID)
	}

	fallbackDuration := domain.DefaultVideoDuration
	if isCollection {
		fallbackDuration = domain.DefaultCollectionDuration
	}
	duration := stringField(fields, "duration", fallbackDuration)

	record := domain.MetadataRecord{
		ID:              link.RecordID(),
		SourceURL:       link.URL,
		Title:           stringField(fields, "title", domain.DefaultTitle),
		ChannelName:     stringField(fields, "channel", domain.DefaultChannel),
		ViewCount:       stringField(fields, "views", domain.DefaultViews),
		PublishedAt:     stringField(fields, "publishedAt", domain.DefaultPublishedAt),
		Description:     stringField(fields, "description", domain.DefaultDescription),
		ThumbnailURL:    thumb,
		DurationOrLabel: duration,
		IsCollection:    isCollection,
		Formats:         domain.FormatsFor(isCollection),
	}

	if isCollection {
		count, ok := intField(fields, "itemCount")
		if !ok {
			count, _ = leadingInt(stringField(fields, "duration", ""))
		}
		record.ItemCount = &count
	}

	return record
}

// stringField reads key as text. Numbers and booleans are kept in their JSON
// spelling; missing, null or empty values give fallback.
func stringField(fields map[string]json.RawMessage, key, fallback string) string {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}

	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "", trimmed == "null", trimmed == "false":
		return fallback
	case strings.HasPrefix(trimmed, "{"), strings.HasPrefix(trimmed, "["):
		return fallback
	}
	return trimmed
}

// intField reads key as a non-negative integer, accepting numbers and
// numeric strings
func intField(fields map[string]json.RawMessage, key string) (int, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil && v >= 0 {
			return int(v), true
		}
		if v, err := n.Float64(); err == nil && v >= 0 {
			return int(v), true
		}
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, ok := leadingInt(s); ok && v >= 0 {
			return v, true
		}
	}
	return 0, false
}

// leadingInt parses the integer prefix of s after leading whitespace, so
// "25 videos" gives 25. ok is false when s does not start with a number.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
