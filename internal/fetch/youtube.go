package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

// VideoMeta holds the descriptive metadata for a video source.
type VideoMeta struct {
	Title        string
	Author       string
	ThumbnailURL string
}

// youtubeIDPatterns cover the URL shapes users paste: watch, short link,
// embed, shorts, and the legacy /v/ form. Video IDs are always 11 chars.
var youtubeIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
}

// ExtractVideoID extracts the video ID from the supported YouTube URL
// formats. The second return is false when the URL identifies no video.
func ExtractVideoID(url string) (string, bool) {
	for _, pattern := range youtubeIDPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) > 1 {
			return m[1], true
		}
	}
	return "", false
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

var metaHTTPClient = &http.Client{Timeout: 15 * time.Second}

// FetchVideoMeta retrieves title/author/thumbnail via YouTube's oEmbed
// endpoint (no API key required). It never fails: any error falls back to
// generic metadata with a lower-resolution thumbnail.
func FetchVideoMeta(ctx context.Context, videoID string) VideoMeta {
	fallback := VideoMeta{
		Title:        "YouTube Video",
		Author:       "Unknown",
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID),
	}

	oembedURL := fmt.Sprintf("https://www.youtube.com/oembed?url=%s&format=json", WatchURL(videoID))
	req, err := http.NewRequestWithContext(ctx, "GET", oembedURL, nil)
	if err != nil {
		return fallback
	}

	resp, err := metaHTTPClient.Do(req)
	if err != nil {
		return fallback
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fallback
	}

	var oembed struct {
		Title      string `json:"title"`
		AuthorName string `json:"author_name"`
	}
	if err := json.Unmarshal(body, &oembed); err != nil {
		return fallback
	}

	meta := VideoMeta{
		Title:        oembed.Title,
		Author:       oembed.AuthorName,
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
	}
	if meta.Title == "" {
		meta.Title = "Untitled Video"
	}
	if meta.Author == "" {
		meta.Author = "Unknown"
	}

	return meta
}
