package core

import (
	"errors"
	"time"
)

// ErrNoImage indicates that the image model responded successfully but
// produced no image data. Callers treat this as a normal outcome, distinct
// from a transport or auth failure.
var ErrNoImage = errors.New("no image produced")

// SourceKind tags how the pipeline input was obtained.
type SourceKind string

const (
	// SourceDirect is a caller-supplied URL (YouTube video or HackerOne report).
	SourceDirect SourceKind = "direct"
	// SourceFound is a video discovered by a search-augmented model call.
	SourceFound SourceKind = "found"
	// SourceResearched is a topic researched and summarized by the model.
	SourceResearched SourceKind = "researched"
)

// PostMeta describes the source a post was generated from.
type PostMeta struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	SourceID     string `json:"sourceId,omitempty"`
	SourceURL    string `json:"sourceUrl,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Post is the unit of persistence: one generated article plus its
// promotional companion text. Slug is assigned once at creation and names
// both the JSON record and the post's image directory.
type Post struct {
	Slug         string    `json:"slug,omitempty"`
	HTML         string    `json:"html"`
	LinkedInPost string    `json:"linkedinPost"`
	Meta         PostMeta  `json:"meta"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PostSummary is the listing projection of a Post.
type PostSummary struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
}

// ResolvedInput is the common intermediate every entry strategy produces
// before the shared generate/split/image/persist pipeline runs.
//
// Exactly one of VideoURI or SourceText is normally set: video modes pass
// the video as a document reference to the model, while report and research
// modes inline their source text into the prompt.
type ResolvedInput struct {
	Kind       SourceKind
	Title      string
	Author     string
	SourceText string
	VideoURI   string
	Meta       PostMeta
}
