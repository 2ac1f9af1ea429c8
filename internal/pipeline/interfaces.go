package pipeline

import (
	"context"

	"cyberscribe/internal/core"
	"cyberscribe/internal/store"
	"cyberscribe/internal/visual"
)

// Generator is the model surface the pipeline depends on: article writing
// (optionally grounded in a video document) and search-augmented discovery.
type Generator interface {
	GenerateArticle(ctx context.Context, videoURI, prompt string) (string, error)
	Discover(ctx context.Context, prompt string) (string, error)
}

// ImageResolver replaces image markers in article HTML with stored images.
type ImageResolver interface {
	Resolve(ctx context.Context, body, slug string) (string, visual.Stats)
}

// PostStore persists and lists generated posts.
type PostStore interface {
	Save(post core.Post) error
	Load(slug string) (*core.Post, error)
	List() []core.PostSummary
	Titles() []string
}

// RunRecorder records run history. May be nil-backed in tests.
type RunRecorder interface {
	Record(run store.Run) error
}
