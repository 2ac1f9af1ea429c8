package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cyberscribe/internal/core"
	"cyberscribe/internal/fetch"
	"cyberscribe/internal/posts"
	"cyberscribe/internal/store"
	"cyberscribe/internal/writeup"
)

// Pipeline runs the full article flow: resolve an input, generate the
// article, split off the promo text, resolve image markers, and persist.
// The three entry points differ only in how they produce the resolved
// input; everything after that is shared.
type Pipeline struct {
	gen     Generator
	images  ImageResolver
	posts   PostStore
	reports fetch.ReportFetcher
	runs    RunRecorder
	log     *slog.Logger
}

// New creates a pipeline. runs may be nil to disable run history.
func New(gen Generator, images ImageResolver, postStore PostStore, reports fetch.ReportFetcher, runs RunRecorder, log *slog.Logger) *Pipeline {
	return &Pipeline{
		gen:     gen,
		images:  images,
		posts:   postStore,
		reports: reports,
		runs:    runs,
		log:     log,
	}
}

// GenerateFromURL generates a post from a caller-supplied YouTube or
// HackerOne report URL.
func (p *Pipeline) GenerateFromURL(ctx context.Context, rawURL string) (*core.Post, error) {
	started := time.Now().UTC()

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		err := stageErr(StageInput, fmt.Errorf("%w: url is required", ErrInvalidInput))
		p.recordFailure(core.SourceDirect, err, started)
		return nil, err
	}

	in, err := p.resolveDirect(ctx, rawURL)
	if err != nil {
		p.recordFailure(core.SourceDirect, err, started)
		return nil, err
	}

	return p.run(ctx, started, in)
}

func (p *Pipeline) resolveDirect(ctx context.Context, rawURL string) (core.ResolvedInput, error) {
	if reportID, ok := fetch.ExtractReportID(rawURL); ok {
		p.log.Info("Fetching HackerOne report", "reportId", reportID)

		report, err := p.reports.FetchReport(ctx, rawURL)
		if err != nil {
			return core.ResolvedInput{}, stageErr(StageReport, err)
		}

		return core.ResolvedInput{
			Kind:       core.SourceDirect,
			Title:      report.Title,
			Author:     "HackerOne Report",
			SourceText: report.Body,
			Meta: core.PostMeta{
				Title:        report.Title,
				Author:       "HackerOne Report",
				SourceID:     reportID,
				SourceURL:    rawURL,
				ThumbnailURL: "https://hackerone.com/assets/logo.png",
			},
		}, nil
	}

	videoID, ok := fetch.ExtractVideoID(rawURL)
	if !ok {
		return core.ResolvedInput{}, stageErr(StageInput, fmt.Errorf("%w: not a YouTube or HackerOne report URL", ErrInvalidInput))
	}

	meta := fetch.FetchVideoMeta(ctx, videoID)
	videoURL := fetch.WatchURL(videoID)

	return core.ResolvedInput{
		Kind:     core.SourceDirect,
		Title:    meta.Title,
		Author:   meta.Author,
		VideoURI: videoURL,
		Meta: core.PostMeta{
			Title:        meta.Title,
			Author:       meta.Author,
			SourceID:     videoID,
			SourceURL:    videoURL,
			ThumbnailURL: meta.ThumbnailURL,
		},
	}, nil
}

// FindAndGenerate asks the discovery model to pick a recent video (avoiding
// already-covered titles), then generates a post from it.
func (p *Pipeline) FindAndGenerate(ctx context.Context) (*core.Post, error) {
	started := time.Now().UTC()

	avoid := p.posts.Titles()
	p.log.Info("Searching for a trending video", "avoidCount", len(avoid))

	raw, err := p.gen.Discover(ctx, writeup.BuildFindVideoPrompt(avoid))
	if err != nil {
		err = stageErr(StageDiscovery, err)
		p.recordFailure(core.SourceFound, err, started)
		return nil, err
	}

	videoURL, ok := writeup.ExtractVideoURL(raw)
	if !ok {
		err = stageErr(StageDiscovery, fmt.Errorf("%w: no YouTube URL in response", ErrExtraction))
		p.recordFailure(core.SourceFound, err, started)
		return nil, err
	}

	videoID, ok := fetch.ExtractVideoID(videoURL)
	if !ok {
		err = stageErr(StageDiscovery, fmt.Errorf("%w: unparseable video URL %q", ErrExtraction, videoURL))
		p.recordFailure(core.SourceFound, err, started)
		return nil, err
	}

	meta := fetch.FetchVideoMeta(ctx, videoID)
	watchURL := fetch.WatchURL(videoID)
	p.log.Info("Found video", "title", meta.Title, "url", watchURL)

	return p.run(ctx, started, core.ResolvedInput{
		Kind:     core.SourceFound,
		Title:    meta.Title,
		Author:   meta.Author,
		VideoURI: watchURL,
		Meta: core.PostMeta{
			Title:        meta.Title,
			Author:       meta.Author,
			SourceID:     videoID,
			SourceURL:    watchURL,
			ThumbnailURL: meta.ThumbnailURL,
		},
	})
}

// ResearchAndGenerate asks the discovery model to research a trending topic
// (avoiding already-covered titles), then generates a post from the research.
func (p *Pipeline) ResearchAndGenerate(ctx context.Context) (*core.Post, error) {
	started := time.Now().UTC()

	avoid := p.posts.Titles()
	p.log.Info("Researching trending topics", "avoidCount", len(avoid))

	research, err := p.gen.Discover(ctx, writeup.BuildResearchPrompt(avoid))
	if err != nil {
		err = stageErr(StageDiscovery, err)
		p.recordFailure(core.SourceResearched, err, started)
		return nil, err
	}

	topic := writeup.ExtractTopic(research)
	p.log.Info("Research topic selected", "topic", topic)

	return p.run(ctx, started, core.ResolvedInput{
		Kind:       core.SourceResearched,
		Title:      topic,
		Author:     "Research (Multi-Source)",
		SourceText: research,
		Meta: core.PostMeta{
			Title:  topic,
			Author: "Research (Multi-Source)",
		},
	})
}

func (p *Pipeline) run(ctx context.Context, started time.Time, in core.ResolvedInput) (*core.Post, error) {
	p.log.Info("Generating article", "title", in.Title, "kind", string(in.Kind))

	raw, err := p.gen.GenerateArticle(ctx, in.VideoURI, p.promptFor(in))
	if err != nil {
		err = stageErr(StageGenerate, err)
		p.recordFailure(in.Kind, err, started)
		return nil, err
	}

	body, promo := writeup.Split(raw)
	if in.Kind == core.SourceResearched {
		body = writeup.CleanArtifacts(body)
	}

	slug := posts.NewSlug(in.Title)
	body, stats := p.images.Resolve(ctx, body, slug)

	post := core.Post{
		Slug:         slug,
		HTML:         body,
		LinkedInPost: promo,
		Meta:         in.Meta,
		CreatedAt:    time.Now().UTC(),
	}

	// A failed write is a warning: the caller still gets the generated
	// content even if it never reached disk.
	if err := p.posts.Save(post); err != nil {
		p.log.Warn("Could not persist post", "slug", slug, "error", err)
	}

	p.recordRun(store.Run{
		Slug:            slug,
		Strategy:        string(in.Kind),
		Status:          store.StatusCompleted,
		ImagesRequested: stats.Markers,
		ImagesGenerated: stats.Generated,
		StartedAt:       started,
		CompletedAt:     time.Now().UTC(),
	})

	p.log.Info("Post generated", "slug", slug, "images", stats.Generated)

	return &post, nil
}

func (p *Pipeline) promptFor(in core.ResolvedInput) string {
	switch {
	case in.Kind == core.SourceResearched:
		return writeup.BuildResearchArticlePrompt(in.SourceText)
	case in.SourceText != "":
		return writeup.BuildReportPrompt(in.Title, in.SourceText)
	default:
		return writeup.BuildVideoPrompt(in.Title, in.Author)
	}
}

func (p *Pipeline) recordRun(run store.Run) {
	if p.runs == nil {
		return
	}
	if err := p.runs.Record(run); err != nil {
		p.log.Warn("Could not record run", "error", err)
	}
}

// recordFailure records an aborted run. The stage tag and the underlying
// cause are pulled out of the stage-tagged error so every abort path
// leaves a row, not just generation failures.
func (p *Pipeline) recordFailure(kind core.SourceKind, err error, started time.Time) {
	run := store.Run{
		Strategy:    string(kind),
		Status:      store.StatusFailed,
		Error:       err.Error(),
		StartedAt:   started,
		CompletedAt: time.Now().UTC(),
	}

	var tagged *Error
	if errors.As(err, &tagged) {
		run.Stage = tagged.Stage
		run.Error = tagged.Err.Error()
	}

	p.recordRun(run)
}
