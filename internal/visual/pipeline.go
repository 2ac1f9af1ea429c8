package visual

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"cyberscribe/internal/core"
)

// markerPattern matches the in-text image placeholders the article prompt
// asks the model to emit. Non-greedy so adjacent markers never merge.
var markerPattern = regexp.MustCompile(`\[IMAGE:\s*(.*?)\]`)

// stylePrefix wraps every marker description before it is sent to the image
// model, keeping all illustrations in one visual register.
const stylePrefix = `Create a fun, hand-drawn DOODLE-STYLE illustration for a cybersecurity blog article. The image should look like a whiteboard sketch or notebook doodle with these characteristics:
- Simple hand-drawn lines and cute stick figures
- White or light background with colorful marker-style elements
- Playful annotations and labels written in a casual handwriting font
- Fun, approachable, and easy to understand
- Whiteboard/notebook sketch aesthetic
- DO NOT include any text that is hard to read

Here is what to illustrate:

`

// Generator produces image bytes for a description prompt. A successful
// call with no image data returns core.ErrNoImage.
type Generator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Stats summarizes one pipeline pass.
type Stats struct {
	Markers   int
	Generated int
	Failed    int
}

// Pipeline resolves [IMAGE: ...] markers in article HTML into embeddable
// <img> references backed by files under the post's image directory.
type Pipeline struct {
	gen     Generator
	dataDir string
	log     *slog.Logger
}

// NewPipeline creates an image pipeline writing under dataDir/<slug>/.
func NewPipeline(gen Generator, dataDir string, log *slog.Logger) *Pipeline {
	return &Pipeline{gen: gen, dataDir: dataDir, log: log}
}

// Resolve scans body left-to-right for markers and replaces each one, in
// sequence order, with an image reference — or removes it when generation
// fails. Marker outcomes are independent: a failure never aborts the pass.
// With zero markers the body is returned unchanged and no directory is
// created. Images are generated strictly sequentially so filenames stay
// deterministic (img-<position>.png, 1-based) and upstream load is bounded.
func (p *Pipeline) Resolve(ctx context.Context, body, slug string) (string, Stats) {
	matches := markerPattern.FindAllStringSubmatch(body, -1)
	stats := Stats{Markers: len(matches)}
	if len(matches) == 0 {
		return body, stats
	}

	imageDir := filepath.Join(p.dataDir, slug)
	if err := os.MkdirAll(imageDir, 0755); err != nil {
		// No directory means no file writes can succeed; every marker is
		// dropped below, which still satisfies the no-literal-markers rule.
		p.log.Warn("Could not create image directory", "dir", imageDir, "error", err)
	}

	p.log.Info("Resolving image markers", "slug", slug, "markers", len(matches))

	for i, match := range matches {
		marker := match[0]
		description := strings.TrimSpace(match[1])
		filename := fmt.Sprintf("img-%d.png", i+1)

		data, err := p.gen.GenerateImage(ctx, stylePrefix+description)
		if err == nil && len(data) == 0 {
			err = core.ErrNoImage
		}
		if err == nil {
			err = os.WriteFile(filepath.Join(imageDir, filename), data, 0644)
		}
		if err == nil {
			imageURL := fmt.Sprintf("/images/%s/%s", slug, filename)
			alt := strings.ReplaceAll(description, `"`, "&quot;")
			tag := fmt.Sprintf(`<p><img src="%s" alt="%s" style="max-width:100%%;"></p>`, imageURL, alt)
			body = strings.Replace(body, marker, tag, 1)
			stats.Generated++
			continue
		}

		if errors.Is(err, core.ErrNoImage) {
			p.log.Warn("No image data in response", "slug", slug, "position", i+1)
		} else {
			p.log.Warn("Image generation failed", "slug", slug, "position", i+1, "error", err)
		}

		// Failed markers must not render literally.
		body = strings.Replace(body, marker, "", 1)
		stats.Failed++
	}

	return body, stats
}
