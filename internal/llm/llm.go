package llm

import (
	"context"
	"fmt"

	"cyberscribe/internal/config"
	"cyberscribe/internal/core"

	"google.golang.org/genai"
)

const (
	// DefaultArticleModel writes long-form article output.
	DefaultArticleModel = "gemini-2.5-pro"
	// DefaultDiscoveryModel runs search-grounded discovery calls.
	DefaultDiscoveryModel = "gemini-2.5-flash"
	// DefaultImageModel renders article illustrations.
	DefaultImageModel = "gemini-2.5-flash-image"
)

// Client wraps the Gemini SDK for the three call shapes the pipeline needs:
// article generation (optionally with a video document part), search-grounded
// discovery, and image generation.
type Client struct {
	gClient        *genai.Client
	articleModel   string
	discoveryModel string
	imageModel     string
}

// NewClient creates a new LLM client from the Gemini configuration.
func NewClient(ctx context.Context, cfg config.Gemini) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &Client{
		gClient:        gClient,
		articleModel:   cfg.ArticleModel,
		discoveryModel: cfg.DiscoveryModel,
		imageModel:     cfg.ImageModel,
	}
	if c.articleModel == "" {
		c.articleModel = DefaultArticleModel
	}
	if c.discoveryModel == "" {
		c.discoveryModel = DefaultDiscoveryModel
	}
	if c.imageModel == "" {
		c.imageModel = DefaultImageModel
	}

	return c, nil
}

// GenerateArticle submits the prompt to the article model and returns the
// raw response text. When videoURI is non-empty the video is attached as a
// document part so the model can watch it alongside the instructions.
// An empty response is an error: the caller aborts rather than persisting
// a blank article.
func (c *Client) GenerateArticle(ctx context.Context, videoURI, prompt string) (string, error) {
	parts := []*genai.Part{}
	if videoURI != "" {
		parts = append(parts, &genai.Part{
			FileData: &genai.FileData{
				MIMEType: "video/mp4",
				FileURI:  videoURI,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: prompt})

	contents := []*genai.Content{{Parts: parts, Role: "user"}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.articleModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate article: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.articleModel)
	}

	return text, nil
}

// Discover submits the prompt to the discovery model with Google Search
// grounding enabled and returns the raw response text.
func (c *Client) Discover(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.discoveryModel, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to run discovery call: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.discoveryModel)
	}

	return text, nil
}

// GenerateImage asks the image model for a single illustration and returns
// the raw image bytes. A successful call that carries no image data returns
// core.ErrNoImage so callers can distinguish it from transport failures.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.imageModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, core.ErrNoImage
}

// ListModels returns the names of the models available to this API key.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for model, err := range c.gClient.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list models: %w", err)
		}
		names = append(names, model.Name)
	}
	return names, nil
}
