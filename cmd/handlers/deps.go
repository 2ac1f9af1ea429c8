package handlers

import (
	"context"
	"fmt"

	"cyberscribe/internal/config"
	"cyberscribe/internal/fetch"
	"cyberscribe/internal/llm"
	"cyberscribe/internal/logger"
	"cyberscribe/internal/pipeline"
	"cyberscribe/internal/posts"
	"cyberscribe/internal/store"
	"cyberscribe/internal/visual"
)

// deps is the wired application: every command that generates content
// builds the same graph and differs only in what it drives it with.
type deps struct {
	cfg    *config.Config
	llm    *llm.Client
	posts  *posts.Store
	runLog *store.RunLog
	pipe   *pipeline.Pipeline
}

func buildDeps(ctx context.Context, configFile string) (*deps, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.Get()

	llmClient, err := llm.NewClient(ctx, cfg.AI.Gemini)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	postStore, err := posts.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize post store: %w", err)
	}

	runLog, err := store.NewRunLog(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize run log: %w", err)
	}

	var imageGen visual.Generator
	switch cfg.Visual.Provider {
	case "openai":
		imageGen = visual.NewOpenAIClient(cfg.AI.OpenAI.APIKey, cfg.AI.OpenAI.Model, cfg.AI.OpenAI.BaseURL)
	default:
		imageGen = llmClient
	}

	images := visual.NewPipeline(imageGen, cfg.Storage.DataDir, log)
	pipe := pipeline.New(llmClient, images, postStore, fetch.NewHTTPReportFetcher(), runLog, log)

	return &deps{
		cfg:    cfg,
		llm:    llmClient,
		posts:  postStore,
		runLog: runLog,
		pipe:   pipe,
	}, nil
}

func (d *deps) close() {
	if d.runLog != nil {
		_ = d.runLog.Close()
	}
}
