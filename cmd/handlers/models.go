package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cyberscribe/internal/config"
	"cyberscribe/internal/llm"
)

// NewModelsCmd creates the model listing command
func NewModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the Gemini models available to the configured API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			return runModels(cmd.Context(), configFile)
		},
	}
}

func runModels(ctx context.Context, configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := llm.NewClient(ctx, cfg.AI.Gemini)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	names, err := client.ListModels(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Available models (%d):\n", len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
