package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"cyberscribe/internal/core"
)

// NewGenerateCmd creates the one-shot generation command
func NewGenerateCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "generate [url]",
		Short: "Generate a post from the command line",
		Long: `Generate a single post without starting the server.

With a URL argument the post is generated from that YouTube video or
HackerOne report. With --strategy find or --strategy research the source
is discovered autonomously and no URL is given.

Examples:
  cyberscribe generate https://www.youtube.com/watch?v=dQw4w9WgXcQ
  cyberscribe generate https://hackerone.com/reports/123456
  cyberscribe generate --strategy research`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			var url string
			if len(args) > 0 {
				url = args[0]
			}
			return runGenerate(cmd.Context(), configFile, strategy, url)
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "direct", "generation strategy: direct, find, research")
	return cmd
}

func runGenerate(ctx context.Context, configFile, strategy, url string) error {
	d, err := buildDeps(ctx, configFile)
	if err != nil {
		return err
	}
	defer d.close()

	var post *core.Post
	switch strategy {
	case "direct":
		if url == "" {
			return fmt.Errorf("a URL is required with --strategy direct")
		}
		post, err = d.pipe.GenerateFromURL(ctx, url)
	case "find":
		post, err = d.pipe.FindAndGenerate(ctx)
	case "research":
		post, err = d.pipe.ResearchAndGenerate(ctx)
	default:
		return fmt.Errorf("unknown strategy: %s (supported: direct, find, research)", strategy)
	}
	if err != nil {
		return err
	}

	fmt.Printf("✅ Post generated: %s\n", post.Slug)
	fmt.Printf("   Title:  %s\n", post.Meta.Title)
	fmt.Printf("   Record: %s\n", filepath.Join(d.posts.Dir(), post.Slug+".json"))
	return nil
}
