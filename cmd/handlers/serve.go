package handlers

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cyberscribe/internal/logger"
	"cyberscribe/internal/server"
)

// NewServeCmd creates the HTTP server command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the CyberScribe HTTP server",
		Long: `Start the HTTP server that exposes the generation API and serves
stored posts and their images.

Public endpoints list and read posts; generation endpoints require an
admin login (POST /api/login).

Example:
  cyberscribe serve
  PORT=8080 cyberscribe serve --config ./cyberscribe.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			return runServe(cmd.Context(), configFile)
		},
	}
	return cmd
}

func runServe(ctx context.Context, configFile string) error {
	d, err := buildDeps(ctx, configFile)
	if err != nil {
		return err
	}
	defer d.close()

	log := logger.Get()
	srv := server.New(d.cfg, d.pipe, d.posts, d.runLog, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
		return srv.Shutdown(context.Background())
	}
}
