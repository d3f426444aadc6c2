package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/scheduler"
)

var serveDryRun bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot daemon",
	Long: `Run the nieuwsbot daemon that fetches news, generates posts, and
publishes them on a schedule until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveDryRun, "dry-run", false, "Preview every cycle without publishing")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.DryRun = serveDryRun

	if !cfg.DryRun {
		if err := cfg.ValidateForPublishing(cfg.Platform); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
	}
	if err := cfg.ValidateForGeneration(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	p, st, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	slog.Info("starting nieuwsbot daemon",
		"run_interval", cfg.RunInterval,
		"max_posts_per_day", cfg.MaxPostsPerDay,
		"platform", cfg.Platform,
	)

	sched := scheduler.New(scheduler.Config{
		Cfg:       cfg,
		Pipeline:  p,
		Publisher: buildPublisher(cfg),
	})

	// Run scheduler in background
	errCh := make(chan error, 1)
	go func() {
		errCh <- sched.Run(ctx)
	}()

	// Wait for shutdown signal or error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received shutdown signal", "signal", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scheduler error: %w", err)
		}
	}

	slog.Info("shutting down...")
	cancel()

	return nil
}
