package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/post"
)

var (
	runDryRun        bool
	runNoDryRun      bool
	runMaxPosts      int
	runOutputDir     string
	runIntervalHours float64
	runPlatform      string
	runUseExisting   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once",
	Long: `Fetch articles, generate posts, and publish them in one pass.

The pipeline runs in dry-run mode unless --no-dry-run is given, so by
default nothing is posted and no publishing credentials are needed.

Examples:
  nieuwsbot run                             # Preview without posting
  nieuwsbot run --no-dry-run                # Actually post
  nieuwsbot run --no-dry-run --max-posts 2  # Post at most 2
  nieuwsbot run --platform instagram        # Preview the Instagram rendering`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", true, "Preview without publishing")
	runCmd.Flags().BoolVar(&runNoDryRun, "no-dry-run", false, "Actually publish instead of previewing")
	runCmd.Flags().IntVar(&runMaxPosts, "max-posts", 0, "Maximum posts to generate this run")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "", "Directory for run records")
	runCmd.Flags().Float64Var(&runIntervalHours, "interval-hours", 0, "Hours to wait between consecutive posts")
	runCmd.Flags().StringVar(&runPlatform, "platform", "", "Target platform (twitter or instagram)")
	runCmd.Flags().BoolVar(&runUseExisting, "use-existing-today", false, "Reuse today's cached articles instead of fetching")
	runCmd.MarkFlagsMutuallyExclusive("dry-run", "no-dry-run")
	rootCmd.AddCommand(runCmd)
}

// runRun always exits zero: failures land in the run record so that a
// cron wrapper never flaps on transient feed or API trouble.
func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return nil
	}
	applyRunFlags(cfg)

	p, st, err := buildPipeline(ctx, cfg)
	if err != nil {
		slog.Error("pipeline setup failed", "error", err)
		return nil
	}
	defer st.Close()

	rec := p.Run(ctx)

	fmt.Println()
	fmt.Println("=== Run Summary ===")
	fmt.Printf("Run ID:    %s\n", rec.RunID)
	fmt.Printf("Platform:  %s\n", rec.Platform)
	fmt.Printf("Dry run:   %t\n", rec.DryRun)
	if rec.Stages.Scraping != nil {
		fmt.Printf("Articles:  %d\n", rec.Stages.Scraping.Count)
	}
	if rec.Stages.AIProcessing != nil {
		fmt.Printf("Posts:     %d\n", rec.Stages.AIProcessing.Count)
	}
	if pub := rec.Stages.Publishing; pub != nil {
		fmt.Printf("Published: %d of %d\n", pub.Posted, pub.Total)
		if pub.Error != "" {
			fmt.Printf("Error:     %s\n", pub.Error)
		}
		for _, outcome := range pub.Results {
			if outcome.URL != "" {
				fmt.Printf("  %s  %s\n", outcome.Status, outcome.URL)
			} else {
				fmt.Printf("  %s  %s\n", outcome.Status, outcome.OriginalTitle)
			}
		}
	}
	if rec.Error != "" {
		fmt.Printf("Error:     %s\n", rec.Error)
	}

	return nil
}

func applyRunFlags(cfg *config.Config) {
	cfg.DryRun = runDryRun && !runNoDryRun
	cfg.UseExistingToday = runUseExisting

	if runMaxPosts > 0 {
		cfg.MaxPosts = runMaxPosts
	}
	if runOutputDir != "" {
		cfg.OutputDir = runOutputDir
	}
	if runIntervalHours > 0 {
		cfg.PublishInterval = time.Duration(runIntervalHours * float64(time.Hour))
	}
	if runPlatform != "" {
		cfg.Platform = post.Platform(runPlatform)
	}
}
