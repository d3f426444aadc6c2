package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/runlog"
	"github.com/jmeerdink/nieuwsbot/internal/store"
)

var statsRecent int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show pipeline statistics",
	Long:  `Display today's publish count, the article cache size, and recent runs.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsRecent, "recent", 5, "Number of recent runs to show")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	st, err := store.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	runs, err := runlog.New(cfg.OutputDir)
	if err != nil {
		return err
	}

	publishedToday, err := runs.CountPublishedToday(time.Now())
	if err != nil {
		return fmt.Errorf("count today's posts: %w", err)
	}

	cachedArticles, err := st.CountArticles(ctx)
	if err != nil {
		return fmt.Errorf("count articles: %w", err)
	}

	fmt.Println("=== Nieuwsbot Statistics ===")
	fmt.Println()
	fmt.Printf("Database:   %s\n", cfg.DatabasePath)
	fmt.Printf("Output dir: %s\n", cfg.OutputDir)
	fmt.Println()
	fmt.Printf("Published today: %d of %d\n", publishedToday, cfg.MaxPostsPerDay)
	fmt.Printf("Cached articles: %d\n", cachedArticles)
	fmt.Println()

	recent, err := runs.Recent(statsRecent)
	if err != nil {
		return fmt.Errorf("read recent runs: %w", err)
	}

	if len(recent) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Println("Recent runs:")
	for _, rec := range recent {
		posted, total := 0, 0
		mode := "live"
		if rec.DryRun {
			mode = "dry"
		}
		if pub := rec.Stages.Publishing; pub != nil {
			posted, total = pub.Posted, pub.Total
			if pub.DryRun {
				mode = "dry"
			}
		}
		fmt.Printf("  %s  %-9s  %s  %d/%d posted", rec.Timestamp, rec.Platform, mode, posted, total)
		if rec.Error != "" {
			fmt.Printf("  error: %s", rec.Error)
		}
		fmt.Println()
	}

	return nil
}
