package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/feed"
	"github.com/jmeerdink/nieuwsbot/internal/store"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and cache articles",
	Long: `Fetch current articles from all configured news feeds and store them
in the article cache without generating or publishing anything.`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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

	agg := feed.NewAggregator(feed.AggregatorConfig{
		Store:   st,
		Sources: feed.DefaultSources(),
	})

	articles := agg.FetchAll(ctx, cfg.MaxArticlesPerSource)

	fmt.Printf("Fetched %d articles:\n\n", len(articles))
	for _, article := range articles {
		fmt.Printf("  [%s] %s\n", article.Source, article.Title)
		fmt.Printf("        %s\n", article.URL)
	}

	return nil
}
