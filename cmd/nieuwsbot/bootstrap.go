package main

import (
	"context"
	"fmt"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/feed"
	"github.com/jmeerdink/nieuwsbot/internal/generator"
	"github.com/jmeerdink/nieuwsbot/internal/pipeline"
	"github.com/jmeerdink/nieuwsbot/internal/post"
	"github.com/jmeerdink/nieuwsbot/internal/publisher"
	"github.com/jmeerdink/nieuwsbot/internal/runlog"
	"github.com/jmeerdink/nieuwsbot/internal/store"
)

// buildPipeline wires the full pipeline from config. The returned store
// must be closed by the caller.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, *store.Store, error) {
	st, err := store.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	runs, err := runlog.New(cfg.OutputDir)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	agg := feed.NewAggregator(feed.AggregatorConfig{
		Store:   st,
		Sources: feed.DefaultSources(),
	})

	gen := generator.New(generator.Config{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.ClaudeModel,
	})

	p := pipeline.New(pipeline.Config{
		Cfg:       cfg,
		Source:    agg,
		Generator: gen,
		Publisher: buildPublisher(cfg),
		RunLog:    runs,
	})

	return p, st, nil
}

// buildPublisher selects the publisher for the configured platform.
func buildPublisher(cfg *config.Config) publisher.Publisher {
	switch cfg.Platform {
	case post.PlatformInstagram:
		return publisher.NewInstagramPublisher(publisher.InstagramConfig{
			AccessToken: cfg.InstagramAccessToken,
			AccountID:   cfg.InstagramAccountID,
		})
	default:
		return publisher.NewTwitterPublisher(publisher.TwitterConfig{
			APIKey:       cfg.TwitterAPIKey,
			APISecret:    cfg.TwitterAPISecret,
			AccessToken:  cfg.TwitterAccessToken,
			AccessSecret: cfg.TwitterAccessTokenSecret,
		})
	}
}
