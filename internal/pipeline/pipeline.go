// Package pipeline orchestrates one full run: fetch articles, generate
// posts, and publish them subject to the daily cap, the posting window,
// and the inter-post throttle.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/feed"
	"github.com/jmeerdink/nieuwsbot/internal/notify"
	"github.com/jmeerdink/nieuwsbot/internal/post"
	"github.com/jmeerdink/nieuwsbot/internal/publisher"
	"github.com/jmeerdink/nieuwsbot/internal/runlog"
)

// ArticleSource supplies the articles for a run.
type ArticleSource interface {
	FetchAll(ctx context.Context, maxPerSource int) []feed.Article
	CachedToday(ctx context.Context, today time.Time) ([]feed.Article, error)
}

// PostGenerator turns articles into posts.
type PostGenerator interface {
	GenerateBatch(ctx context.Context, articles []feed.Article, maxPosts int, platform post.Platform) []post.Post
}

// Pipeline drives the fetch, generate, and publish stages.
type Pipeline struct {
	cfg      *config.Config
	source   ArticleSource
	gen      PostGenerator
	pub      publisher.Publisher
	runs     *runlog.Log
	notifier notify.Notifier

	now  func() time.Time
	wait func(ctx context.Context, index, total int, interval time.Duration) error
}

// Config holds the pipeline dependencies.
type Config struct {
	Cfg       *config.Config
	Source    ArticleSource
	Generator PostGenerator
	Publisher publisher.Publisher
	RunLog    *runlog.Log
	Notifier  notify.Notifier
}

// New creates a new pipeline.
func New(cfg Config) *Pipeline {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier()
	}

	return &Pipeline{
		cfg:      cfg.Cfg,
		source:   cfg.Source,
		gen:      cfg.Generator,
		pub:      cfg.Publisher,
		runs:     cfg.RunLog,
		notifier: notifier,
		now:      time.Now,
		wait:     waitBetween,
	}
}

// Run executes one full pipeline cycle and persists its record. Errors
// are folded into the record; Run never aborts the process.
func (p *Pipeline) Run(ctx context.Context) *runlog.Record {
	now := p.now()
	rec := &runlog.Record{
		RunID:     uuid.NewString(),
		Timestamp: now.Format(runlog.TimestampLayout),
		DryRun:    p.cfg.DryRun,
		Platform:  string(p.cfg.Platform),
	}

	slog.Info("starting pipeline run",
		"run_id", rec.RunID,
		"dry_run", p.cfg.DryRun,
		"platform", p.cfg.Platform,
	)

	// Stage 1: articles
	articles := p.loadArticles(ctx, now)
	rec.Stages.Scraping = &runlog.StageSummary{Success: true, Count: len(articles)}

	if len(articles) == 0 {
		slog.Warn("no articles found")
		p.persist(rec)
		return rec
	}

	// Stage 2: generation
	if err := p.cfg.ValidateForGeneration(); err != nil {
		slog.Error("generation skipped", "error", err)
		rec.Error = err.Error()
		p.persist(rec)
		return rec
	}

	posts := p.gen.GenerateBatch(ctx, articles, p.cfg.MaxPosts, p.cfg.Platform)
	rec.Stages.AIProcessing = &runlog.StageSummary{Success: true, Count: len(posts)}

	if len(posts) > 0 {
		slog.Info("sample post", "content", post.Render(posts[0]))
	}

	// Stage 3: publishing
	stage := &runlog.PublishingStage{DryRun: p.cfg.DryRun, Total: len(posts)}
	rec.Stages.Publishing = stage

	if !p.cfg.DryRun {
		if err := p.cfg.ValidateForPublishing(p.cfg.Platform); err != nil {
			confErr := &publisher.ConfigurationError{Platform: string(p.cfg.Platform)}
			slog.Error("credentials missing, publishing degraded to no-op", "error", err)
			stage.Error = confErr.Error()
			stage.DryRun = true
			p.persist(rec)
			return rec
		}
	}

	batch := p.PublishBatch(ctx, posts)
	stage.Success = !batch.LimitReached
	stage.DryRun = batch.DryRun
	stage.Results = batch.Outcomes
	stage.Posted = batch.Posted
	if batch.LimitReached {
		stage.Error = publisher.ErrDailyLimitReached.Error()
	}

	p.persist(rec)

	p.notify(ctx, "run complete", fmt.Sprintf(
		"published %d of %d posts (dry run: %t)", batch.Posted, batch.Total, batch.DryRun))

	slog.Info("pipeline run complete",
		"run_id", rec.RunID,
		"posted", batch.Posted,
		"total", batch.Total,
		"dry_run", batch.DryRun,
	)
	return rec
}

// loadArticles reuses today's cached articles when configured to, and
// fetches fresh ones otherwise.
func (p *Pipeline) loadArticles(ctx context.Context, now time.Time) []feed.Article {
	if p.cfg.UseExistingToday {
		cached, err := p.source.CachedToday(ctx, now)
		if err != nil {
			slog.Warn("could not read cached articles", "error", err)
		} else if len(cached) > 0 {
			slog.Info("reusing today's cached articles", "count", len(cached))
			return cached
		}
		slog.Info("no cached articles for today, fetching fresh")
	}

	return p.source.FetchAll(ctx, p.cfg.MaxArticlesPerSource)
}

func (p *Pipeline) persist(rec *runlog.Record) {
	if p.runs == nil {
		return
	}
	if _, err := p.runs.Append(*rec); err != nil {
		slog.Error("failed to persist run record", "run_id", rec.RunID, "error", err)
	}
}
