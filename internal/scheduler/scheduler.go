// Package scheduler runs the pipeline on a fixed interval and tracks
// component health for the serve command.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmeerdink/nieuwsbot/internal/config"
	"github.com/jmeerdink/nieuwsbot/internal/publisher"
	"github.com/jmeerdink/nieuwsbot/internal/runlog"
)

// Runner executes one pipeline cycle.
type Runner interface {
	Run(ctx context.Context) *runlog.Record
}

// Scheduler drives periodic pipeline runs.
type Scheduler struct {
	cfg      *config.Config
	pipeline Runner
	pub      publisher.Publisher
	health   *Health

	lastRun time.Time
}

// Config holds scheduler dependencies.
type Config struct {
	Cfg       *config.Config
	Pipeline  Runner
	Publisher publisher.Publisher
}

// New creates a new scheduler.
func New(cfg Config) *Scheduler {
	return &Scheduler{
		cfg:      cfg.Cfg,
		pipeline: cfg.Pipeline,
		pub:      cfg.Publisher,
		health:   NewHealth(),
	}
}

// Run starts the scheduler main loop. It performs an initial pipeline
// run immediately and then runs on every tick until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("starting scheduler",
		"run_interval", s.cfg.RunInterval,
		"max_posts_per_day", s.cfg.MaxPostsPerDay,
		"dry_run", s.cfg.DryRun,
		"platform", s.cfg.Platform,
	)

	// Validate credentials on startup so misconfiguration surfaces
	// before the first tick, not hours into the deployment.
	if !s.cfg.DryRun && s.pub != nil {
		if err := s.pub.ValidateCredentials(ctx); err != nil {
			s.health.SetUnhealthy(string(s.pub.Platform()), err)
			slog.Error("credential validation failed", "platform", s.pub.Platform(), "error", err)
		} else {
			s.health.SetHealthy(string(s.pub.Platform()), "authenticated")
		}
	}

	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle runs the pipeline once and folds the record into health.
func (s *Scheduler) runCycle(ctx context.Context) {
	slog.Debug("running pipeline cycle")

	rec := s.pipeline.Run(ctx)
	s.lastRun = time.Now()

	if rec.Error != "" {
		s.health.SetUnhealthy("pipeline", errorString(rec.Error))
		slog.Error("pipeline cycle failed", "run_id", rec.RunID, "error", rec.Error)
		return
	}

	if scraping := rec.Stages.Scraping; scraping != nil {
		s.health.SetHealthy("feeds", "fetched articles")
		if scraping.Count == 0 {
			s.health.SetUnhealthy("feeds", errorString("no articles fetched"))
		}
	}

	if pub := rec.Stages.Publishing; pub != nil {
		if pub.Error != "" {
			s.health.SetUnhealthy("publishing", errorString(pub.Error))
		} else {
			s.health.SetHealthy("publishing", "cycle complete")
		}
	}

	slog.Info("pipeline cycle complete", "run_id", rec.RunID)
}

// LastRun returns when the last pipeline cycle finished.
func (s *Scheduler) LastRun() time.Time {
	return s.lastRun
}

// Health returns the health tracker.
func (s *Scheduler) Health() *Health {
	return s.health
}

type errorString string

func (e errorString) Error() string { return string(e) }
