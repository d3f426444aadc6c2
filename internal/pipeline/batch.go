package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmeerdink/nieuwsbot/internal/notify"
	"github.com/jmeerdink/nieuwsbot/internal/post"
	"github.com/jmeerdink/nieuwsbot/internal/runlog"
	"github.com/jmeerdink/nieuwsbot/internal/schedule"
)

// BatchResult is the summary of one PublishBatch call.
type BatchResult struct {
	Outcomes     []runlog.Outcome
	Posted       int
	Total        int
	DryRun       bool
	LimitReached bool
	Deferred     bool
	NextOptimal  time.Time
}

// PublishBatch publishes posts in order. In dry-run mode it previews
// without side effects. A live batch is gated on the daily cap and the
// platform's posting window; a batch outside the window is downgraded
// to a preview and NextOptimal is set.
//
// Posts carry no dedup key, so rerunning a partially failed batch
// creates new remote posts for the already-published entries.
func (p *Pipeline) PublishBatch(ctx context.Context, posts []post.Post) *BatchResult {
	if p.cfg.DryRun {
		return p.previewBatch(posts)
	}

	now := p.now()

	count, err := p.runs.CountPublishedToday(now)
	if err != nil {
		slog.Warn("could not count today's posts, assuming zero", "error", err)
		count = 0
	}
	if !schedule.CanRunNow(count, p.cfg.MaxPostsPerDay) {
		slog.Warn("daily publish limit reached",
			"published", count,
			"limit", p.cfg.MaxPostsPerDay,
		)
		p.notify(ctx, "daily limit reached", fmt.Sprintf(
			"already published %d of %d posts today, skipping run", count, p.cfg.MaxPostsPerDay))
		return &BatchResult{Total: len(posts), LimitReached: true}
	}

	hours := p.cfg.OptimalHours(p.cfg.Platform)
	if !schedule.IsOptimalHour(now.Hour(), hours) {
		next := schedule.NextOptimalTime(now, hours)
		slog.Info("outside posting window, previewing instead",
			"hour", now.Hour(),
			"next_optimal", next.Format(time.RFC3339),
		)
		p.notify(ctx, "publishing deferred", fmt.Sprintf(
			"outside posting window, next optimal time is %s", next.Format("15:04")))
		res := p.previewBatch(posts)
		res.Deferred = true
		res.NextOptimal = next
		return res
	}

	outcomes := make([]runlog.Outcome, 0, len(posts))
	posted := 0
	for i, pst := range posts {
		slog.Info("publishing post", "index", i+1, "total", len(posts), "title", pst.Title)

		result, err := p.pub.Publish(ctx, pst)
		switch {
		case err != nil:
			slog.Error("publish failed", "index", i+1, "title", pst.Title, "error", err)
			outcomes = append(outcomes, runlog.Outcome{
				Status:        runlog.StatusError,
				OriginalTitle: pst.Title,
				Error:         err.Error(),
			})
		case result.RemoteID == "":
			slog.Warn("post accepted but unconfirmed", "index", i+1, "title", pst.Title)
			outcomes = append(outcomes, runlog.Outcome{
				Status:        runlog.StatusFailed,
				OriginalTitle: pst.Title,
			})
		default:
			slog.Info("post published", "index", i+1, "id", result.RemoteID, "url", result.URL)
			outcomes = append(outcomes, runlog.Outcome{
				Status:        runlog.StatusSuccess,
				RemoteID:      result.RemoteID,
				URL:           result.URL,
				OriginalTitle: pst.Title,
			})
			posted++
		}

		if err := p.wait(ctx, i, len(posts), p.cfg.PublishInterval); err != nil {
			slog.Warn("publish batch interrupted", "completed", len(outcomes), "total", len(posts))
			break
		}
	}

	return &BatchResult{Outcomes: outcomes, Posted: posted, Total: len(posts)}
}

// previewBatch produces success-shaped outcomes without touching any
// platform. Its records carry the dry-run marker instead of a real id.
func (p *Pipeline) previewBatch(posts []post.Post) *BatchResult {
	outcomes := make([]runlog.Outcome, 0, len(posts))
	for i, pst := range posts {
		content := post.Render(pst)
		slog.Info("[dry run] would publish",
			"index", i+1,
			"total", len(posts),
			"platform", pst.Platform,
			"content", truncate(content, 150),
		)
		outcomes = append(outcomes, runlog.Outcome{
			Status:        runlog.StatusSuccess,
			RemoteID:      "dry_run",
			OriginalTitle: pst.Title,
		})
	}
	return &BatchResult{Outcomes: outcomes, Total: len(posts), DryRun: true}
}

func (p *Pipeline) notify(ctx context.Context, subject, body string) {
	if err := p.notifier.Send(ctx, notify.Notification{Subject: subject, Body: body}); err != nil {
		slog.Warn("notification failed", "subject", subject, "error", err)
	}
}

func waitBetween(ctx context.Context, index, total int, interval time.Duration) error {
	return schedule.WaitBetween(ctx, index, total, interval)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
