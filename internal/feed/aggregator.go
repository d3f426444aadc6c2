package feed

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jmeerdink/nieuwsbot/internal/store"
)

// Aggregator combines articles from multiple sources and caches them.
type Aggregator struct {
	sources []Source
	store   *store.Store
}

// AggregatorConfig holds aggregator configuration.
type AggregatorConfig struct {
	Store   *store.Store
	Sources []Source
}

// NewAggregator creates a new aggregator.
func NewAggregator(cfg AggregatorConfig) *Aggregator {
	return &Aggregator{
		sources: cfg.Sources,
		store:   cfg.Store,
	}
}

// FetchAll fetches articles from every source, caches them, and returns
// up to maxPerSource articles per source. A failing source is logged and
// skipped; it never fails the whole fetch.
func (a *Aggregator) FetchAll(ctx context.Context, maxPerSource int) []Article {
	var all []Article

	for _, source := range a.sources {
		slog.Debug("fetching from source", "source", source.Name())

		articles, err := source.Fetch(ctx)
		if err != nil {
			slog.Error("source fetch failed",
				"source", source.Name(),
				"error", err,
			)
			continue
		}

		if len(articles) > maxPerSource {
			articles = articles[:maxPerSource]
		}

		for _, article := range articles {
			if err := a.cacheArticle(ctx, article); err != nil {
				slog.Warn("failed to cache article",
					"title", article.Title,
					"error", err,
				)
			}
		}

		all = append(all, articles...)
	}

	slog.Info("article fetch complete", "total", len(all), "sources", len(a.sources))
	return all
}

// CachedToday returns the articles fetched earlier today, in fetch order.
func (a *Aggregator) CachedToday(ctx context.Context, today time.Time) ([]Article, error) {
	if a.store == nil {
		return nil, nil
	}

	rows, err := a.store.ListArticlesFetchedOn(ctx, today.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(rows))
	for _, row := range rows {
		article := Article{
			Title:       row.Title,
			Description: row.Description,
			URL:         row.Url,
			Source:      row.Source,
			Category:    row.Category,
		}
		if row.ImageUrl.Valid {
			article.ImageURL = row.ImageUrl.String
		}
		if row.PublishedAt.Valid {
			if t, err := time.Parse(time.RFC3339, row.PublishedAt.String); err == nil {
				article.PublishedAt = t
			}
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (a *Aggregator) cacheArticle(ctx context.Context, article Article) error {
	if a.store == nil {
		return nil
	}

	params := store.CreateArticleParams{
		Source:      article.Source,
		Category:    article.Category,
		Title:       article.Title,
		Description: article.Description,
		Url:         article.URL,
		FetchedOn:   time.Now().Format("2006-01-02"),
	}
	if article.ImageURL != "" {
		params.ImageUrl = sql.NullString{String: article.ImageURL, Valid: true}
	}
	if !article.PublishedAt.IsZero() {
		params.PublishedAt = sql.NullString{String: article.PublishedAt.Format(time.RFC3339), Valid: true}
	}

	_, err := a.store.CreateArticle(ctx, params)
	return err
}
