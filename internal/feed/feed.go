package feed

import (
	"context"
	"time"
)

// Article is a news article fetched from a feed.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_date"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// Source is a single news feed.
type Source interface {
	// Name returns the name of this feed source.
	Name() string

	// Fetch retrieves current articles from the source.
	Fetch(ctx context.Context) ([]Article, error)
}
