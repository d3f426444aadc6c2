package store

import (
	"context"
	"database/sql"
)

// Article is a cached news article row.
type Article struct {
	ID          int64
	Source      string
	Category    string
	Title       string
	Description string
	Url         string
	ImageUrl    sql.NullString
	PublishedAt sql.NullString
	FetchedOn   string // YYYY-MM-DD
}

// Queries provides typed access to the article cache.
type Queries struct {
	db *sql.DB
}

// New creates a Queries over the given connection.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// CreateArticleParams holds the fields for inserting an article.
type CreateArticleParams struct {
	Source      string
	Category    string
	Title       string
	Description string
	Url         string
	ImageUrl    sql.NullString
	PublishedAt sql.NullString
	FetchedOn   string
}

// CreateArticle inserts an article if its URL is not already cached.
// Returns true if a new row was inserted.
func (q *Queries) CreateArticle(ctx context.Context, params CreateArticleParams) (bool, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO articles (source, category, title, description, url, image_url, published_at, fetched_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		params.Source,
		params.Category,
		params.Title,
		params.Description,
		params.Url,
		params.ImageUrl,
		params.PublishedAt,
		params.FetchedOn,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListArticlesFetchedOn returns the articles cached on a given day
// (YYYY-MM-DD), oldest first.
func (q *Queries) ListArticlesFetchedOn(ctx context.Context, day string) ([]*Article, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, source, category, title, description, url, image_url, published_at, fetched_on
		FROM articles
		WHERE fetched_on = ?
		ORDER BY id`,
		day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(
			&a.ID,
			&a.Source,
			&a.Category,
			&a.Title,
			&a.Description,
			&a.Url,
			&a.ImageUrl,
			&a.PublishedAt,
			&a.FetchedOn,
		); err != nil {
			return nil, err
		}
		articles = append(articles, &a)
	}

	return articles, rows.Err()
}

// CountArticles returns the total number of cached articles.
func (q *Queries) CountArticles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}
