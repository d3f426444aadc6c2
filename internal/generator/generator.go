// Package generator turns news articles into localized social media
// posts via the Claude API.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jmeerdink/nieuwsbot/internal/feed"
	"github.com/jmeerdink/nieuwsbot/internal/post"
)

// Generator produces posts from articles.
type Generator struct {
	client *ClaudeClient
}

// Config holds generator configuration.
type Config struct {
	APIKey string
	Model  string
}

// New creates a new generator.
func New(cfg Config) *Generator {
	return &Generator{
		client: NewClaudeClient(ClaudeConfig{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		}),
	}
}

// generated is the JSON object the model is asked to return.
type generated struct {
	Content  string   `json:"content"`
	Emoji    string   `json:"emoji"`
	Hashtags []string `json:"hashtags"`
}

// fallbackContent is the placeholder used when the model reply cannot be
// parsed. Publishing a canned update was judged better than dropping the
// article; the orchestrator logs when it is used.
var fallbackContent = generated{
	Content:  "Breaking news update",
	Emoji:    "📰",
	Hashtags: []string{"#nieuws", "#nederland"},
}

// Generate turns one article into a post for the target platform. An
// unparseable model reply falls back to placeholder content; an API
// failure is returned as an error (single attempt, no retry).
func (g *Generator) Generate(ctx context.Context, article feed.Article, platform post.Platform) (post.Post, error) {
	prompt := fmt.Sprintf(postPrompt,
		article.Title,
		article.Description,
		strings.ToUpper(article.Source),
		article.Category,
		platform,
		platform.MaxLength(),
	)

	slog.Info("generating post", "title", truncateTitle(article.Title), "platform", platform)

	reply, err := g.client.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return post.Post{}, fmt.Errorf("complete: %w", err)
	}

	result, err := parseReply(reply)
	if err != nil {
		slog.Warn("unparseable model reply, using fallback content",
			"title", article.Title,
			"error", err,
		)
		result = fallbackContent
	}

	p := post.Post{
		Title:      article.Title,
		SourceURL:  article.URL,
		SourceName: article.Source,
		Body:       post.TruncateBody(result.Content, platform.MaxLength()),
		Hashtags:   result.Hashtags,
		Emoji:      result.Emoji,
		Platform:   platform,
		ImageURL:   article.ImageURL,
	}

	// The body is budgeted, but emoji, hashtags, and the source link
	// still count against the platform limit once rendered.
	if rendered := post.Render(p); !post.FitsInLimit(rendered, platform.MaxLength()) {
		slog.Warn("rendered post exceeds platform limit",
			"title", truncateTitle(article.Title),
			"platform", platform,
			"length", utf8.RuneCountInString(rendered),
			"limit", platform.MaxLength(),
		)
	}

	return p, nil
}

// GenerateBatch processes up to maxPosts articles. A failing article is
// logged and skipped; it never fails the batch.
func (g *Generator) GenerateBatch(ctx context.Context, articles []feed.Article, maxPosts int, platform post.Platform) []post.Post {
	if len(articles) > maxPosts {
		articles = articles[:maxPosts]
	}

	posts := make([]post.Post, 0, len(articles))
	for i, article := range articles {
		p, err := g.Generate(ctx, article, platform)
		if err != nil {
			slog.Error("failed to process article",
				"index", i+1,
				"title", article.Title,
				"error", err,
			)
			continue
		}

		posts = append(posts, p)
		slog.Info("processed article", "done", i+1, "total", len(articles))
	}

	slog.Info("generation complete", "posts", len(posts), "articles", len(articles))
	return posts
}

// parseReply extracts the generated post object from a model reply that
// may wrap the JSON in prose.
func parseReply(reply string) (generated, error) {
	var result generated
	if err := json.Unmarshal([]byte(reply), &result); err != nil {
		extracted, extractErr := extractJSONObject(reply)
		if extractErr != nil {
			return generated{}, extractErr
		}
		if err := json.Unmarshal([]byte(extracted), &result); err != nil {
			return generated{}, fmt.Errorf("parse extracted JSON: %w", err)
		}
	}

	if result.Content == "" || result.Emoji == "" || len(result.Hashtags) == 0 {
		return generated{}, fmt.Errorf("missing required fields in reply")
	}

	return result, nil
}

// extractJSONObject finds the first balanced JSON object in a reply.
func extractJSONObject(reply string) (string, error) {
	start := strings.IndexByte(reply, '{')
	if start == -1 {
		return "", fmt.Errorf("no JSON object found in reply")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(reply); i++ {
		c := reply[i]

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return reply[start : i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("malformed JSON object in reply")
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= 50 {
		return title
	}
	return string(runes[:50]) + "..."
}
