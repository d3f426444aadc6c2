package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// maxEntriesPerFeed caps how many entries are read from one feed document.
	maxEntriesPerFeed = 5

	// maxDescriptionLength caps article descriptions after tag stripping.
	maxDescriptionLength = 280

	userAgent = "Mozilla/5.0 (compatible; nieuwsbot/1.0)"
)

// RSSSource fetches articles from a single RSS feed URL.
type RSSSource struct {
	httpClient *http.Client
	source     string
	category   string
	url        string
}

// RSSConfig holds configuration for an RSS source.
type RSSConfig struct {
	Source   string // publisher name, e.g. "nos"
	Category string
	URL      string
}

// NewRSSSource creates a new RSS feed source.
func NewRSSSource(cfg RSSConfig) *RSSSource {
	return &RSSSource{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		source:   cfg.Source,
		category: cfg.Category,
		url:      cfg.URL,
	}
}

// Name returns the source name.
func (r *RSSSource) Name() string {
	return r.source + "/" + r.category
}

// rssDocument is the subset of an RSS 2.0 document the fetcher reads.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string     `xml:"title"`
	Link        string     `xml:"link"`
	Description string     `xml:"description"`
	PubDate     string     `xml:"pubDate"`
	Media       []rssMedia `xml:"http://search.yahoo.com/mrss/ content"`
	Enclosure   struct {
		URL string `xml:"url,attr"`
	} `xml:"enclosure"`
}

type rssMedia struct {
	URL string `xml:"url,attr"`
}

// Fetch retrieves and parses the feed.
func (r *RSSSource) Fetch(ctx context.Context) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var doc rssDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := doc.Channel.Items
	if len(items) > maxEntriesPerFeed {
		items = items[:maxEntriesPerFeed]
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		article, ok := r.parseItem(item)
		if !ok {
			continue
		}
		articles = append(articles, article)
	}

	if len(articles) == 0 && len(doc.Channel.Items) > 0 {
		slog.Warn("feed has entries but none could be parsed", "feed", r.Name())
	}

	slog.Debug("fetched feed", "feed", r.Name(), "articles", len(articles))
	return articles, nil
}

func (r *RSSSource) parseItem(item rssItem) (Article, bool) {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		return Article{}, false
	}

	imageURL := ""
	if len(item.Media) > 0 {
		imageURL = item.Media[0].URL
	} else if item.Enclosure.URL != "" {
		imageURL = item.Enclosure.URL
	}

	return Article{
		Title:       title,
		Description: cleanDescription(item.Description),
		URL:         link,
		PublishedAt: parsePubDate(item.PubDate),
		Source:      r.source,
		Category:    r.category,
		ImageURL:    imageURL,
	}, true
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// cleanDescription strips markup from a feed description and bounds its length.
func cleanDescription(raw string) string {
	desc := strings.TrimSpace(tagPattern.ReplaceAllString(raw, ""))
	if utf8.RuneCountInString(desc) > maxDescriptionLength {
		desc = string([]rune(desc)[:maxDescriptionLength]) + "..."
	}
	return desc
}

// pubDateLayouts are the timestamp formats seen across the configured feeds.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

func parsePubDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
