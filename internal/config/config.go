package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/jmeerdink/nieuwsbot/internal/post"
)

// Config holds all application configuration.
type Config struct {
	// Output
	OutputDir    string
	DatabasePath string

	// Pipeline
	MaxArticlesPerSource int
	MaxPosts             int
	DryRun               bool
	Platform             post.Platform
	UseExistingToday     bool

	// Anthropic API
	AnthropicAPIKey string
	ClaudeModel     string

	// Twitter
	TwitterAPIKey            string
	TwitterAPISecret         string
	TwitterAccessToken       string
	TwitterAccessTokenSecret string

	// Instagram
	InstagramAccessToken string
	InstagramAccountID   string
	// InstagramOptimalHours are the preferred posting hours for the photo
	// feed; outside them a live run is deferred to a dry run.
	InstagramOptimalHours []int

	// Logging
	LogLevel string

	// Scheduler settings
	RunInterval     time.Duration // time between pipeline runs in serve mode
	PublishInterval time.Duration // wait between consecutive posts in a run
	MaxPostsPerDay  int
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		OutputDir:                getEnv("OUTPUT_DIR", "output"),
		DatabasePath:             getEnv("DATABASE_PATH", "data/nieuwsbot.db"),
		DryRun:                   true,
		Platform:                 post.Platform(getEnv("PLATFORM", string(post.PlatformTwitter))),
		AnthropicAPIKey:          getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeModel:              getEnv("CLAUDE_MODEL", ""),
		TwitterAPIKey:            getEnv("TWITTER_API_KEY", ""),
		TwitterAPISecret:         getEnv("TWITTER_API_SECRET", ""),
		TwitterAccessToken:       getEnv("TWITTER_ACCESS_TOKEN", ""),
		TwitterAccessTokenSecret: getEnv("TWITTER_ACCESS_TOKEN_SECRET", ""),
		InstagramAccessToken:     getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
		InstagramAccountID:       getEnv("INSTAGRAM_ACCOUNT_ID", ""),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
	}

	if !cfg.Platform.Valid() {
		return nil, fmt.Errorf("invalid PLATFORM: %s (must be 'twitter' or 'instagram')", cfg.Platform)
	}

	// Parse durations
	var err error
	cfg.RunInterval, err = time.ParseDuration(getEnv("RUN_INTERVAL", "4h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_INTERVAL: %w", err)
	}

	cfg.PublishInterval, err = time.ParseDuration(getEnv("PUBLISH_INTERVAL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PUBLISH_INTERVAL: %w", err)
	}

	// Parse integers
	cfg.MaxPostsPerDay, err = envInt("MAX_POSTS_PER_DAY", 3)
	if err != nil {
		return nil, err
	}

	cfg.MaxPosts, err = envInt("MAX_POSTS", 5)
	if err != nil {
		return nil, err
	}

	cfg.MaxArticlesPerSource, err = envInt("MAX_ARTICLES_PER_SOURCE", 2)
	if err != nil {
		return nil, err
	}

	cfg.InstagramOptimalHours, err = parseHours(getEnv("INSTAGRAM_OPTIMAL_HOURS", "11,15,19"))
	if err != nil {
		return nil, fmt.Errorf("invalid INSTAGRAM_OPTIMAL_HOURS: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForGeneration checks configuration needed for content generation.
func (c *Config) ValidateForGeneration() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required for content generation")
	}
	return nil
}

// ValidateForPublishing checks configuration needed for live publishing
// to the given platform.
func (c *Config) ValidateForPublishing(platform post.Platform) error {
	if err := c.Validate(); err != nil {
		return err
	}

	switch platform {
	case post.PlatformTwitter:
		if c.TwitterAPIKey == "" || c.TwitterAPISecret == "" ||
			c.TwitterAccessToken == "" || c.TwitterAccessTokenSecret == "" {
			return fmt.Errorf("TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_TOKEN_SECRET are required for posting")
		}
	case post.PlatformInstagram:
		if c.InstagramAccessToken == "" || c.InstagramAccountID == "" {
			return fmt.Errorf("INSTAGRAM_ACCESS_TOKEN and INSTAGRAM_ACCOUNT_ID are required for posting")
		}
	default:
		return fmt.Errorf("unknown platform: %s", platform)
	}

	return nil
}

// OptimalHours returns the preferred posting hours for a platform, or
// nil when every hour is acceptable.
func (c *Config) OptimalHours(platform post.Platform) []int {
	if platform == post.PlatformInstagram {
		return c.InstagramOptimalHours
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	raw := getEnv(key, strconv.Itoa(defaultVal))
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}

// parseHours parses a comma-separated list of hours of day ("11,15,19").
func parseHours(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	hours := make([]int, 0, len(parts))
	for _, part := range parts {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse hour %q: %w", part, err)
		}
		if h < 0 || h > 23 {
			return nil, fmt.Errorf("hour %d out of range", h)
		}
		hours = append(hours, h)
	}

	return hours, nil
}
