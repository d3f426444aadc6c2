package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeerdink/nieuwsbot/internal/post"
)

func TestLoad(t *testing.T) {
	// Save original env and restore after test
	origEnv := os.Environ()
	t.Cleanup(func() {
		os.Clearenv()
		for _, e := range origEnv {
			for i := 0; i < len(e); i++ {
				if e[i] == '=' {
					os.Setenv(e[:i], e[i+1:])
					break
				}
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		os.Clearenv()
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "output", cfg.OutputDir)
		assert.Equal(t, "data/nieuwsbot.db", cfg.DatabasePath)
		assert.True(t, cfg.DryRun)
		assert.Equal(t, post.PlatformTwitter, cfg.Platform)
		assert.Equal(t, 4*time.Hour, cfg.RunInterval)
		assert.Equal(t, 60*time.Second, cfg.PublishInterval)
		assert.Equal(t, 3, cfg.MaxPostsPerDay)
		assert.Equal(t, 5, cfg.MaxPosts)
		assert.Equal(t, 2, cfg.MaxArticlesPerSource)
		assert.Equal(t, []int{11, 15, 19}, cfg.InstagramOptimalHours)
	})

	t.Run("custom values", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("OUTPUT_DIR", "/tmp/out")
		os.Setenv("ANTHROPIC_API_KEY", "sk-test")
		os.Setenv("PLATFORM", "instagram")
		os.Setenv("RUN_INTERVAL", "1h")
		os.Setenv("MAX_POSTS_PER_DAY", "10")
		os.Setenv("INSTAGRAM_OPTIMAL_HOURS", "9, 21")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "/tmp/out", cfg.OutputDir)
		assert.Equal(t, "sk-test", cfg.AnthropicAPIKey)
		assert.Equal(t, post.PlatformInstagram, cfg.Platform)
		assert.Equal(t, time.Hour, cfg.RunInterval)
		assert.Equal(t, 10, cfg.MaxPostsPerDay)
		assert.Equal(t, []int{9, 21}, cfg.InstagramOptimalHours)
	})

	t.Run("invalid platform", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("PLATFORM", "myspace")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "PLATFORM")
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("RUN_INTERVAL", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "RUN_INTERVAL")
	})

	t.Run("invalid integer", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("MAX_POSTS_PER_DAY", "notanumber")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "MAX_POSTS_PER_DAY")
	})

	t.Run("invalid hours", func(t *testing.T) {
		os.Clearenv()
		os.Setenv("INSTAGRAM_OPTIMAL_HOURS", "11,25")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "INSTAGRAM_OPTIMAL_HOURS")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{OutputDir: "out", DatabasePath: "test.db"}
		assert.NoError(t, cfg.Validate())
	})

	t.Run("missing output dir", func(t *testing.T) {
		cfg := &Config{DatabasePath: "test.db"}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "OUTPUT_DIR")
	})
}

func TestConfig_ValidateForGeneration(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{
			OutputDir:       "out",
			DatabasePath:    "test.db",
			AnthropicAPIKey: "sk-test",
		}
		assert.NoError(t, cfg.ValidateForGeneration())
	})

	t.Run("missing api key", func(t *testing.T) {
		cfg := &Config{OutputDir: "out", DatabasePath: "test.db"}
		err := cfg.ValidateForGeneration()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})
}

func TestConfig_ValidateForPublishing(t *testing.T) {
	base := Config{OutputDir: "out", DatabasePath: "test.db"}

	t.Run("twitter valid", func(t *testing.T) {
		cfg := base
		cfg.TwitterAPIKey = "k"
		cfg.TwitterAPISecret = "s"
		cfg.TwitterAccessToken = "t"
		cfg.TwitterAccessTokenSecret = "ts"
		assert.NoError(t, cfg.ValidateForPublishing(post.PlatformTwitter))
	})

	t.Run("twitter missing credentials", func(t *testing.T) {
		cfg := base
		cfg.TwitterAPIKey = "k"
		err := cfg.ValidateForPublishing(post.PlatformTwitter)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "TWITTER_API_SECRET")
	})

	t.Run("instagram valid", func(t *testing.T) {
		cfg := base
		cfg.InstagramAccessToken = "tok"
		cfg.InstagramAccountID = "acct"
		assert.NoError(t, cfg.ValidateForPublishing(post.PlatformInstagram))
	})

	t.Run("instagram missing credentials", func(t *testing.T) {
		cfg := base
		err := cfg.ValidateForPublishing(post.PlatformInstagram)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "INSTAGRAM_ACCESS_TOKEN")
	})
}

func TestConfig_OptimalHours(t *testing.T) {
	cfg := &Config{InstagramOptimalHours: []int{11, 15, 19}}

	assert.Equal(t, []int{11, 15, 19}, cfg.OptimalHours(post.PlatformInstagram))
	assert.Nil(t, cfg.OptimalHours(post.PlatformTwitter))
}
