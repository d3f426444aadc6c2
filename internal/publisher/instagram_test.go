package publisher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmeerdink/nieuwsbot/internal/post"
)

func testInstagramPost() post.Post {
	return post.Post{
		Title:    "Nieuwsbericht",
		Body:     "Kort nieuwsbericht.",
		Hashtags: []string{"#nieuws"},
		Emoji:    "📰",
		Platform: post.PlatformInstagram,
		ImageURL: "https://nos.nl/img/1.jpg",
	}
}

// fakeGraph serves the three container-flow endpoints, finishing the
// container after pendingPolls status checks.
func fakeGraph(t *testing.T, pendingPolls int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var polls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/acct-1/media"):
			require.NoError(t, r.ParseForm())
			assert.NotEmpty(t, r.Form.Get("caption"))
			assert.Equal(t, "test-token", r.Form.Get("access_token"))
			fmt.Fprint(w, `{"id":"container-1"}`)

		case strings.HasSuffix(r.URL.Path, "/container-1"):
			n := polls.Add(1)
			if int(n) > pendingPolls {
				fmt.Fprint(w, `{"status_code":"FINISHED"}`)
			} else {
				fmt.Fprint(w, `{"status_code":"IN_PROGRESS"}`)
			}

		case strings.HasSuffix(r.URL.Path, "/acct-1/media_publish"):
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "container-1", r.Form.Get("creation_id"))
			fmt.Fprint(w, `{"id":"media-9"}`)

		default:
			t.Errorf("unexpected request: %s", r.URL.Path)
		}
	}))

	return server, &polls
}

func newTestInstagram(serverURL string, poll PollPolicy) *InstagramPublisher {
	pub := NewInstagramPublisher(InstagramConfig{
		AccessToken: "test-token",
		AccountID:   "acct-1",
		Poll:        poll,
	})
	pub.baseURL = serverURL
	return pub
}

func TestInstagramPublisher_Platform(t *testing.T) {
	pub := NewInstagramPublisher(InstagramConfig{})
	assert.Equal(t, post.PlatformInstagram, pub.Platform())
}

func TestInstagramPublisher_ValidateCredentials(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		pub := NewInstagramPublisher(InstagramConfig{AccessToken: "tok", AccountID: "id"})
		assert.NoError(t, pub.ValidateCredentials(context.Background()))
	})

	t.Run("missing", func(t *testing.T) {
		pub := NewInstagramPublisher(InstagramConfig{AccessToken: "tok"})
		err := pub.ValidateCredentials(context.Background())

		var confErr *ConfigurationError
		require.ErrorAs(t, err, &confErr)
		assert.Equal(t, "Missing instagram credentials", confErr.Error())
	})
}

func TestInstagramPublisher_Publish(t *testing.T) {
	t.Run("stage poll commit", func(t *testing.T) {
		server, polls := fakeGraph(t, 2)
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 5, Delay: time.Millisecond})

		result, err := pub.Publish(context.Background(), testInstagramPost())
		require.NoError(t, err)
		assert.Equal(t, "media-9", result.RemoteID)
		assert.Equal(t, "https://www.instagram.com/p/media-9/", result.URL)
		assert.Equal(t, int32(3), polls.Load())
	})

	t.Run("status check failure is retried", func(t *testing.T) {
		var polls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/acct-1/media"):
				fmt.Fprint(w, `{"id":"container-1"}`)
			case strings.HasSuffix(r.URL.Path, "/container-1"):
				if polls.Add(1) == 1 {
					http.Error(w, "Bad Gateway", http.StatusBadGateway)
					return
				}
				fmt.Fprint(w, `{"status_code":"FINISHED"}`)
			case strings.HasSuffix(r.URL.Path, "/acct-1/media_publish"):
				fmt.Fprint(w, `{"id":"media-9"}`)
			}
		}))
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 5, Delay: time.Millisecond})

		result, err := pub.Publish(context.Background(), testInstagramPost())
		require.NoError(t, err)
		assert.Equal(t, "media-9", result.RemoteID)
		assert.Equal(t, int32(2), polls.Load())
	})

	t.Run("status check failures exhaust the budget as a failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/acct-1/media") {
				fmt.Fprint(w, `{"id":"container-1"}`)
				return
			}
			http.Error(w, "Bad Gateway", http.StatusBadGateway)
		}))
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 3, Delay: time.Millisecond})

		result, err := pub.Publish(context.Background(), testInstagramPost())
		require.NoError(t, err)
		assert.Empty(t, result.RemoteID)
	})

	t.Run("poll budget exhausted is a failure not an error", func(t *testing.T) {
		server, _ := fakeGraph(t, 100)
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 3, Delay: time.Millisecond})

		result, err := pub.Publish(context.Background(), testInstagramPost())
		require.NoError(t, err)
		assert.Empty(t, result.RemoteID)
	})

	t.Run("processing error surfaces remote message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/acct-1/media") {
				fmt.Fprint(w, `{"id":"container-1"}`)
				return
			}
			fmt.Fprint(w, `{"status_code":"ERROR","status":"unsupported image format"}`)
		}))
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 3, Delay: time.Millisecond})

		_, err := pub.Publish(context.Background(), testInstagramPost())
		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Contains(t, remoteErr.Message, "unsupported image format")
	})

	t.Run("staging rejection is a validation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error":{"message":"Media is required","type":"OAuthException","code":100}}`)
		}))
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 3, Delay: time.Millisecond})

		p := testInstagramPost()
		p.ImageURL = ""
		_, err := pub.Publish(context.Background(), p)

		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Reason, "Media is required")
	})

	t.Run("cancelled mid-poll", func(t *testing.T) {
		server, _ := fakeGraph(t, 100)
		defer server.Close()

		pub := newTestInstagram(server.URL, PollPolicy{MaxAttempts: 50, Delay: 50 * time.Millisecond})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		_, err := pub.Publish(ctx, testInstagramPost())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
