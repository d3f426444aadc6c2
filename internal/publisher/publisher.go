// Package publisher drives the delivery of generated posts to the social
// platforms. The photo feed uses an asynchronous container flow (stage,
// poll for readiness, commit); the text feed is a single synchronous
// submit. Both are exposed through one interface so the orchestrator does
// not branch per platform.
package publisher

import (
	"context"

	"github.com/jmeerdink/nieuwsbot/internal/post"
)

// Result is the outcome of a confirmed publish.
//
// A nil error with an empty RemoteID means the platform accepted the
// request but never confirmed the post (for the photo feed: the container
// did not reach FINISHED within the poll budget). Callers record that as
// a failed attempt, not an error.
type Result struct {
	RemoteID string
	URL      string
}

// Publisher publishes posts to a single platform.
type Publisher interface {
	// Platform returns the platform this publisher targets.
	Platform() post.Platform

	// ValidateCredentials checks that required credentials are present.
	ValidateCredentials(ctx context.Context) error

	// Publish delivers a single post and returns the platform-assigned
	// identifier.
	Publish(ctx context.Context, p post.Post) (*Result, error)
}
