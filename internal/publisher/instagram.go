package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmeerdink/nieuwsbot/internal/post"
)

const instagramBaseURL = "https://graph.facebook.com/v19.0"

// Container status codes reported by the Graph API.
const (
	containerFinished = "FINISHED"
	containerError    = "ERROR"
)

// PollPolicy bounds the readiness poll of a staged media container.
type PollPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPollPolicy allows 30 attempts two seconds apart (a 60s ceiling).
var DefaultPollPolicy = PollPolicy{MaxAttempts: 30, Delay: 2 * time.Second}

// InstagramPublisher posts photos via the Graph API container flow:
// stage a media container, poll until processing finishes, then commit
// it into a live post.
type InstagramPublisher struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	accountID   string
	poll        PollPolicy
}

// InstagramConfig holds credentials for the Instagram publisher.
type InstagramConfig struct {
	AccessToken string
	AccountID   string
	Poll        PollPolicy // zero value selects DefaultPollPolicy
}

// NewInstagramPublisher creates a new Instagram publisher.
func NewInstagramPublisher(cfg InstagramConfig) *InstagramPublisher {
	poll := cfg.Poll
	if poll.MaxAttempts <= 0 {
		poll = DefaultPollPolicy
	}

	return &InstagramPublisher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     instagramBaseURL,
		accessToken: cfg.AccessToken,
		accountID:   cfg.AccountID,
		poll:        poll,
	}
}

// Platform returns the platform name.
func (ig *InstagramPublisher) Platform() post.Platform {
	return post.PlatformInstagram
}

// ValidateCredentials checks that the access token and account ID are present.
func (ig *InstagramPublisher) ValidateCredentials(ctx context.Context) error {
	if ig.accessToken == "" || ig.accountID == "" {
		return &ConfigurationError{Platform: string(post.PlatformInstagram)}
	}
	return nil
}

// graphError is the error envelope the Graph API wraps failures in.
type graphError struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// createContainerResponse is the response from staging a media container.
type createContainerResponse struct {
	ID string `json:"id"`
	graphError
}

// containerStatusResponse is the response from a container status query.
type containerStatusResponse struct {
	StatusCode string `json:"status_code"`
	Status     string `json:"status"`
	graphError
}

// publishContainerResponse is the response from committing a container.
type publishContainerResponse struct {
	ID string `json:"id"`
	graphError
}

// Publish drives a post through the container flow. A container that
// never reaches FINISHED within the poll budget yields a Result with an
// empty RemoteID.
func (ig *InstagramPublisher) Publish(ctx context.Context, p post.Post) (*Result, error) {
	if err := ig.ValidateCredentials(ctx); err != nil {
		return nil, err
	}

	containerID, err := ig.stageContainer(ctx, p)
	if err != nil {
		return nil, err
	}

	ready, err := ig.waitForContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if !ready {
		slog.Warn("media container not ready within poll budget",
			"container_id", containerID,
			"title", p.Title,
		)
		return &Result{}, nil
	}

	remoteID, err := ig.publishContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RemoteID: remoteID,
		URL:      fmt.Sprintf("https://www.instagram.com/p/%s/", remoteID),
	}

	slog.Info("published to Instagram", "id", result.RemoteID, "url", result.URL)
	return result, nil
}

// stageContainer submits the caption and image reference as a media
// container. A missing image is logged but the attempt proceeds; the
// remote rejects it if it insists on media.
func (ig *InstagramPublisher) stageContainer(ctx context.Context, p post.Post) (string, error) {
	if p.ImageURL == "" {
		slog.Warn("post has no image for photo platform, attempting anyway", "title", p.Title)
	}

	params := url.Values{}
	params.Set("caption", post.Render(p))
	params.Set("access_token", ig.accessToken)
	if p.ImageURL != "" {
		params.Set("image_url", p.ImageURL)
	}

	endpoint := fmt.Sprintf("%s/%s/media", ig.baseURL, ig.accountID)

	var created createContainerResponse
	if err := ig.doForm(ctx, endpoint, params, &created); err != nil {
		return "", err
	}
	if created.Error != nil {
		return "", &ValidationError{
			Platform: string(post.PlatformInstagram),
			Reason:   created.Error.Message,
		}
	}
	if created.ID == "" {
		return "", fmt.Errorf("no container id in response")
	}

	slog.Debug("staged media container", "container_id", created.ID)
	return created.ID, nil
}

// waitForContainer polls container status until it is FINISHED (true),
// ERROR (error), or the attempt budget runs out (false). A failing
// status check counts against the budget like a pending poll: it is
// logged and retried, not returned.
func (ig *InstagramPublisher) waitForContainer(ctx context.Context, containerID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status_code,status&access_token=%s",
		ig.baseURL, containerID, url.QueryEscape(ig.accessToken))

	for attempt := 1; attempt <= ig.poll.MaxAttempts; attempt++ {
		status, err := ig.fetchContainerStatus(ctx, endpoint)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			slog.Warn("container status check failed, retrying",
				"container_id", containerID,
				"attempt", attempt,
				"error", err,
			)
		} else {
			switch status.StatusCode {
			case containerFinished:
				slog.Debug("media container ready", "container_id", containerID, "attempts", attempt)
				return true, nil
			case containerError:
				msg := status.Status
				if msg == "" {
					msg = "media processing failed"
				}
				return false, &RemoteError{
					Platform: string(post.PlatformInstagram),
					Code:     containerError,
					Message:  msg,
				}
			}

			slog.Debug("media container still processing",
				"container_id", containerID,
				"status", status.StatusCode,
				"attempt", attempt,
			)
		}

		timer := time.NewTimer(ig.poll.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	return false, nil
}

// publishContainer commits a finished container into a live post.
func (ig *InstagramPublisher) publishContainer(ctx context.Context, containerID string) (string, error) {
	params := url.Values{}
	params.Set("creation_id", containerID)
	params.Set("access_token", ig.accessToken)

	endpoint := fmt.Sprintf("%s/%s/media_publish", ig.baseURL, ig.accountID)

	var published publishContainerResponse
	if err := ig.doForm(ctx, endpoint, params, &published); err != nil {
		return "", err
	}
	if published.Error != nil {
		return "", &RemoteError{
			Platform: string(post.PlatformInstagram),
			Message:  published.Error.Message,
		}
	}
	if published.ID == "" {
		return "", fmt.Errorf("no media id in publish response")
	}

	return published.ID, nil
}

func (ig *InstagramPublisher) fetchContainerStatus(ctx context.Context, endpoint string) (*containerStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := ig.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("check container status: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var status containerStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("parse status response: %w", err)
	}
	if status.Error != nil {
		return nil, &RemoteError{
			Platform: string(post.PlatformInstagram),
			Message:  status.Error.Message,
		}
	}

	return &status, nil
}

func (ig *InstagramPublisher) doForm(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ig.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
