package publisher

import (
	"errors"
	"fmt"
)

// ErrDailyLimitReached signals that the daily publish cap is already met.
// It is an early-exit outcome for the whole run, not a per-post failure.
var ErrDailyLimitReached = errors.New("daily publish limit reached")

// ConfigurationError indicates missing credentials for a platform. It is
// fatal to the publishing stage only: the run degrades to a reported
// error instead of crashing.
type ConfigurationError struct {
	Platform string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("Missing %s credentials", e.Platform)
}

// ValidationError indicates the remote service rejected the submitted
// content (for example a missing required image).
type ValidationError struct {
	Platform string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s rejected post: %s", e.Platform, e.Reason)
}

// RemoteError carries an explicit failure state reported by the remote
// service during asynchronous processing.
type RemoteError struct {
	Platform string
	Code     string
	Message  string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s reported %s: %s", e.Platform, e.Code, e.Message)
	}
	return fmt.Sprintf("%s reported error: %s", e.Platform, e.Message)
}
