package notify

import (
	"context"
	"log/slog"
)

// LogNotifier writes notifications to the structured log. It is the
// default for a single-operator deployment where the log is watched.
type LogNotifier struct{}

// NewLogNotifier creates a new log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Send logs the notification.
func (l *LogNotifier) Send(ctx context.Context, notification Notification) error {
	slog.Info("notification",
		"subject", notification.Subject,
		"body", notification.Body,
	)
	return nil
}
