package notify

import "context"

// Notification represents a notification message for the operator.
type Notification struct {
	Subject string
	Body    string
}

// Notifier is the interface for delivering operator notifications.
type Notifier interface {
	// Send sends a notification.
	Send(ctx context.Context, notification Notification) error
}
