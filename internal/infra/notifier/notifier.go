// Package notifier provides abstraction for sending webhook notifications
// about contact inquiries and content digests. It defines the Notifier
// interface which allows different notification mechanisms (Discord, Slack,
// email, etc.) to be used interchangeably through dependency injection.
//
// The package includes implementations for Discord and Slack webhooks and a
// no-op notifier for when notifications are disabled.
package notifier

import (
	"context"

	"devnest-backend/internal/domain/entity"
)

// Notifier is an interface for sending notifications.
// Implementations should handle rate limiting, retries, and error logging
// internally, and respect context cancellation.
type Notifier interface {
	// NotifyContact sends a notification about a new contact inquiry.
	// The notification should include the sender's name, email, company,
	// budget range, and message.
	//
	// Returns a non-nil error if the notification failed after all retry
	// attempts.
	NotifyContact(ctx context.Context, msg *entity.ContactMessage) error

	// NotifyDigest sends a periodic digest notification listing the given
	// posts, typically the most viewed posts of the period.
	NotifyDigest(ctx context.Context, title string, posts []entity.Post) error
}
