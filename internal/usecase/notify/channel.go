// Package notify provides the use case for dispatching notifications across
// multiple delivery channels (Discord, Slack) with a worker pool, per-channel
// circuit breakers and observability. Dispatching is fire-and-forget: callers
// never block on webhook round trips and failures never propagate back.
package notify

import (
	"context"

	"devnest-backend/internal/domain/entity"
)

// Channel represents a notification delivery channel.
// Each channel implementation handles its own rate limiting, retries, and
// error handling, and must be safe for concurrent use.
type Channel interface {
	// Name returns the channel identifier (lowercase, e.g. "discord").
	// It is used for logging, metrics labels and health endpoints.
	Name() string

	// IsEnabled returns true if this channel is enabled via configuration.
	// Disabled channels are skipped during dispatching.
	IsEnabled() bool

	// SendContact delivers a contact inquiry notification.
	// Returns ErrChannelDisabled when called on a disabled channel and
	// ErrInvalidMessage when msg is nil.
	SendContact(ctx context.Context, msg *entity.ContactMessage) error

	// SendDigest delivers a content digest notification.
	SendDigest(ctx context.Context, title string, posts []entity.Post) error
}
