package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that a send was attempted on a channel
	// that is not enabled in the configuration.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidMessage indicates that the notification payload is nil or
	// missing required fields.
	ErrInvalidMessage = errors.New("invalid notification payload")

	// ErrNotificationDropped indicates that a notification was dropped due
	// to worker pool saturation. Non-critical, used for observability.
	ErrNotificationDropped = errors.New("notification dropped due to pool saturation")
)
