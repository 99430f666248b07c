package notify

import (
	"context"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/infra/notifier"
)

// SlackChannel implements the Channel interface for Slack notifications.
// It wraps the SlackNotifier from the infrastructure layer.
type SlackChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewSlackChannel creates a new Slack channel. When Slack is disabled in the
// configuration, a NoOpNotifier backs the channel.
func NewSlackChannel(config notifier.SlackConfig) *SlackChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &SlackChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

// Name returns the channel identifier "slack".
func (c *SlackChannel) Name() string {
	return "slack"
}

// IsEnabled returns whether Slack notifications are enabled.
func (c *SlackChannel) IsEnabled() bool {
	return c.enabled
}

// SendContact delivers a contact inquiry notification to Slack.
func (c *SlackChannel) SendContact(ctx context.Context, msg *entity.ContactMessage) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if msg == nil {
		return ErrInvalidMessage
	}
	return c.notifier.NotifyContact(ctx, msg)
}

// SendDigest delivers a digest notification to Slack.
func (c *SlackChannel) SendDigest(ctx context.Context, title string, posts []entity.Post) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	return c.notifier.NotifyDigest(ctx, title, posts)
}
