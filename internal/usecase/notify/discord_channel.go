package notify

import (
	"context"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/infra/notifier"
)

// DiscordChannel implements the Channel interface for Discord notifications.
// It wraps the DiscordNotifier from the infrastructure layer, which handles
// rate limiting, retries and request ID logging.
type DiscordChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel creates a new Discord channel. When Discord is disabled
// in the configuration, a NoOpNotifier backs the channel so the Channel
// contract holds without nil checks.
func NewDiscordChannel(config notifier.DiscordConfig) *DiscordChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &DiscordChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

// Name returns the channel identifier "discord".
func (c *DiscordChannel) Name() string {
	return "discord"
}

// IsEnabled returns whether Discord notifications are enabled.
func (c *DiscordChannel) IsEnabled() bool {
	return c.enabled
}

// SendContact delivers a contact inquiry notification to Discord.
func (c *DiscordChannel) SendContact(ctx context.Context, msg *entity.ContactMessage) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if msg == nil {
		return ErrInvalidMessage
	}
	return c.notifier.NotifyContact(ctx, msg)
}

// SendDigest delivers a digest notification to Discord.
func (c *DiscordChannel) SendDigest(ctx context.Context, title string, posts []entity.Post) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	return c.notifier.NotifyDigest(ctx, title, posts)
}
