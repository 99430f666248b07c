package notifier

import (
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"devnest-backend/pkg/config"
)

const defaultWebhookTimeout = 30 * time.Second

// LoadDiscordConfig loads the Discord webhook configuration from the
// environment. A missing or malformed webhook URL disables the channel
// rather than failing startup.
//
// Environment variables:
//   - DISCORD_ENABLED: "true" to enable Discord notifications
//   - DISCORD_WEBHOOK_URL: webhook URL, must be https on discord.com
func LoadDiscordConfig(logger *slog.Logger) DiscordConfig {
	if !config.GetEnvBool("DISCORD_ENABLED", false) {
		return DiscordConfig{Enabled: false}
	}

	webhookURL := os.Getenv("DISCORD_WEBHOOK_URL")
	if !validWebhookURL(logger, "discord", webhookURL, "discord.com", "/api/webhooks/") {
		return DiscordConfig{Enabled: false}
	}

	return DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    defaultWebhookTimeout,
	}
}

// LoadSlackConfig loads the Slack webhook configuration from the
// environment. Same disable-on-error behavior as LoadDiscordConfig.
//
// Environment variables:
//   - SLACK_ENABLED: "true" to enable Slack notifications
//   - SLACK_WEBHOOK_URL: webhook URL, must be https on hooks.slack.com
func LoadSlackConfig(logger *slog.Logger) SlackConfig {
	if !config.GetEnvBool("SLACK_ENABLED", false) {
		return SlackConfig{Enabled: false}
	}

	webhookURL := os.Getenv("SLACK_WEBHOOK_URL")
	if !validWebhookURL(logger, "slack", webhookURL, "hooks.slack.com", "/services/") {
		return SlackConfig{Enabled: false}
	}

	return SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    defaultWebhookTimeout,
	}
}

// validWebhookURL checks that a webhook URL is https, points at the expected
// host, and uses the expected path prefix. Validation failures are logged
// without the URL itself, which embeds the auth token.
func validWebhookURL(logger *slog.Logger, channel, webhookURL, host, pathPrefix string) bool {
	if webhookURL == "" {
		logger.Warn("webhook URL is empty, channel disabled", slog.String("channel", channel))
		return false
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("webhook URL is malformed, channel disabled", slog.String("channel", channel))
		return false
	}
	if u.Scheme != "https" {
		logger.Warn("webhook URL must use https, channel disabled", slog.String("channel", channel))
		return false
	}
	if u.Host != host {
		logger.Warn("webhook URL has unexpected host, channel disabled",
			slog.String("channel", channel),
			slog.String("host", u.Host))
		return false
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		logger.Warn("webhook URL has unexpected path, channel disabled", slog.String("channel", channel))
		return false
	}
	return true
}
