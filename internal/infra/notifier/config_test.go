package notifier_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"devnest-backend/internal/infra/notifier"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestLoadDiscordConfigDisabledByDefault(t *testing.T) {
	cfg := notifier.LoadDiscordConfig(testLogger)
	assert.False(t, cfg.Enabled)
}

func TestLoadDiscordConfigValid(t *testing.T) {
	t.Setenv("DISCORD_ENABLED", "true")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/123/token")

	cfg := notifier.LoadDiscordConfig(testLogger)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "https://discord.com/api/webhooks/123/token", cfg.WebhookURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadDiscordConfigRejectsBadURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"http scheme", "http://discord.com/api/webhooks/123/token"},
		{"wrong host", "https://example.com/api/webhooks/123/token"},
		{"wrong path", "https://discord.com/oauth/123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DISCORD_ENABLED", "true")
			t.Setenv("DISCORD_WEBHOOK_URL", tt.url)

			cfg := notifier.LoadDiscordConfig(testLogger)
			assert.False(t, cfg.Enabled)
		})
	}
}

func TestLoadSlackConfigValid(t *testing.T) {
	t.Setenv("SLACK_ENABLED", "true")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.com/services/T0/B0/token")

	cfg := notifier.LoadSlackConfig(testLogger)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "https://hooks.slack.com/services/T0/B0/token", cfg.WebhookURL)
}

func TestLoadSlackConfigRejectsWrongHost(t *testing.T) {
	t.Setenv("SLACK_ENABLED", "true")
	t.Setenv("SLACK_WEBHOOK_URL", "https://slack.example.com/services/T0/B0/token")

	cfg := notifier.LoadSlackConfig(testLogger)
	assert.False(t, cfg.Enabled)
}
