package respond

import (
	"regexp"
)

var (
	// Discord webhook URLs embed a secret token after the webhook ID.
	discordWebhookPattern = regexp.MustCompile(`(discord\.com/api/webhooks/\d+)/[A-Za-z0-9_-]+`)

	// Slack webhook paths are three opaque secret segments.
	slackWebhookPattern = regexp.MustCompile(`(hooks\.slack\.com/services)/[A-Za-z0-9]+/[A-Za-z0-9]+/[A-Za-z0-9]+`)

	// Credentials inside a connection string DSN.
	dsnPasswordPattern = regexp.MustCompile(`://([^:/@]+):([^@]+)@`)

	// Bearer tokens quoted back by HTTP client errors.
	bearerTokenPattern = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9._~+/-]+=*`)
)

// SanitizeError masks secrets that tend to leak through wrapped error
// messages (webhook tokens, DSN passwords, bearer tokens) so the result is
// safe to log.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = discordWebhookPattern.ReplaceAllString(msg, "$1/****")
	msg = slackWebhookPattern.ReplaceAllString(msg, "$1/****")
	msg = dsnPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	msg = bearerTokenPattern.ReplaceAllString(msg, "Bearer ****")
	return msg
}
