package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"devnest-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// Enabled indicates whether Discord notifications are enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordNotifier sends notifications to Discord via webhook.
type DiscordNotifier struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewDiscordNotifier creates a new DiscordNotifier with the specified
// configuration. The rate limiter is set to 0.5 requests/second with a burst
// of 3 (Discord webhook limit: 30 requests per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(0.5, 3),
	}
}

// DiscordWebhookPayload represents the JSON payload sent to a Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Footer      DiscordEmbedFooter  `json:"footer"`
	Timestamp   string              `json:"timestamp"`
}

// DiscordEmbedField represents a name/value pair inside an embed.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// DiscordEmbedFooter represents the footer of a Discord embed.
type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

// DiscordErrorResponse represents the error response from the Discord API.
type DiscordErrorResponse struct {
	Message    string  `json:"message"`
	Code       int     `json:"code"`
	RetryAfter float64 `json:"retry_after"` // In seconds
}

const (
	// Discord limits
	maxEmbedTitleLength       = 256
	maxEmbedDescriptionLength = 4096
	maxEmbedFieldValueLength  = 1024
	truncationSuffix          = "..."

	// Discord blue color (#5865F2)
	discordBlueColor = 5793266
	// Discord green color (#57F287)
	discordGreenColor = 5763719

	embedFooterText = "devnest"
)

// buildContactEmbed creates a webhook payload for a contact inquiry.
// The embed carries the sender details as inline fields and the inquiry text
// as the description, truncated to Discord's limits.
func (d *DiscordNotifier) buildContactEmbed(msg *entity.ContactMessage) DiscordWebhookPayload {
	title := truncateText("New inquiry from "+msg.Name, maxEmbedTitleLength, truncationSuffix)
	description := truncateText(msg.Message, maxEmbedDescriptionLength, truncationSuffix)

	fields := []DiscordEmbedField{
		{Name: "Email", Value: msg.Email, Inline: true},
	}
	if msg.Company != "" {
		fields = append(fields, DiscordEmbedField{Name: "Company", Value: msg.Company, Inline: true})
	}
	if msg.Budget != "" {
		fields = append(fields, DiscordEmbedField{Name: "Budget", Value: string(msg.Budget), Inline: true})
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: description,
		Color:       discordGreenColor,
		Fields:      fields,
		Footer:      DiscordEmbedFooter{Text: embedFooterText},
		Timestamp:   msg.CreatedAt.UTC().Format(time.RFC3339),
	}

	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// buildDigestEmbed creates a webhook payload listing the given posts, one
// line per post with its view count.
func (d *DiscordNotifier) buildDigestEmbed(title string, posts []entity.Post) DiscordWebhookPayload {
	var b strings.Builder
	for i, p := range posts {
		fmt.Fprintf(&b, "%d. **%s** (%d views)\n", i+1, p.Title, p.Views)
	}
	description := truncateText(b.String(), maxEmbedDescriptionLength, truncationSuffix)

	embed := DiscordEmbed{
		Title:       truncateText(title, maxEmbedTitleLength, truncationSuffix),
		Description: description,
		Color:       discordBlueColor,
		Footer:      DiscordEmbedFooter{Text: embedFooterText},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}

	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// sendWebhookRequest sends a single webhook request.
//
// Error types:
//   - 429: RateLimitError (contains retry_after duration)
//   - 4xx (non-429): ClientError (non-retryable)
//   - 5xx: ServerError (retryable)
//   - Network error: wrapped transport error (retryable)
func (d *DiscordNotifier) sendWebhookRequest(ctx context.Context, payload DiscordWebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{
			Message:    "Discord rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API client error: %s", string(body)),
		}
	}

	if resp.StatusCode >= 500 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Discord API server error: %s", string(body)),
		}
	}

	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// extractRetryAfter extracts retry_after from a Discord error response.
// It tries the JSON body first, then falls back to the Retry-After header,
// defaulting to 5 seconds.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var discordErr DiscordErrorResponse
	if err := json.Unmarshal(body, &discordErr); err == nil && discordErr.RetryAfter > 0 {
		return time.Duration(discordErr.RetryAfter * float64(time.Second))
	}

	if retryAfterHeader := resp.Header.Get("Retry-After"); retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return 5 * time.Second
}

// sendWithRetry sends a webhook request with retry logic.
//
// Retry strategy:
//   - Max attempts: 2
//   - 429 errors: sleep for retry_after from the Discord response
//   - Server errors (5xx) and network errors: linear backoff (5s, 10s)
//   - Client errors (4xx): no retry, fail immediately
func (d *DiscordNotifier) sendWithRetry(ctx context.Context, payload DiscordWebhookPayload, kind string) error {
	const (
		maxAttempts = 2
		baseDelay   = 5 * time.Second
	)

	requestID, _ := ctx.Value(requestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := d.sendWebhookRequest(ctx, payload)

		if err == nil {
			slog.Info("Discord notification successful",
				slog.String("request_id", requestID),
				slog.String("kind", kind),
				slog.Int("attempt", attempt))
			return nil
		}

		lastErr = err

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("Discord rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.String("kind", kind),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))

			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("Discord notification failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.String("kind", kind),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < maxAttempts {
			delay := baseDelay * time.Duration(attempt)
			slog.Warn("Discord API request failed, retrying",
				slog.String("request_id", requestID),
				slog.String("kind", kind),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	slog.Error("Discord notification failed after all retries",
		slog.String("request_id", requestID),
		slog.String("kind", kind),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", maxAttempts))

	return fmt.Errorf("discord notification failed after %d attempts: %w", maxAttempts, lastErr)
}

// notify applies rate limiting and sends the payload with retries.
// A unique request_id is attached to the context for log correlation.
func (d *DiscordNotifier) notify(ctx context.Context, payload DiscordWebhookPayload, kind string) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	slog.Info("Starting Discord notification",
		slog.String("request_id", requestID),
		slog.String("kind", kind))

	if err := d.rateLimiter.Allow(ctx); err != nil {
		slog.Error("Rate limiter error",
			slog.String("request_id", requestID),
			slog.String("kind", kind),
			slog.Any("error", err))
		return fmt.Errorf("rate limiter error: %w", err)
	}

	return d.sendWithRetry(ctx, payload, kind)
}

// NotifyContact sends a Discord notification for a new contact inquiry.
func (d *DiscordNotifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) error {
	return d.notify(ctx, d.buildContactEmbed(msg), "contact")
}

// NotifyDigest sends a Discord notification listing the given posts.
func (d *DiscordNotifier) NotifyDigest(ctx context.Context, title string, posts []entity.Post) error {
	return d.notify(ctx, d.buildDigestEmbed(title, posts), "digest")
}
