package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"devnest-backend/internal/domain/entity"

	"github.com/google/uuid"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// Enabled indicates whether Slack notifications are enabled
	Enabled bool

	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackNotifier sends notifications to Slack via Incoming Webhook.
type SlackNotifier struct {
	config      SlackConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewSlackNotifier creates a new SlackNotifier with the specified
// configuration. The rate limiter is set to 1 request/second with a burst of
// 1 (Slack webhook limit: 1 message per second).
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(1.0, 1),
	}
}

// SlackWebhookPayload represents the JSON payload sent to a Slack webhook
// using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text (required)
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`               // "section", "context", "divider"
	Text     *SlackTextObject  `json:"text,omitempty"`     // Text content (for section)
	Elements []SlackTextObject `json:"elements,omitempty"` // Elements (for context)
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"`
}

const (
	// Slack Block Kit limits
	maxSectionTextLength = 3000
	maxContextTextLength = 2000
	maxFallbackLength    = 150

	slackTruncationSuffix = "..."
)

// buildContactPayload creates a Slack payload for a contact inquiry:
// a section block with the sender details and message, plus a context block
// with the submission time.
func (s *SlackNotifier) buildContactPayload(msg *entity.ContactMessage) SlackWebhookPayload {
	fallbackText := truncateText("New inquiry from "+msg.Name, maxFallbackLength, slackTruncationSuffix)

	var b strings.Builder
	fmt.Fprintf(&b, "*New inquiry from %s* (%s)\n", msg.Name, msg.Email)
	if msg.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", msg.Company)
	}
	if msg.Budget != "" {
		fmt.Fprintf(&b, "Budget: %s\n", msg.Budget)
	}
	b.WriteString("\n")
	b.WriteString(msg.Message)

	sectionText := truncateText(b.String(), maxSectionTextLength, slackTruncationSuffix)
	contextText := truncateText(
		fmt.Sprintf("devnest • %s", msg.CreatedAt.UTC().Format(time.RFC3339)),
		maxContextTextLength, slackTruncationSuffix)

	return SlackWebhookPayload{
		Text: fallbackText,
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: sectionText},
			},
			{
				Type: "context",
				Elements: []SlackTextObject{
					{Type: "mrkdwn", Text: contextText},
				},
			},
		},
	}
}

// buildDigestPayload creates a Slack payload listing the given posts, one
// line per post with its view count.
func (s *SlackNotifier) buildDigestPayload(title string, posts []entity.Post) SlackWebhookPayload {
	fallbackText := truncateText(title, maxFallbackLength, slackTruncationSuffix)

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", title)
	for i, p := range posts {
		fmt.Fprintf(&b, "%d. *%s* (%d views)\n", i+1, p.Title, p.Views)
	}

	sectionText := truncateText(b.String(), maxSectionTextLength, slackTruncationSuffix)
	contextText := fmt.Sprintf("devnest • %s", time.Now().UTC().Format(time.RFC3339))

	return SlackWebhookPayload{
		Text: fallbackText,
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: sectionText},
			},
			{
				Type: "context",
				Elements: []SlackTextObject{
					{Type: "mrkdwn", Text: contextText},
				},
			},
		},
	}
}

// sendWebhookRequest sends a single webhook request to Slack.
// Slack incoming webhooks return plain "ok" on success and a short error
// string otherwise.
func (s *SlackNotifier) sendWebhookRequest(ctx context.Context, payload SlackWebhookPayload) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
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
			Message:    "Slack rate limit exceeded",
			RetryAfter: extractRetryAfter(resp, body),
		}
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Slack API client error: %s", string(body)),
		}
	}

	if resp.StatusCode >= 500 {
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Slack API server error: %s", string(body)),
		}
	}

	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// sendWithRetry sends a webhook request with the same retry strategy as the
// Discord notifier: two attempts, rate limit backoff from retry_after, linear
// backoff for server and network errors, immediate failure for client errors.
func (s *SlackNotifier) sendWithRetry(ctx context.Context, payload SlackWebhookPayload, kind string) error {
	const (
		maxAttempts = 2
		baseDelay   = 5 * time.Second
	)

	requestID, _ := ctx.Value(requestIDKey).(string)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := s.sendWebhookRequest(ctx, payload)

		if err == nil {
			slog.Info("Slack notification successful",
				slog.String("request_id", requestID),
				slog.String("kind", kind),
				slog.Int("attempt", attempt))
			return nil
		}

		lastErr = err

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("Slack rate limit hit, backing off",
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
			slog.Error("Slack notification failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.String("kind", kind),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < maxAttempts {
			delay := baseDelay * time.Duration(attempt)
			slog.Warn("Slack API request failed, retrying",
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

	slog.Error("Slack notification failed after all retries",
		slog.String("request_id", requestID),
		slog.String("kind", kind),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", maxAttempts))

	return fmt.Errorf("slack notification failed after %d attempts: %w", maxAttempts, lastErr)
}

// notify applies rate limiting and sends the payload with retries.
func (s *SlackNotifier) notify(ctx context.Context, payload SlackWebhookPayload, kind string) error {
	requestID := uuid.New().String()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	slog.Info("Starting Slack notification",
		slog.String("request_id", requestID),
		slog.String("kind", kind))

	if err := s.rateLimiter.Allow(ctx); err != nil {
		slog.Error("Rate limiter error",
			slog.String("request_id", requestID),
			slog.String("kind", kind),
			slog.Any("error", err))
		return fmt.Errorf("rate limiter error: %w", err)
	}

	return s.sendWithRetry(ctx, payload, kind)
}

// NotifyContact sends a Slack notification for a new contact inquiry.
func (s *SlackNotifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) error {
	return s.notify(ctx, s.buildContactPayload(msg), "contact")
}

// NotifyDigest sends a Slack notification listing the given posts.
func (s *SlackNotifier) NotifyDigest(ctx context.Context, title string, posts []entity.Post) error {
	return s.notify(ctx, s.buildDigestPayload(title, posts), "digest")
}
