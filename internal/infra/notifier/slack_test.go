package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devnest-backend/internal/domain/entity"
)

func TestSlackNotifier_buildContactPayload(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{
		Enabled:    true,
		WebhookURL: "https://hooks.slack.com/services/test",
		Timeout:    10 * time.Second,
	})

	msg := testContactMessage()
	payload := n.buildContactPayload(msg)

	if payload.Text != "New inquiry from Jordan Smith" {
		t.Errorf("unexpected fallback text: %q", payload.Text)
	}
	if len(payload.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(payload.Blocks))
	}

	section := payload.Blocks[0]
	if section.Type != "section" || section.Text == nil {
		t.Fatalf("expected section block with text, got %+v", section)
	}
	for _, want := range []string{msg.Name, msg.Email, msg.Company, string(msg.Budget), msg.Message} {
		if !strings.Contains(section.Text.Text, want) {
			t.Errorf("expected section text to contain %q", want)
		}
	}

	contextBlock := payload.Blocks[1]
	if contextBlock.Type != "context" || len(contextBlock.Elements) != 1 {
		t.Fatalf("expected context block with 1 element, got %+v", contextBlock)
	}
	if !strings.Contains(contextBlock.Elements[0].Text, "2026-05-10T12:00:00Z") {
		t.Errorf("expected timestamp in context, got %q", contextBlock.Elements[0].Text)
	}
}

func TestSlackNotifier_buildDigestPayload(t *testing.T) {
	n := NewSlackNotifier(SlackConfig{})

	posts := []entity.Post{
		{Title: "Ship faster with Go", Views: 120},
		{Title: "Design systems 101", Views: 95},
	}

	payload := n.buildDigestPayload("Weekly top posts", posts)

	if payload.Text != "Weekly top posts" {
		t.Errorf("unexpected fallback text: %q", payload.Text)
	}
	section := payload.Blocks[0]
	if !strings.Contains(section.Text.Text, "1. *Ship faster with Go* (120 views)") {
		t.Errorf("expected first post line, got %q", section.Text.Text)
	}
}

func TestSlackNotifier_NotifyDigest(t *testing.T) {
	var received SlackWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	n := NewSlackNotifier(SlackConfig{
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	})

	posts := []entity.Post{{Title: "Ship faster with Go", Views: 120}}
	if err := n.NotifyDigest(context.Background(), "Weekly top posts", posts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(received.Blocks) == 0 {
		t.Error("expected blocks in delivered payload")
	}
}
