package notifier

import (
	"context"

	"devnest-backend/internal/domain/entity"
)

// NoOpNotifier is a no-operation implementation of the Notifier interface.
// It is used when notifications are disabled to avoid nil checks in the code.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a new NoOpNotifier instance.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

// NotifyContact does nothing and returns nil immediately.
func (n *NoOpNotifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) error {
	return nil
}

// NotifyDigest does nothing and returns nil immediately.
func (n *NoOpNotifier) NotifyDigest(ctx context.Context, title string, posts []entity.Post) error {
	return nil
}
