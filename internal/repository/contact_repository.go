package repository

import (
	"context"

	"devnest-backend/internal/domain/entity"
)

// ContactRepository is the persistence contract for contact form submissions.
type ContactRepository interface {
	// Create inserts a submission and returns its generated id.
	Create(ctx context.Context, msg *entity.ContactMessage) (int64, error)
	// ListPaginated returns submissions newest first.
	ListPaginated(ctx context.Context, offset, limit int) ([]*entity.ContactMessage, error)
	// Count returns the total number of submissions.
	Count(ctx context.Context) (int64, error)
}
