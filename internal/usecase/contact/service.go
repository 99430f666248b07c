// Package contact implements the contact pipeline: validate an inquiry,
// persist it, and hand it to the notification dispatcher without blocking
// the submitting client.
package contact

import (
	"context"
	"fmt"
	"time"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/observability/metrics"
	"devnest-backend/internal/repository"
	"devnest-backend/internal/usecase/notify"
)

// Service provides contact inquiry use cases.
type Service struct {
	Repo     repository.ContactRepository
	Notifier notify.Service
}

// SubmitInput represents a contact form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Company string
	Budget  entity.Budget
	Message string
}

// Submit validates and persists an inquiry, then dispatches notifications.
// The dispatch is fire-and-forget: a webhook outage never loses the inquiry
// or fails the submission. Returns a ValidationError for invalid input.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*entity.ContactMessage, error) {
	msg := &entity.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Company:   in.Company,
		Budget:    in.Budget,
		Message:   in.Message,
		CreatedAt: time.Now(),
	}
	if err := msg.Validate(); err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	id, err := s.Repo.Create(ctx, msg)
	if err != nil {
		metrics.ContactSubmissions.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	msg.ID = id

	if s.Notifier != nil {
		_ = s.Notifier.NotifyContact(ctx, msg)
	}

	metrics.ContactSubmissions.WithLabelValues(metrics.ResultOK).Inc()
	return msg, nil
}

// ListResult is one page of inquiries plus pagination metadata.
type ListResult struct {
	Messages   []*entity.ContactMessage
	Pagination pagination.Metadata
}

// List returns one page of inquiries, newest first. Editorial surface only.
func (s *Service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	total, err := s.Repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contact messages: %w", err)
	}

	offset := pagination.CalculateOffset(params.Page, params.Limit)
	messages, err := s.Repo.ListPaginated(ctx, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	return &ListResult{
		Messages:   messages,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}
