package contact_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/domain/entity"
	contactUC "devnest-backend/internal/usecase/contact"
	"devnest-backend/internal/usecase/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRepo is a minimal in-memory ContactRepository.
type stubRepo struct {
	messages []*entity.ContactMessage
	nextID   int64
	err      error
}

func newStub() *stubRepo {
	return &stubRepo{nextID: 1}
}

func (s *stubRepo) Create(_ context.Context, msg *entity.ContactMessage) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	id := s.nextID
	s.nextID++
	stored := *msg
	stored.ID = id
	s.messages = append(s.messages, &stored)
	return id, nil
}

func (s *stubRepo) ListPaginated(_ context.Context, offset, limit int) ([]*entity.ContactMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	if offset >= len(s.messages) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.messages) {
		end = len(s.messages)
	}
	return s.messages[offset:end], nil
}

func (s *stubRepo) Count(_ context.Context) (int64, error) {
	return int64(len(s.messages)), s.err
}

// stubNotifier records dispatched contact notifications.
type stubNotifier struct {
	contacts atomic.Int32
}

func (s *stubNotifier) NotifyContact(_ context.Context, _ *entity.ContactMessage) error {
	s.contacts.Add(1)
	return nil
}

func (s *stubNotifier) NotifyDigest(_ context.Context, _ string, _ []entity.Post) error {
	return nil
}

func (s *stubNotifier) GetChannelHealth() []notify.ChannelHealthStatus { return nil }
func (s *stubNotifier) Shutdown(_ context.Context) error              { return nil }

func validInput() contactUC.SubmitInput {
	return contactUC.SubmitInput{
		Name:    "Jordan Smith",
		Email:   "jordan@example.com",
		Company: "Acme Co",
		Budget:  entity.Budget5kTo15k,
		Message: "We need a new marketing site.",
	}
}

func TestService_Submit(t *testing.T) {
	repo := newStub()
	notifier := &stubNotifier{}
	svc := &contactUC.Service{Repo: repo, Notifier: notifier}

	msg, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "Jordan Smith", msg.Name)
	assert.False(t, msg.CreatedAt.IsZero())
	require.Len(t, repo.messages, 1)

	assert.Eventually(t, func() bool {
		return notifier.contacts.Load() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestService_Submit_ValidationError(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*contactUC.SubmitInput)
		wantField string
	}{
		{
			name:      "missing name",
			mutate:    func(in *contactUC.SubmitInput) { in.Name = "" },
			wantField: "name",
		},
		{
			name:      "invalid email",
			mutate:    func(in *contactUC.SubmitInput) { in.Email = "not-an-email" },
			wantField: "email",
		},
		{
			name:      "unknown budget",
			mutate:    func(in *contactUC.SubmitInput) { in.Budget = "millions" },
			wantField: "budget",
		},
		{
			name:      "missing message",
			mutate:    func(in *contactUC.SubmitInput) { in.Message = "" },
			wantField: "message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStub()
			svc := &contactUC.Service{Repo: repo, Notifier: &stubNotifier{}}

			in := validInput()
			tt.mutate(&in)

			_, err := svc.Submit(context.Background(), in)

			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Empty(t, repo.messages, "invalid input must not be persisted")
		})
	}
}

func TestService_Submit_RepositoryError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	notifier := &stubNotifier{}
	svc := &contactUC.Service{Repo: repo, Notifier: notifier}

	_, err := svc.Submit(context.Background(), validInput())
	require.Error(t, err)

	// Nothing persisted means nothing to notify about.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), notifier.contacts.Load())
}

func TestService_Submit_WithoutNotifier(t *testing.T) {
	svc := &contactUC.Service{Repo: newStub()}

	msg, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestService_List(t *testing.T) {
	repo := newStub()
	svc := &contactUC.Service{Repo: repo, Notifier: &stubNotifier{}}

	for i := 0; i < 15; i++ {
		_, err := svc.Submit(context.Background(), validInput())
		require.NoError(t, err)
	}

	result, err := svc.List(context.Background(), pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, result.Messages, 5)
	assert.Equal(t, int64(15), result.Pagination.Total)
	assert.Equal(t, 2, result.Pagination.TotalPages)
	assert.False(t, result.Pagination.HasMore)
}
