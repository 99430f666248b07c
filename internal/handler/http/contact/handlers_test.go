package contact_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/handler/http/contact"
	contactUC "devnest-backend/internal/usecase/contact"
)

type stubRepo struct {
	messages []*entity.ContactMessage
	total    int64
	err      error

	created *entity.ContactMessage
}

func (s *stubRepo) Create(_ context.Context, msg *entity.ContactMessage) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.created = msg
	return 7, nil
}

func (s *stubRepo) ListPaginated(_ context.Context, _, _ int) ([]*entity.ContactMessage, error) {
	return s.messages, s.err
}

func (s *stubRepo) Count(_ context.Context) (int64, error) {
	return s.total, s.err
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var adminSecret = []byte("0123456789abcdef0123456789abcdef")

func newMux(repo *stubRepo, rateLimit func(http.Handler) http.Handler) *http.ServeMux {
	svc := &contactUC.Service{Repo: repo}
	mux := http.NewServeMux()
	contact.Register(mux, svc, pagination.DefaultConfig(), rateLimit, adminSecret, testLogger)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func adminToken(t *testing.T) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString(adminSecret)
	require.NoError(t, err)
	return signed
}

func TestSubmitHandler(t *testing.T) {
	repo := &stubRepo{}
	payload := `{
		"name": "Alex Chen",
		"email": "alex@example.com",
		"company": "Acme Corp",
		"budget": "5k-15k",
		"message": "We need a new marketing site."
	}`

	rec, body := doJSON(t, newMux(repo, nil), http.MethodPost, "/contact", payload, "")

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(7), data["id"])
	assert.NotEmpty(t, data["message"])

	require.NotNil(t, repo.created)
	assert.Equal(t, "Alex Chen", repo.created.Name)
	assert.Equal(t, entity.Budget5kTo15k, repo.created.Budget)
}

func TestSubmitHandlerValidationError(t *testing.T) {
	repo := &stubRepo{}
	payload := `{"name": "Alex", "email": "not-an-email", "message": "hi"}`

	rec, body := doJSON(t, newMux(repo, nil), http.MethodPost, "/contact", payload, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Contains(t, body["message"], "email")
	assert.Nil(t, repo.created)
}

func TestSubmitHandlerUnknownBudget(t *testing.T) {
	payload := `{"name": "Alex", "email": "alex@example.com", "budget": "1-dollar", "message": "hi"}`

	rec, _ := doJSON(t, newMux(&stubRepo{}, nil), http.MethodPost, "/contact", payload, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitHandlerMalformedBody(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}, nil), http.MethodPost, "/contact", `{oops`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitHandlerRepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.New("pq: connection refused")}
	payload := `{"name": "Alex", "email": "alex@example.com", "message": "hi"}`

	rec, body := doJSON(t, newMux(repo, nil), http.MethodPost, "/contact", payload, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["message"])
}

func TestSubmitHandlerRateLimited(t *testing.T) {
	var calls int
	limiter := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls > 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	mux := newMux(&stubRepo{}, limiter)
	payload := `{"name": "Alex", "email": "alex@example.com", "message": "hi"}`

	rec, _ := doJSON(t, mux, http.MethodPost, "/contact", payload, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(t, mux, http.MethodPost, "/contact", payload, "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestListHandler(t *testing.T) {
	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	repo := &stubRepo{
		messages: []*entity.ContactMessage{
			{ID: 2, Name: "Beth", Email: "beth@example.com", Budget: entity.BudgetOver50k, Message: "Rebrand.", CreatedAt: now},
			{ID: 1, Name: "Alex", Email: "alex@example.com", Message: "Site.", CreatedAt: now.Add(-time.Hour)},
		},
		total: 2,
	}

	rec, body := doJSON(t, newMux(repo, nil), http.MethodGet, "/contact", "", adminToken(t))

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)

	messages := data["messages"].([]any)
	require.Len(t, messages, 2)
	first := messages[0].(map[string]any)
	assert.Equal(t, float64(2), first["id"])
	assert.Equal(t, "over-50k", first["budget"])

	pg := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pg["total"])
	assert.Equal(t, false, pg["hasMore"])
}

func TestListHandlerRequiresAuth(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}, nil), http.MethodGet, "/contact", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListHandlerInvalidPage(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}, nil), http.MethodGet, "/contact?page=x", "", adminToken(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
