package blog_test

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
	"devnest-backend/internal/handler/http/blog"
	"devnest-backend/internal/repository"
	postUC "devnest-backend/internal/usecase/post"
)

type stubRepo struct {
	posts      []*entity.Post
	total      int64
	categories []repository.CategoryCount
	tags       []string
	bySlug     *entity.Post
	related    []*entity.Post
	ranked     []repository.RankedPost
	rankedN    int64
	err        error

	created   *entity.Post
	updated   *entity.Post
	published []int64
	deleted   []int64
}

func (s *stubRepo) ListPublished(_ context.Context, _ repository.PostFilter, _ repository.Sort, _, _ int) ([]*entity.Post, error) {
	return s.posts, s.err
}

func (s *stubRepo) CountPublished(_ context.Context, _ repository.PostFilter) (int64, error) {
	return s.total, s.err
}

func (s *stubRepo) CategoryCounts(_ context.Context) ([]repository.CategoryCount, error) {
	return s.categories, s.err
}

func (s *stubRepo) DistinctTags(_ context.Context) ([]string, error) {
	return s.tags, s.err
}

func (s *stubRepo) GetPublishedBySlug(_ context.Context, slug string) (*entity.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.bySlug != nil && s.bySlug.Slug == slug {
		return s.bySlug, nil
	}
	return nil, nil
}

func (s *stubRepo) IncrementViews(_ context.Context, _ int64) error { return nil }

func (s *stubRepo) Related(_ context.Context, _ *entity.Post, _ int) ([]*entity.Post, error) {
	return s.related, nil
}

func (s *stubRepo) SearchRanked(_ context.Context, _ string, _, _ int) ([]repository.RankedPost, error) {
	return s.ranked, s.err
}

func (s *stubRepo) CountSearch(_ context.Context, _ string) (int64, error) {
	return s.rankedN, s.err
}

func (s *stubRepo) Featured(_ context.Context, _ int) ([]*entity.Post, error) {
	return s.posts, s.err
}

func (s *stubRepo) Recent(_ context.Context, _ int) ([]*entity.Post, error) {
	return s.posts, s.err
}

func (s *stubRepo) TopViewed(_ context.Context, _ int) ([]*entity.Post, error) {
	return s.posts, s.err
}

func (s *stubRepo) GetBySlug(_ context.Context, slug string) (*entity.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.bySlug != nil && s.bySlug.Slug == slug {
		return s.bySlug, nil
	}
	return nil, nil
}

func (s *stubRepo) SlugExists(_ context.Context, _ string) (bool, error) { return false, s.err }

func (s *stubRepo) Create(_ context.Context, p *entity.Post) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.created = p
	return 42, nil
}

func (s *stubRepo) Update(_ context.Context, p *entity.Post) error {
	s.updated = p
	return s.err
}

func (s *stubRepo) Publish(_ context.Context, id int64) error {
	s.published = append(s.published, id)
	return s.err
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var adminSecret = []byte("0123456789abcdef0123456789abcdef")

func publishedPost(id int64, title string) *entity.Post {
	now := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	published := now.Add(-24 * time.Hour)
	return &entity.Post{
		ID:          id,
		Title:       title,
		Slug:        entity.Slugify(title),
		Excerpt:     "A short excerpt for " + title + ".",
		Content:     "Full content body.",
		Author:      entity.Author{Name: "Dana Reyes"},
		Tags:        []string{"go", "backend"},
		Category:    entity.CategoryDevelopment,
		Published:   true,
		ReadTime:    5,
		Views:       100,
		PublishedAt: &published,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newMux(repo *stubRepo) *http.ServeMux {
	svc := &postUC.Service{Repo: repo}
	mux := http.NewServeMux()
	feedCfg := blog.FeedConfig{
		Title:       "DevNest Studios",
		Description: "Engineering notes from DevNest",
		BaseURL:     "https://devnest.studio",
	}
	blog.Register(mux, svc, pagination.DefaultConfig(), feedCfg, adminSecret, testLogger)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, target, body string, token string) (*httptest.ResponseRecorder, map[string]any) {
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

func TestListHandler(t *testing.T) {
	repo := &stubRepo{
		posts: []*entity.Post{publishedPost(1, "First post"), publishedPost(2, "Second post")},
		total: 12,
		categories: []repository.CategoryCount{
			{Name: "Development", Count: 8},
			{Name: "Design", Count: 4},
		},
		tags: []string{"backend", "go"},
	}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog?page=1&limit=10", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])

	data := body["data"].(map[string]any)
	blogs := data["blogs"].([]any)
	require.Len(t, blogs, 2)

	first := blogs[0].(map[string]any)
	assert.Equal(t, "First post", first["title"])
	assert.Equal(t, "first-post", first["slug"])
	// Listings exclude content.
	assert.NotContains(t, first, "content")

	pg := data["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pg["page"])
	assert.Equal(t, float64(12), pg["total"])
	assert.Equal(t, float64(2), pg["totalPages"])
	assert.Equal(t, true, pg["hasMore"])

	filters := data["filters"].(map[string]any)
	cats := filters["categories"].([]any)
	require.Len(t, cats, 2)
	assert.Equal(t, "Development", cats[0].(map[string]any)["name"])
	assert.Equal(t, []any{"backend", "go"}, filters["availableTags"])
}

func TestListHandlerEmptyResult(t *testing.T) {
	repo := &stubRepo{}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{}, data["blogs"])
	pg := data["pagination"].(map[string]any)
	assert.Equal(t, float64(0), pg["totalPages"])
	assert.Equal(t, false, pg["hasMore"])
}

func TestListHandlerInvalidPage(t *testing.T) {
	rec, body := doJSON(t, newMux(&stubRepo{}), http.MethodGet, "/blog?page=abc", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestListHandlerInvalidFeatured(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}), http.MethodGet, "/blog?featured=maybe", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListHandlerRepositoryError(t *testing.T) {
	repo := &stubRepo{err: errors.New("pq: relation posts does not exist")}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", body["message"])
}

func TestGetHandler(t *testing.T) {
	post := publishedPost(7, "Deep dive")
	repo := &stubRepo{
		bySlug:  post,
		related: []*entity.Post{publishedPost(8, "Also relevant")},
	}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog/deep-dive", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	blogEntry := data["blog"].(map[string]any)
	assert.Equal(t, "Deep dive", blogEntry["title"])
	// Detail includes content.
	assert.Equal(t, "Full content body.", blogEntry["content"])

	related := data["relatedPosts"].([]any)
	require.Len(t, related, 1)
	assert.Equal(t, "also-relevant", related[0].(map[string]any)["slug"])
}

func TestGetHandlerNotFound(t *testing.T) {
	rec, body := doJSON(t, newMux(&stubRepo{}), http.MethodGet, "/blog/no-such-post", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	// The SPA matches on this exact message.
	assert.Equal(t, "Blog post not found", body["message"])
}

func TestFeaturedHandler(t *testing.T) {
	repo := &stubRepo{posts: []*entity.Post{publishedPost(1, "Spotlight")}}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog/featured", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	blogs := body["data"].(map[string]any)["blogs"].([]any)
	require.Len(t, blogs, 1)
	assert.Equal(t, "Spotlight", blogs[0].(map[string]any)["title"])
}

func TestRecentHandler(t *testing.T) {
	repo := &stubRepo{posts: []*entity.Post{publishedPost(1, "Profiling Go allocations")}}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog/recent?limit=3", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	blogs := body["data"].(map[string]any)["blogs"].([]any)
	require.Len(t, blogs, 1)
	first := blogs[0].(map[string]any)
	assert.Equal(t, "Profiling Go allocations", first["title"])
	assert.Equal(t, "profiling-go-allocations", first["slug"])
	// The widget shape carries no body, views or author.
	assert.NotContains(t, first, "content")
	assert.NotContains(t, first, "views")
	assert.NotContains(t, first, "author")
}

func TestRecentHandlerInvalidLimit(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}), http.MethodGet, "/blog/recent?limit=lots", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCategoriesHandler(t *testing.T) {
	repo := &stubRepo{categories: []repository.CategoryCount{
		{Name: "Tutorial", Count: 3},
	}}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog/meta/categories", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	cats := body["data"].(map[string]any)["categories"].([]any)
	require.Len(t, cats, 1)
	assert.Equal(t, "Tutorial", cats[0].(map[string]any)["name"])
	assert.Equal(t, float64(3), cats[0].(map[string]any)["count"])
}

func TestSearchHandler(t *testing.T) {
	repo := &stubRepo{
		ranked: []repository.RankedPost{
			{Post: publishedPost(1, "Go concurrency patterns"), Score: 0.87},
		},
		rankedN: 1,
	}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog/search/go%20concurrency", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "go concurrency", data["query"])

	results := data["results"].([]any)
	require.Len(t, results, 1)
	hit := results[0].(map[string]any)
	assert.Equal(t, "Go concurrency patterns", hit["title"])
	assert.Equal(t, 0.87, hit["score"])
}

func TestSearchHandlerEchoesRawQuery(t *testing.T) {
	repo := &stubRepo{}

	rec, body := doJSON(t, newMux(repo), http.MethodGet, "/blog/search/go%20%20routines", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	// The echoed query keeps the caller's spacing even though the store
	// sees a collapsed form.
	assert.Equal(t, "go  routines", body["data"].(map[string]any)["query"])
}

func TestSearchHandlerEmptyQuery(t *testing.T) {
	// A whitespace-only segment normalizes to nothing.
	rec, body := doJSON(t, newMux(&stubRepo{}), http.MethodGet, "/blog/search/%20%20", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["message"], "empty")
}

func TestFeedHandler(t *testing.T) {
	repo := &stubRepo{posts: []*entity.Post{publishedPost(1, "Feed me")}}

	req := httptest.NewRequest(http.MethodGet, "/blog/feed", nil)
	rec := httptest.NewRecorder()
	newMux(repo).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")

	feed := rec.Body.String()
	assert.Contains(t, feed, `<rss version="2.0">`)
	assert.Contains(t, feed, "<title>Feed me</title>")
	assert.Contains(t, feed, "https://devnest.studio/blog/feed-me")
	assert.Contains(t, feed, "DevNest Studios")
}

func TestCreateHandler(t *testing.T) {
	repo := &stubRepo{}
	payload := `{
		"title": "Brand new post",
		"excerpt": "An excerpt.",
		"content": "Body.",
		"author": {"name": "Dana Reyes"},
		"category": "Development",
		"tags": ["Go", "go", "react"],
		"readTime": 4
	}`

	rec, body := doJSON(t, newMux(repo), http.MethodPost, "/blog", payload, adminToken(t))

	require.Equal(t, http.StatusCreated, rec.Code)
	created := body["data"].(map[string]any)["blog"].(map[string]any)
	assert.Equal(t, float64(42), created["id"])
	assert.Equal(t, "brand-new-post", created["slug"])
	assert.Equal(t, false, created["published"])

	require.NotNil(t, repo.created)
	assert.Equal(t, []string{"Go", "react"}, repo.created.Tags)
}

func TestCreateHandlerRequiresAuth(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}), http.MethodPost, "/blog", `{}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateHandlerValidationError(t *testing.T) {
	payload := `{"title": "", "excerpt": "x", "content": "y", "author": {"name": "A"}, "category": "Development"}`

	rec, body := doJSON(t, newMux(&stubRepo{}), http.MethodPost, "/blog", payload, adminToken(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestCreateHandlerMalformedBody(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}), http.MethodPost, "/blog", `{oops`, adminToken(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateHandlerNotFound(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}), http.MethodPut, "/blog/missing", `{"title":"x"}`, adminToken(t))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateHandlerSlugImmutableOncePublished(t *testing.T) {
	repo := &stubRepo{bySlug: publishedPost(3, "Locked in")}

	rec, body := doJSON(t, newMux(repo), http.MethodPut, "/blog/locked-in", `{"slug":"new-slug"}`, adminToken(t))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, body["message"], "slug")
}

func TestUpdateHandlerChangesTitle(t *testing.T) {
	repo := &stubRepo{bySlug: publishedPost(3, "Old title")}

	rec, body := doJSON(t, newMux(repo), http.MethodPut, "/blog/old-title", `{"title":"New title"}`, adminToken(t))

	require.Equal(t, http.StatusOK, rec.Code)
	updated := body["data"].(map[string]any)["blog"].(map[string]any)
	assert.Equal(t, "New title", updated["title"])
	require.NotNil(t, repo.updated)
	assert.Equal(t, "New title", repo.updated.Title)
}

func TestPublishHandler(t *testing.T) {
	draft := publishedPost(9, "Ready to ship")
	draft.Published = false
	draft.PublishedAt = nil
	repo := &stubRepo{bySlug: draft}

	rec, _ := doJSON(t, newMux(repo), http.MethodPost, "/blog/ready-to-ship/publish", "", adminToken(t))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{9}, repo.published)
}

func TestDeleteHandler(t *testing.T) {
	repo := &stubRepo{bySlug: publishedPost(4, "Goodbye")}

	rec, _ := doJSON(t, newMux(repo), http.MethodDelete, "/blog/goodbye", "", adminToken(t))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []int64{4}, repo.deleted)
}

func TestDeleteHandlerRequiresAuth(t *testing.T) {
	rec, _ := doJSON(t, newMux(&stubRepo{}), http.MethodDelete, "/blog/goodbye", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
