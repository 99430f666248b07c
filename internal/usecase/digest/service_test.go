package digest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/repository"
	"devnest-backend/internal/usecase/digest"
	"devnest-backend/internal/usecase/notify"
)

type stubRepo struct {
	topViewed []*entity.Post
	err       error
	lastLimit int
}

func (s *stubRepo) ListPublished(ctx context.Context, f repository.PostFilter, sort repository.Sort, limit, offset int) ([]*entity.Post, error) {
	return nil, nil
}
func (s *stubRepo) CountPublished(ctx context.Context, f repository.PostFilter) (int64, error) {
	return 0, nil
}
func (s *stubRepo) CategoryCounts(ctx context.Context) ([]repository.CategoryCount, error) {
	return nil, nil
}
func (s *stubRepo) DistinctTags(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubRepo) GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return nil, nil
}
func (s *stubRepo) IncrementViews(ctx context.Context, id int64) error { return nil }
func (s *stubRepo) Related(ctx context.Context, p *entity.Post, limit int) ([]*entity.Post, error) {
	return nil, nil
}
func (s *stubRepo) SearchRanked(ctx context.Context, query string, limit, offset int) ([]repository.RankedPost, error) {
	return nil, nil
}
func (s *stubRepo) CountSearch(ctx context.Context, query string) (int64, error) { return 0, nil }
func (s *stubRepo) Featured(ctx context.Context, limit int) ([]*entity.Post, error) {
	return nil, nil
}
func (s *stubRepo) Recent(ctx context.Context, limit int) ([]*entity.Post, error) {
	return nil, nil
}
func (s *stubRepo) TopViewed(ctx context.Context, limit int) ([]*entity.Post, error) {
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.topViewed, nil
}
func (s *stubRepo) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return nil, nil
}
func (s *stubRepo) SlugExists(ctx context.Context, slug string) (bool, error) { return false, nil }
func (s *stubRepo) Create(ctx context.Context, p *entity.Post) (int64, error) { return 0, nil }
func (s *stubRepo) Update(ctx context.Context, p *entity.Post) error          { return nil }
func (s *stubRepo) Publish(ctx context.Context, id int64) error               { return nil }
func (s *stubRepo) Delete(ctx context.Context, id int64) error                { return nil }

type stubNotifier struct {
	digests   int
	lastTitle string
	lastPosts []entity.Post
}

func (s *stubNotifier) NotifyContact(ctx context.Context, msg *entity.ContactMessage) error {
	return nil
}

func (s *stubNotifier) NotifyDigest(ctx context.Context, title string, posts []entity.Post) error {
	s.digests++
	s.lastTitle = title
	s.lastPosts = posts
	return nil
}

func (s *stubNotifier) GetChannelHealth() []notify.ChannelHealthStatus { return nil }
func (s *stubNotifier) Shutdown(ctx context.Context) error             { return nil }

func topPost(title string, views int64) *entity.Post {
	now := time.Now()
	return &entity.Post{
		ID:        1,
		Title:     title,
		Slug:      entity.Slugify(title),
		Published: true,
		Views:     views,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRunDispatchesTopPosts(t *testing.T) {
	repo := &stubRepo{topViewed: []*entity.Post{
		topPost("Shipping Go services", 420),
		topPost("React performance notes", 310),
	}}
	notifier := &stubNotifier{}
	svc := &digest.Service{Posts: repo, Notifier: notifier}

	err := svc.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, digest.DefaultLimit, repo.lastLimit)
	assert.Equal(t, 1, notifier.digests)
	assert.Equal(t, "Most read posts (top 2)", notifier.lastTitle)
	require.Len(t, notifier.lastPosts, 2)
	assert.Equal(t, "Shipping Go services", notifier.lastPosts[0].Title)
}

func TestRunHonorsConfiguredLimit(t *testing.T) {
	repo := &stubRepo{topViewed: []*entity.Post{topPost("Only one", 9)}}
	svc := &digest.Service{Posts: repo, Notifier: &stubNotifier{}, Limit: 3}

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, 3, repo.lastLimit)
}

func TestRunSkipsEmptyCatalog(t *testing.T) {
	notifier := &stubNotifier{}
	svc := &digest.Service{Posts: &stubRepo{}, Notifier: notifier}

	require.NoError(t, svc.Run(context.Background()))
	assert.Zero(t, notifier.digests)
}

func TestRunRepositoryError(t *testing.T) {
	repoErr := errors.New("connection reset")
	svc := &digest.Service{Posts: &stubRepo{err: repoErr}, Notifier: &stubNotifier{}}

	err := svc.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, repoErr)
}
