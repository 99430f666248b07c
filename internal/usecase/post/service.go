// Package post implements the content query and editorial use cases: paged
// listings with facets, detail reads with related posts and view counting,
// ranked full-text search, and the write operations behind the admin surface.
package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/observability/metrics"
	"devnest-backend/internal/pkg/search"
	"devnest-backend/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	// RelatedLimit caps how many related posts accompany a detail read.
	RelatedLimit = 3

	// FeaturedLimit caps the featured listing.
	FeaturedLimit = 6

	// DefaultRecentLimit is used when the recent endpoint gets no limit.
	DefaultRecentLimit = 5

	// MaxRecentLimit bounds the recent endpoint.
	MaxRecentLimit = 20

	// viewIncrementTimeout bounds the detached view counter update.
	viewIncrementTimeout = 5 * time.Second
)

// Service provides content query and editorial use cases.
// It handles business logic and delegates persistence to the repository.
type Service struct {
	Repo repository.PostRepository
}

// ListInput carries the listing request: filters, ordering and page window.
type ListInput struct {
	Filter repository.PostFilter
	Sort   repository.Sort
	Params pagination.Params
}

// Facets carries the aggregations returned alongside every listing page.
// They are computed over all published posts, not just the current filter,
// so the client can render the full filter UI from any response.
type Facets struct {
	Categories []repository.CategoryCount
	Tags       []string
}

// ListResult is one page of posts plus pagination metadata and facets.
type ListResult struct {
	Posts      []*entity.Post
	Pagination pagination.Metadata
	Facets     Facets
}

// List returns one page of published posts matching the input filter.
// The page, total count and both facets are independent queries, so they run
// concurrently; the first failure cancels the rest.
func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	offset := pagination.CalculateOffset(in.Params.Page, in.Params.Limit)

	var (
		posts      []*entity.Post
		total      int64
		categories []repository.CategoryCount
		tags       []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.Repo.ListPublished(gctx, in.Filter, in.Sort, offset, in.Params.Limit)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.Repo.CountPublished(gctx, in.Filter)
		if err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.Repo.CategoryCounts(gctx)
		if err != nil {
			return fmt.Errorf("category counts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tags, err = s.Repo.DistinctTags(gctx)
		if err != nil {
			return fmt.Errorf("distinct tags: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ListResult{
		Posts:      posts,
		Pagination: pagination.NewMetadata(in.Params, total),
		Facets: Facets{
			Categories: categories,
			Tags:       tags,
		},
	}, nil
}

// Detail is a full post plus up to RelatedLimit related posts.
type Detail struct {
	Post    *entity.Post
	Related []*entity.Post
}

// GetBySlug returns the published post with the given slug and its related
// posts. The view counter is incremented in a detached goroutine after the
// lookup succeeds; a failed increment never fails the read.
// Returns ErrPostNotFound when no published post carries the slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Detail, error) {
	p, err := s.Repo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		metrics.PostDetailRequests.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	if p == nil {
		metrics.PostDetailRequests.WithLabelValues(metrics.ResultNotFound).Inc()
		return nil, ErrPostNotFound
	}

	s.incrementViewsAsync(ctx, p.ID, slug)

	// Only the view increment is best-effort; a failed related lookup
	// fails the read like any other store error.
	related, err := s.Repo.Related(ctx, p, RelatedLimit)
	if err != nil {
		metrics.PostDetailRequests.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("related posts: %w", err)
	}

	metrics.PostDetailRequests.WithLabelValues(metrics.ResultOK).Inc()
	return &Detail{Post: p, Related: related}, nil
}

// incrementViewsAsync bumps the view counter without blocking the response.
// The update runs on a context detached from the request so a client
// disconnect cannot cancel it.
func (s *Service) incrementViewsAsync(ctx context.Context, id int64, slug string) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, viewIncrementTimeout)
		defer cancel()

		if err := s.Repo.IncrementViews(ctx, id); err != nil {
			metrics.ViewIncrementFailures.Inc()
			slog.Error("view counter update failed",
				slog.Int64("post_id", id),
				slog.String("slug", slug),
				slog.Any("error", err))
		}
	}()
}

// SearchResult is one page of ranked search hits.
type SearchResult struct {
	Query      string
	Results    []repository.RankedPost
	Pagination pagination.Metadata
}

// Search runs ranked full-text search over published posts.
// The query is normalized before hitting the store; empty or oversized
// input yields a validation error from the search helpers. The result
// echoes the query exactly as the caller sent it. Hits and the total
// count run concurrently.
func (s *Service) Search(ctx context.Context, rawQuery string, params pagination.Params) (*SearchResult, error) {
	query, err := search.NormalizeQuery(rawQuery)
	if err != nil {
		metrics.SearchRequests.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	offset := pagination.CalculateOffset(params.Page, params.Limit)

	var (
		results []repository.RankedPost
		total   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		results, err = s.Repo.SearchRanked(gctx, query, offset, params.Limit)
		if err != nil {
			return fmt.Errorf("search posts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.Repo.CountSearch(gctx, query)
		if err != nil {
			return fmt.Errorf("count search: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.SearchRequests.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	metrics.SearchRequests.WithLabelValues(metrics.ResultOK).Inc()
	return &SearchResult{
		Query:      rawQuery,
		Results:    results,
		Pagination: pagination.NewMetadata(params, total),
	}, nil
}

// Featured returns up to FeaturedLimit featured published posts, newest
// first.
func (s *Service) Featured(ctx context.Context) ([]*entity.Post, error) {
	posts, err := s.Repo.Featured(ctx, FeaturedLimit)
	if err != nil {
		return nil, fmt.Errorf("featured posts: %w", err)
	}
	return posts, nil
}

// Recent returns the newest published posts. A non-positive limit falls back
// to DefaultRecentLimit; the limit is capped at MaxRecentLimit.
func (s *Service) Recent(ctx context.Context, limit int) ([]*entity.Post, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	posts, err := s.Repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}

// Categories returns per-category post counts over published posts.
func (s *Service) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	counts, err := s.Repo.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	return counts, nil
}

// CreateInput represents the input for creating a new post. The post is
// created as a draft; publishing is a separate operation.
type CreateInput struct {
	Title         string
	Slug          string // optional; derived from the title when empty
	Excerpt       string
	Content       string
	Author        entity.Author
	FeaturedImage *entity.Image
	Tags          []string
	Category      entity.Category
	Featured      bool
	ReadTime      int
	SEO           json.RawMessage
}

// Create creates a new draft post and returns it.
// Returns ErrSlugTaken when the slug is already in use and a ValidationError
// when any field is invalid.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	slug := in.Slug
	if slug == "" {
		slug = entity.Slugify(in.Title)
	}

	p := &entity.Post{
		Title:         in.Title,
		Slug:          slug,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		Author:        in.Author,
		FeaturedImage: in.FeaturedImage,
		Tags:          entity.NormalizeTags(in.Tags),
		Category:      in.Category,
		Featured:      in.Featured,
		ReadTime:      in.ReadTime,
		SEO:           in.SEO,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.Repo.SlugExists(ctx, p.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if taken {
		return nil, ErrSlugTaken
	}

	id, err := s.Repo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	p.ID = id
	return p, nil
}

// UpdateInput represents the input for updating an existing post.
// Fields with nil values are left unchanged.
type UpdateInput struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Content       *string
	Author        *entity.Author
	FeaturedImage *entity.Image
	ClearImage    bool // remove the featured image
	Tags          []string
	Category      *entity.Category
	Featured      *bool
	ReadTime      *int
	SEO           json.RawMessage
}

// Update modifies the post with the given slug.
// Returns ErrPostNotFound when the post does not exist, ErrSlugImmutable
// when renaming a published post, and ErrSlugTaken when the new slug is in
// use.
func (s *Service) Update(ctx context.Context, slug string, in UpdateInput) (*entity.Post, error) {
	p, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return nil, ErrPostNotFound
	}

	if in.Slug != nil && *in.Slug != p.Slug {
		if p.Published {
			return nil, ErrSlugImmutable
		}
		taken, err := s.Repo.SlugExists(ctx, *in.Slug)
		if err != nil {
			return nil, fmt.Errorf("check slug: %w", err)
		}
		if taken {
			return nil, ErrSlugTaken
		}
		p.Slug = *in.Slug
	}

	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Author != nil {
		p.Author = *in.Author
	}
	if in.ClearImage {
		p.FeaturedImage = nil
	} else if in.FeaturedImage != nil {
		p.FeaturedImage = in.FeaturedImage
	}
	if in.Tags != nil {
		p.Tags = entity.NormalizeTags(in.Tags)
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.ReadTime != nil {
		p.ReadTime = *in.ReadTime
	}
	if in.SEO != nil {
		p.SEO = in.SEO
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

// Publish marks the post with the given slug as published. The publication
// timestamp is stamped on first publish only; re-publishing after an
// unpublish keeps the original date.
// Returns ErrPostNotFound when the post does not exist.
func (s *Service) Publish(ctx context.Context, slug string) error {
	p, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return ErrPostNotFound
	}

	if err := s.Repo.Publish(ctx, p.ID); err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	return nil
}

// Delete removes the post with the given slug.
// Returns ErrPostNotFound when the post does not exist.
func (s *Service) Delete(ctx context.Context, slug string) error {
	p, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if p == nil {
		return ErrPostNotFound
	}

	if err := s.Repo.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}
