// Package repository defines persistence interfaces consumed by the use case
// layer. Concrete implementations live under internal/infra/adapter.
package repository

import (
	"context"
	"errors"

	"devnest-backend/internal/domain/entity"
)

// ErrDuplicateSlug surfaces a unique-index violation on the slug. The use
// case layer pre-checks SlugExists, so hitting this means two writers raced;
// callers treat it the same as a failed pre-check.
var ErrDuplicateSlug = errors.New("slug already in use")

// Sort enumerates the orderings the listing endpoints accept.
type Sort string

const (
	SortNewest Sort = "newest" // published_at descending (default)
	SortOldest Sort = "oldest" // published_at ascending
	SortViews  Sort = "views"  // view count descending
	SortTitle  Sort = "title"  // title ascending
)

// ParseSort maps a client-supplied sort value onto a known Sort. Unknown
// values silently fall back to SortNewest; the listing path never rejects a
// request over an unrecognized sort.
func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortOldest, SortViews, SortTitle:
		return Sort(s)
	default:
		return SortNewest
	}
}

// PostFilter carries the optional listing filters. Zero values mean "no
// constraint"; all set fields combine with logical AND. The published flag
// is not part of the filter: public read paths always imply published=TRUE.
type PostFilter struct {
	Category string // exact category match; unknown values simply match nothing
	Tag      string // tag set membership
	Featured *bool  // exact match on the featured flag
	Search   string // full-text predicate over title, content and tags
}

// CategoryCount is one entry of the category facet.
type CategoryCount struct {
	Name  string
	Count int64
}

// RankedPost pairs a post with its text-relevance score from ranked search.
type RankedPost struct {
	Post  *entity.Post
	Score float64
}

// PostRepository is the persistence contract for blog posts.
//
// Read methods prefixed with a published-only constraint never return draft
// posts. List, search, related, featured and recent results all exclude the
// content column to bound response size; Get methods return it.
type PostRepository interface {
	// ListPublished returns one page of published posts matching the filter,
	// ordered by sort with id as the stable tie-break.
	ListPublished(ctx context.Context, filter PostFilter, sort Sort, offset, limit int) ([]*entity.Post, error)
	// CountPublished returns the number of published posts matching the filter.
	CountPublished(ctx context.Context, filter PostFilter) (int64, error)
	// CategoryCounts returns per-category post counts over published posts,
	// ordered by count descending.
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	// DistinctTags returns the distinct tags used by published posts.
	DistinctTags(ctx context.Context) ([]string, error)

	// GetPublishedBySlug returns the published post with the given slug,
	// or (nil, nil) when no published post carries it.
	GetPublishedBySlug(ctx context.Context, slug string) (*entity.Post, error)
	// IncrementViews atomically bumps the view counter by one. Concurrent
	// calls must all be applied; implementations must not read-modify-write.
	IncrementViews(ctx context.Context, id int64) error
	// Related returns up to limit other published posts sharing the post's
	// category or overlapping its tags, newest first.
	Related(ctx context.Context, post *entity.Post, limit int) ([]*entity.Post, error)

	// SearchRanked runs full-text search over published posts, ordered by
	// descending relevance score. Order among equal scores is unspecified.
	SearchRanked(ctx context.Context, query string, offset, limit int) ([]RankedPost, error)
	// CountSearch returns the number of published posts matching the query.
	CountSearch(ctx context.Context, query string) (int64, error)

	// Featured returns up to limit featured published posts, newest first.
	Featured(ctx context.Context, limit int) ([]*entity.Post, error)
	// Recent returns the newest published posts.
	Recent(ctx context.Context, limit int) ([]*entity.Post, error)
	// TopViewed returns the most viewed published posts, for the digest job.
	TopViewed(ctx context.Context, limit int) ([]*entity.Post, error)

	// GetBySlug returns the post with the given slug regardless of publish
	// state, or (nil, nil) when absent. Editorial surface only.
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	// SlugExists reports whether any post already uses the slug,
	// case-insensitively.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// Create inserts a new post and returns its generated id.
	Create(ctx context.Context, post *entity.Post) (int64, error)
	// Update rewrites the mutable fields of an existing post.
	Update(ctx context.Context, post *entity.Post) error
	// Publish marks the post published, stamping published_at only if it has
	// never been set.
	Publish(ctx context.Context, id int64) error
	// Delete removes a post. Editorial surface only.
	Delete(ctx context.Context, id int64) error
}
