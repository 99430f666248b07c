// Package digest implements the periodic content digest: collect the most
// viewed published posts and dispatch them to the notification channels.
// It is driven by the cron scheduler in the worker binary.
package digest

import (
	"context"
	"fmt"
	"log/slog"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/observability/metrics"
	"devnest-backend/internal/repository"
	"devnest-backend/internal/usecase/notify"
)

// DefaultLimit is how many posts a digest carries when no limit is set.
const DefaultLimit = 5

// Service assembles and dispatches content digests.
type Service struct {
	Posts    repository.PostRepository
	Notifier notify.Service

	// Limit caps the number of posts per digest; zero means DefaultLimit.
	Limit int
}

// Run builds one digest from the current top viewed posts and dispatches it.
// An empty catalog is not an error; the digest is simply skipped.
func (s *Service) Run(ctx context.Context) error {
	limit := s.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	posts, err := s.Posts.TopViewed(ctx, limit)
	if err != nil {
		metrics.DigestRuns.WithLabelValues(metrics.ResultError).Inc()
		return fmt.Errorf("top viewed posts: %w", err)
	}

	if len(posts) == 0 {
		slog.Info("digest skipped: no published posts")
		metrics.DigestRuns.WithLabelValues(metrics.ResultOK).Inc()
		return nil
	}

	title := fmt.Sprintf("Most read posts (top %d)", len(posts))

	flat := make([]entity.Post, 0, len(posts))
	for _, p := range posts {
		flat = append(flat, *p)
	}

	_ = s.Notifier.NotifyDigest(ctx, title, flat)

	slog.Info("digest dispatched", slog.Int("posts", len(flat)))
	metrics.DigestRuns.WithLabelValues(metrics.ResultOK).Inc()
	return nil
}
