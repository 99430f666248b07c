package blog

import (
	"log/slog"
	"net/http"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

type FeaturedHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP lists featured posts.
// @Summary      List featured blog posts
// @Description  Returns up to six featured published posts, newest first, content excluded.
// @Tags         blog
// @Produce      json
// @Success      200 {object} map[string]any "Featured posts"
// @Failure      500 {string} string "Server error"
// @Router       /blog/featured [get]
func (h FeaturedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	posts, err := h.Svc.Featured(ctx)
	if err != nil {
		logger.Error("failed to list featured posts", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.Success(w, http.StatusOK, map[string]any{"blogs": fromEntities(posts)})
}
