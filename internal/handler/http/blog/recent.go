package blog

import (
	"log/slog"
	"net/http"
	"strconv"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

type RecentHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP lists the newest posts.
// @Summary      List recent blog posts
// @Description  Returns the newest published posts, content excluded. The limit defaults to 5 and is capped at 20.
// @Tags         blog
// @Produce      json
// @Param        limit  query  int  false  "Number of posts" default(5) minimum(1) maximum(20)
// @Success      200 {object} map[string]any "Recent posts"
// @Failure      400 {string} string "Invalid limit"
// @Failure      500 {string} string "Server error"
// @Router       /blog/recent [get]
func (h RecentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid query parameter: limit must be an integer")
			return
		}
		limit = parsed
	}

	posts, err := h.Svc.Recent(ctx, limit)
	if err != nil {
		logger.Error("failed to list recent posts", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.Success(w, http.StatusOK, map[string]any{"blogs": fromEntitiesRecent(posts)})
}
