package blog

import (
	"log/slog"
	"net/http"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

type CategoriesHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP lists categories with counts.
// @Summary      List categories with post counts
// @Description  Returns every category that has published posts, with its count, ordered by count descending.
// @Tags         blog
// @Produce      json
// @Success      200 {object} map[string]any "Category counts"
// @Failure      500 {string} string "Server error"
// @Router       /blog/meta/categories [get]
func (h CategoriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	counts, err := h.Svc.Categories(ctx)
	if err != nil {
		logger.Error("failed to list categories", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.Success(w, http.StatusOK, map[string]any{"categories": fromCategoryCounts(counts)})
}
