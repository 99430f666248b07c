package blog

import (
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

type PublishHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP publishes a post.
// @Summary      Publish a blog post
// @Description  Marks the post as published. The publication date is stamped on the first publish only and survives unpublish/republish cycles.
// @Tags         blog-admin
// @Security     BearerAuth
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200 {object} map[string]any "Published"
// @Failure      401 {string} string "Missing or invalid token"
// @Failure      404 {string} string "Post not found"
// @Failure      500 {string} string "Server error"
// @Router       /blog/{slug}/publish [post]
func (h PublishHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	slug := r.PathValue("slug")

	if err := h.Svc.Publish(ctx, slug); err != nil {
		if errors.Is(err, postUC.ErrPostNotFound) {
			respond.Error(w, http.StatusNotFound, "Blog post not found")
			return
		}
		logger.Error("failed to publish post",
			slog.String("slug", slug),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("post published", slog.String("slug", slug))

	respond.Success(w, http.StatusOK, map[string]any{"slug": slug})
}
