package blog

import (
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

type DeleteHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP deletes a post.
// @Summary      Delete a blog post
// @Description  Permanently removes the post with the given slug.
// @Tags         blog-admin
// @Security     BearerAuth
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      204 {string} string "Deleted"
// @Failure      401 {string} string "Missing or invalid token"
// @Failure      404 {string} string "Post not found"
// @Failure      500 {string} string "Server error"
// @Router       /blog/{slug} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	slug := r.PathValue("slug")

	if err := h.Svc.Delete(ctx, slug); err != nil {
		if errors.Is(err, postUC.ErrPostNotFound) {
			respond.Error(w, http.StatusNotFound, "Blog post not found")
			return
		}
		logger.Error("failed to delete post",
			slog.String("slug", slug),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("post deleted", slog.String("slug", slug))

	w.WriteHeader(http.StatusNoContent)
}
