package blog

import (
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

// detailData is the data envelope of the detail response.
type detailData struct {
	Blog         DTO   `json:"blog"`
	RelatedPosts []DTO `json:"relatedPosts"`
}

type GetHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP returns one published post by slug.
// @Summary      Get a blog post by slug
// @Description  Returns the full post including content, plus up to three related posts. Drafts and unknown slugs are both 404.
// @Tags         blog
// @Produce      json
// @Param        slug  path  string  true  "Post slug"
// @Success      200 {object} map[string]any "Post with related posts"
// @Failure      404 {string} string "Post not found"
// @Failure      500 {string} string "Server error"
// @Router       /blog/{slug} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	slug := r.PathValue("slug")

	detail, err := h.Svc.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, postUC.ErrPostNotFound) {
			respond.Error(w, http.StatusNotFound, "Blog post not found")
			return
		}
		logger.Error("failed to get post",
			slog.String("slug", slug),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	respond.Success(w, http.StatusOK, detailData{
		Blog:         fromEntity(detail.Post, true),
		RelatedPosts: fromEntities(detail.Related),
	})
}
