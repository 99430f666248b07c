package blog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	postUC "devnest-backend/internal/usecase/post"
)

// updateRequest carries a partial update; absent fields stay unchanged.
// clearImage removes the featured image, since JSON cannot distinguish an
// absent featuredImage from an explicit null through a pointer field.
type updateRequest struct {
	Title         *string          `json:"title,omitempty"`
	Slug          *string          `json:"slug,omitempty"`
	Excerpt       *string          `json:"excerpt,omitempty"`
	Content       *string          `json:"content,omitempty"`
	Author        *entity.Author   `json:"author,omitempty"`
	FeaturedImage *entity.Image    `json:"featuredImage,omitempty"`
	ClearImage    bool             `json:"clearImage,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	Category      *entity.Category `json:"category,omitempty"`
	Featured      *bool            `json:"featured,omitempty"`
	ReadTime      *int             `json:"readTime,omitempty"`
	SEO           json.RawMessage  `json:"seo,omitempty" swaggertype:"object"`
}

type UpdateHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP applies a partial update to a post.
// @Summary      Update a blog post
// @Description  Partially updates the post with the given slug. The slug itself is immutable once the post is published.
// @Tags         blog-admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        slug    path  string         true  "Post slug"
// @Param        request body  updateRequest  true  "Fields to change"
// @Success      200 {object} map[string]any "Updated post"
// @Failure      400 {string} string "Validation error"
// @Failure      401 {string} string "Missing or invalid token"
// @Failure      404 {string} string "Post not found"
// @Failure      409 {string} string "Slug conflict"
// @Failure      500 {string} string "Server error"
// @Router       /blog/{slug} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	slug := r.PathValue("slug")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Svc.Update(ctx, slug, postUC.UpdateInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Author:        req.Author,
		FeaturedImage: req.FeaturedImage,
		ClearImage:    req.ClearImage,
		Tags:          req.Tags,
		Category:      req.Category,
		Featured:      req.Featured,
		ReadTime:      req.ReadTime,
		SEO:           req.SEO,
	})
	if err != nil {
		h.respondUpdateError(w, logger, slug, err)
		return
	}

	logger.Info("post updated",
		slog.Int64("post_id", post.ID),
		slog.String("slug", post.Slug))

	respond.Success(w, http.StatusOK, map[string]any{"blog": fromEntity(post, true)})
}

func (h UpdateHandler) respondUpdateError(w http.ResponseWriter, logger *slog.Logger, slug string, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.Is(err, postUC.ErrPostNotFound):
		respond.Error(w, http.StatusNotFound, "Blog post not found")
	case errors.Is(err, postUC.ErrSlugImmutable):
		respond.Error(w, http.StatusConflict, "slug cannot change after publication")
	case errors.Is(err, postUC.ErrSlugTaken):
		respond.Error(w, http.StatusConflict, "slug already in use")
	case errors.As(err, &vErr):
		respond.SafeError(w, http.StatusBadRequest, err)
	default:
		logger.Error("failed to update post",
			slog.String("slug", slug),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
