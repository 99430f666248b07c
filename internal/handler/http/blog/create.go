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

type createRequest struct {
	Title         string          `json:"title" example:"Shipping Go services without downtime"`
	Slug          string          `json:"slug,omitempty" example:"shipping-go-services"`
	Excerpt       string          `json:"excerpt" example:"What we learned running zero-downtime deploys."`
	Content       string          `json:"content"`
	Author        entity.Author   `json:"author"`
	FeaturedImage *entity.Image   `json:"featuredImage,omitempty"`
	Tags          []string        `json:"tags"`
	Category      string          `json:"category" example:"Development"`
	Featured      bool            `json:"featured"`
	ReadTime      int             `json:"readTime" example:"5"`
	SEO           json.RawMessage `json:"seo,omitempty" swaggertype:"object"`
}

type CreateHandler struct {
	Svc    *postUC.Service
	Logger *slog.Logger
}

// ServeHTTP creates a draft post.
// @Summary      Create a blog post
// @Description  Creates a new draft post. The slug is derived from the title when omitted. Publishing is a separate operation.
// @Tags         blog-admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body createRequest true "New post"
// @Success      201 {object} map[string]any "Created draft"
// @Failure      400 {string} string "Validation error"
// @Failure      401 {string} string "Missing or invalid token"
// @Failure      409 {string} string "Slug already in use"
// @Failure      500 {string} string "Server error"
// @Router       /blog [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.Svc.Create(ctx, postUC.CreateInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		Author:        req.Author,
		FeaturedImage: req.FeaturedImage,
		Tags:          req.Tags,
		Category:      entity.Category(req.Category),
		Featured:      req.Featured,
		ReadTime:      req.ReadTime,
		SEO:           req.SEO,
	})
	if err != nil {
		h.respondCreateError(w, logger, err)
		return
	}

	logger.Info("post created",
		slog.Int64("post_id", post.ID),
		slog.String("slug", post.Slug))

	respond.Success(w, http.StatusCreated, map[string]any{"blog": fromEntity(post, true)})
}

func (h CreateHandler) respondCreateError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, postUC.ErrSlugTaken):
		respond.Error(w, http.StatusConflict, "slug already in use")
	default:
		logger.Error("failed to create post", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}
