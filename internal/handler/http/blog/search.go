package blog

import (
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	"devnest-backend/internal/pkg/search"
	postUC "devnest-backend/internal/usecase/post"
)

// searchData is the data envelope of the search response.
type searchData struct {
	Query      string              `json:"query"`
	Results    []SearchHitDTO      `json:"results"`
	Pagination pagination.Metadata `json:"pagination"`
}

type SearchHandler struct {
	Svc           *postUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP runs ranked full-text search.
// @Summary      Search blog posts
// @Description  Full-text search over title, content and tags of published posts, ranked by relevance. Echoes the query as sent.
// @Tags         blog
// @Produce      json
// @Param        query  path   string  true   "Search terms"
// @Param        page   query  int     false  "Page number (1-based)" default(1)
// @Param        limit  query  int     false  "Items per page" default(10) maximum(100)
// @Success      200 {object} map[string]any "Ranked search results"
// @Failure      400 {string} string "Empty or invalid query"
// @Failure      500 {string} string "Server error"
// @Router       /blog/search/{query} [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	rawQuery := r.PathValue("query")

	result, err := h.Svc.Search(ctx, rawQuery, params)
	if err != nil {
		// Search normalization rejects empty and oversized input; both are
		// client errors with messages safe to return.
		if isQueryValidationError(err) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Error("search failed",
			slog.String("query", rawQuery),
			slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("search served",
		slog.String("query", result.Query),
		slog.Int("hits", len(result.Results)),
		slog.Int64("total", result.Pagination.Total))

	respond.Success(w, http.StatusOK, searchData{
		Query:      result.Query,
		Results:    fromRankedPosts(result.Results),
		Pagination: result.Pagination,
	})
}

func isQueryValidationError(err error) bool {
	return errors.Is(err, search.ErrEmptyQuery) || errors.Is(err, search.ErrQueryTooLong)
}
