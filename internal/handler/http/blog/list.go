package blog

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	"devnest-backend/internal/repository"
	postUC "devnest-backend/internal/usecase/post"
)

// listData is the data envelope of the listing response.
type listData struct {
	Blogs      []DTO               `json:"blogs"`
	Pagination pagination.Metadata `json:"pagination"`
	Filters    listFilters         `json:"filters"`
}

type listFilters struct {
	Categories    []CategoryDTO `json:"categories"`
	AvailableTags []string      `json:"availableTags"`
}

type ListHandler struct {
	Svc           *postUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists published posts.
// @Summary      List published blog posts
// @Description  Returns one page of published posts with pagination metadata and category/tag facets. Content is excluded from listing items.
// @Tags         blog
// @Produce      json
// @Param        page      query  int     false  "Page number (1-based)" default(1) minimum(1)
// @Param        limit     query  int     false  "Items per page" default(10) minimum(1) maximum(100)
// @Param        category  query  string  false  "Exact category filter"
// @Param        tag       query  string  false  "Tag membership filter"
// @Param        search    query  string  false  "Full-text filter over title, content, tags"
// @Param        featured  query  bool    false  "Featured flag filter"
// @Param        sort      query  string  false  "newest | oldest | views | title" default(newest)
// @Success      200 {object} map[string]any "Paginated posts with facets"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      500 {string} string "Server error"
// @Router       /blog [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("invalid pagination parameters", slog.Any("error", err))
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		logger.Warn("invalid filter parameters", slog.Any("error", err))
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	in := postUC.ListInput{
		Filter: filter,
		Sort:   repository.ParseSort(r.URL.Query().Get("sort")),
		Params: params,
	}

	result, err := h.Svc.List(ctx, in)
	if err != nil {
		logger.Error("failed to list posts",
			slog.Int("page", params.Page),
			slog.Int("limit", params.Limit),
			slog.Any("error", err))
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	tags := result.Facets.Tags
	if tags == nil {
		tags = []string{}
	}

	pagination.RecordRequest(http.StatusOK, params.Page)

	logger.Info("post listing served",
		slog.Int("page", params.Page),
		slog.Int("count", len(result.Posts)),
		slog.Int64("total", result.Pagination.Total),
		slog.Duration("duration", time.Since(start)))

	respond.Success(w, http.StatusOK, listData{
		Blogs:      fromEntities(result.Posts),
		Pagination: result.Pagination,
		Filters: listFilters{
			Categories:    fromCategoryCounts(result.Facets.Categories),
			AvailableTags: tags,
		},
	})
}

// parseFilter reads the optional listing filters. Only featured can fail,
// when it is present but not a boolean.
func parseFilter(r *http.Request) (repository.PostFilter, error) {
	q := r.URL.Query()
	filter := repository.PostFilter{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("search"),
	}

	if raw := q.Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return repository.PostFilter{}, &invalidParamError{param: "featured"}
		}
		filter.Featured = &featured
	}

	return filter, nil
}

type invalidParamError struct {
	param string
}

func (e *invalidParamError) Error() string {
	return "invalid query parameter: " + e.param
}
