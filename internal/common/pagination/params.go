package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page  int // 1-based page number
	Limit int // Items per page
}

// ParseQueryParams parses page and limit from the request query string.
//
// Behavior, in order of precedence:
//   - missing parameter: config default
//   - non-numeric parameter: validation error
//   - page <= 0: clamped to 1
//   - limit <= 0: validation error
//   - limit > config.MaxLimit: clamped to the maximum
//
// The clamp-over-reject choices bound response size without turning sloppy
// but well-formed client input into errors.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:  config.DefaultPage,
		Limit: config.DefaultLimit,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return params, fmt.Errorf("invalid query parameter: page must be an integer")
		}
		if page < 1 {
			page = 1
		}
		params.Page = page
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			return params, fmt.Errorf("invalid query parameter: limit must be a positive integer")
		}
		if limit > config.MaxLimit {
			limit = config.MaxLimit
		}
		params.Limit = limit
	}

	return params, nil
}
