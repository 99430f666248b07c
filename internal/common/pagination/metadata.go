package pagination

// Metadata contains pagination metadata included in API responses.
// Field names follow the public JSON contract consumed by the SPA.
type Metadata struct {
	Page       int   `json:"page"`       // Current page number (1-based)
	Limit      int   `json:"limit"`      // Items per page
	Total      int64 `json:"total"`      // Total number of items across all pages
	TotalPages int   `json:"totalPages"` // ceil(total / limit); 0 when empty
	HasMore    bool  `json:"hasMore"`    // Whether a later page exists
}

// NewMetadata derives full metadata from a total count and the request params.
func NewMetadata(params Params, total int64) Metadata {
	totalPages := CalculateTotalPages(total, params.Limit)
	return Metadata{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    params.Page < totalPages,
	}
}
