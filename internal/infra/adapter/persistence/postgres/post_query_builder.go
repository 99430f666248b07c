// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"devnest-backend/internal/repository"
)

// PostQueryBuilder builds WHERE and ORDER BY fragments for post listing.
// The WHERE clause is shared between the SELECT and COUNT queries so both
// always agree on the matching set.
type PostQueryBuilder struct{}

// NewPostQueryBuilder creates a new query builder instance.
func NewPostQueryBuilder() *PostQueryBuilder {
	return &PostQueryBuilder{}
}

// BuildWhere builds the WHERE clause and arguments for a public listing.
// published = TRUE is always implied; the optional filters AND onto it.
// Placeholders are numbered from startIndex so callers can append their own.
func (qb *PostQueryBuilder) BuildWhere(filter repository.PostFilter, startIndex int) (clause string, args []interface{}) {
	conditions := []string{"published = TRUE"}
	paramIndex := startIndex

	if filter.Category != "" {
		// Unknown category values are passed through as-is and match nothing;
		// the listing path never rejects a filter value.
		conditions = append(conditions, fmt.Sprintf("category = $%d", paramIndex))
		args = append(args, filter.Category)
		paramIndex++
	}

	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(tags)", paramIndex))
		args = append(args, filter.Tag)
		paramIndex++
	}

	if filter.Featured != nil {
		conditions = append(conditions, fmt.Sprintf("featured = $%d", paramIndex))
		args = append(args, *filter.Featured)
		paramIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"post_search_vector(title, content, tags) @@ plainto_tsquery('english', $%d)", paramIndex))
		args = append(args, filter.Search)
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// OrderBy maps a Sort onto an ORDER BY clause. The id tie-break keeps page
// boundaries reproducible, since posts sharing a sort key would otherwise
// come back in unspecified order.
func (qb *PostQueryBuilder) OrderBy(sort repository.Sort) string {
	switch sort {
	case repository.SortOldest:
		return "ORDER BY published_at ASC, id ASC"
	case repository.SortViews:
		return "ORDER BY views DESC, id ASC"
	case repository.SortTitle:
		return "ORDER BY title ASC, id ASC"
	default:
		return "ORDER BY published_at DESC, id ASC"
	}
}
