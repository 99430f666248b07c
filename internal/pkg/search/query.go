// Package search provides shared helpers for the full-text search path:
// query normalization, bounds and the search timeout applied at the store.
package search

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	// MaxQueryLength bounds search input to keep tsquery parsing cheap.
	MaxQueryLength = 200

	// DefaultSearchTimeout caps how long a single search query may run.
	DefaultSearchTimeout = 5 * time.Second
)

// ErrEmptyQuery is returned for empty or whitespace-only search input.
// Ranked search over nothing is meaningless, so it is rejected rather than
// silently degraded to an unfiltered listing.
var ErrEmptyQuery = fmt.Errorf("search query must not be empty")

// ErrQueryTooLong is returned when the normalized query exceeds
// MaxQueryLength.
var ErrQueryTooLong = fmt.Errorf("search query must not exceed %d characters", MaxQueryLength)

// NormalizeQuery trims the query, collapses internal whitespace runs and
// strips control characters. Returns ErrEmptyQuery when nothing remains and
// ErrQueryTooLong when the query exceeds MaxQueryLength.
func NormalizeQuery(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, raw)

	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return "", ErrEmptyQuery
	}

	query := strings.Join(fields, " ")
	if len(query) > MaxQueryLength {
		return "", ErrQueryTooLong
	}
	return query, nil
}
