// Package pathutil normalizes request paths into low-cardinality templates
// for use as metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// staticPaths pass through unchanged. Listing them explicitly keeps slug
// patterns from swallowing fixed sub-routes like /blog/featured.
var staticPaths = map[string]struct{}{
	"/":                     {},
	"/blog":                 {},
	"/blog/featured":        {},
	"/blog/recent":          {},
	"/blog/feed":            {},
	"/blog/meta/categories": {},
	"/contact":              {},
	"/auth/token":           {},
	"/health":               {},
	"/ready":                {},
	"/live":                 {},
	"/metrics":              {},
}

type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// Evaluated in order, most specific first.
var pathPatterns = []pathPattern{
	{pattern: regexp.MustCompile(`^/blog/search/[^/]+$`), template: "/blog/search/:query"},
	{pattern: regexp.MustCompile(`^/blog/[^/]+/publish$`), template: "/blog/:slug/publish"},
	{pattern: regexp.MustCompile(`^/blog/[^/]+$`), template: "/blog/:slug"},
	{pattern: regexp.MustCompile(`^/swagger(/.*)?$`), template: "/swagger"},
}

// NormalizePath maps dynamic URL paths onto templates so metric labels stay
// bounded regardless of how many slugs or search terms the site serves.
//
// Examples:
//
//	NormalizePath("/blog/shipping-go-services")  // "/blog/:slug"
//	NormalizePath("/blog/search/react%20hooks")  // "/blog/search/:query"
//	NormalizePath("/blog/featured")              // "/blog/featured" (unchanged)
//	NormalizePath("/blog/my-post/publish")       // "/blog/:slug/publish"
//	NormalizePath("/health")                     // "/health" (unchanged)
//
// Query strings and trailing slashes are stripped before matching. Unknown
// paths are returned as-is; the router 404s them before they reach the
// metrics middleware in normal operation.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}

	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}

	return path
}
