package pathutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"devnest-backend/internal/handler/http/pathutil"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"listing", "/blog", "/blog"},
		{"slug", "/blog/shipping-go-services", "/blog/:slug"},
		{"another slug", "/blog/why-we-chose-postgres", "/blog/:slug"},
		{"slug with trailing slash", "/blog/shipping-go-services/", "/blog/:slug"},
		{"slug with query", "/blog/shipping-go-services?ref=newsletter", "/blog/:slug"},
		{"publish action", "/blog/shipping-go-services/publish", "/blog/:slug/publish"},
		{"search", "/blog/search/react", "/blog/search/:query"},
		{"search with encoded space", "/blog/search/react%20hooks", "/blog/search/:query"},
		{"featured stays static", "/blog/featured", "/blog/featured"},
		{"recent stays static", "/blog/recent", "/blog/recent"},
		{"feed stays static", "/blog/feed", "/blog/feed"},
		{"categories stays static", "/blog/meta/categories", "/blog/meta/categories"},
		{"contact", "/contact", "/contact"},
		{"auth token", "/auth/token", "/auth/token"},
		{"health", "/health", "/health"},
		{"metrics", "/metrics", "/metrics"},
		{"swagger ui", "/swagger/index.html", "/swagger"},
		{"swagger root", "/swagger", "/swagger"},
		{"root", "/", "/"},
		{"unknown passes through", "/totally/unknown", "/totally/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pathutil.NormalizePath(tt.path))
		})
	}
}

func BenchmarkNormalizePath(b *testing.B) {
	paths := []string{
		"/blog",
		"/blog/shipping-go-services",
		"/blog/search/react",
		"/blog/featured",
		"/health",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pathutil.NormalizePath(paths[i%len(paths)])
	}
}
