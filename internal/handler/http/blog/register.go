package blog

import (
	"log/slog"
	"net/http"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/handler/http/auth"
	postUC "devnest-backend/internal/usecase/post"
)

// Register mounts the blog routes. Fixed sub-routes like /blog/featured are
// registered as literal patterns, which the mux prefers over the {slug}
// wildcard. Write endpoints are wrapped with the admin JWT middleware; all
// read endpoints stay public.
func Register(mux *http.ServeMux, svc *postUC.Service, paginationCfg pagination.Config, feedCfg FeedConfig, jwtSecret []byte, logger *slog.Logger) {
	mux.Handle("GET /blog", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /blog/featured", FeaturedHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /blog/recent", RecentHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /blog/feed", FeedHandler{Svc: svc, Config: feedCfg, Logger: logger})
	mux.Handle("GET /blog/meta/categories", CategoriesHandler{Svc: svc, Logger: logger})
	mux.Handle("GET /blog/search/{query}", SearchHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET /blog/{slug}", GetHandler{Svc: svc, Logger: logger})

	admin := auth.RequireAdmin(jwtSecret)
	mux.Handle("POST /blog", admin(CreateHandler{Svc: svc, Logger: logger}))
	mux.Handle("PUT /blog/{slug}", admin(UpdateHandler{Svc: svc, Logger: logger}))
	mux.Handle("POST /blog/{slug}/publish", admin(PublishHandler{Svc: svc, Logger: logger}))
	mux.Handle("DELETE /blog/{slug}", admin(DeleteHandler{Svc: svc, Logger: logger}))
}
