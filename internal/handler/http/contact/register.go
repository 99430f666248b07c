package contact

import (
	"log/slog"
	"net/http"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/handler/http/auth"
	contactUC "devnest-backend/internal/usecase/contact"
)

// Register mounts the contact routes on mux. The submission endpoint goes
// through the provided rate limiting middleware; the listing endpoint is
// admin only.
func Register(mux *http.ServeMux, svc *contactUC.Service, paginationCfg pagination.Config, rateLimit func(http.Handler) http.Handler, jwtSecret []byte, logger *slog.Logger) {
	submit := http.Handler(SubmitHandler{Svc: svc, Logger: logger})
	if rateLimit != nil {
		submit = rateLimit(submit)
	}
	mux.Handle("POST /contact", submit)

	admin := auth.RequireAdmin(jwtSecret)
	mux.Handle("GET /contact", admin(ListHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger}))
}
