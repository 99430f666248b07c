package contact

import (
	"log/slog"
	"net/http"
	"time"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	contactUC "devnest-backend/internal/usecase/contact"
)

// MessageDTO is the admin-facing JSON shape of a stored inquiry.
type MessageDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   string    `json:"company,omitempty"`
	Budget    string    `json:"budget"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func fromMessages(msgs []*entity.ContactMessage) []MessageDTO {
	out := make([]MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageDTO{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Company:   m.Company,
			Budget:    string(m.Budget),
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}

type listData struct {
	Messages   []MessageDTO        `json:"messages"`
	Pagination pagination.Metadata `json:"pagination"`
}

type ListHandler struct {
	Svc           *contactUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP lists stored inquiries, newest first.
// @Summary      List contact inquiries
// @Description  Returns one page of inquiries for the editorial dashboard.
// @Tags         contact-admin
// @Security     BearerAuth
// @Produce      json
// @Param        page  query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} map[string]any "One page of inquiries"
// @Failure      400 {string} string "Invalid pagination parameters"
// @Failure      401 {string} string "Missing or invalid token"
// @Failure      500 {string} string "Server error"
// @Router       /contact [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.List(ctx, params)
	if err != nil {
		logger.Error("failed to list contact inquiries", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	pagination.RecordRequest(http.StatusOK, params.Page)

	respond.Success(w, http.StatusOK, listData{
		Messages:   fromMessages(result.Messages),
		Pagination: result.Pagination,
	})
}
