// Package contact exposes the contact pipeline over HTTP: a public,
// rate limited submission endpoint and an admin-only inquiry listing.
package contact

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/handler/http/respond"
	"devnest-backend/internal/observability/logging"
	contactUC "devnest-backend/internal/usecase/contact"
)

type submitRequest struct {
	Name    string `json:"name" example:"Alex Chen"`
	Email   string `json:"email" example:"alex@example.com"`
	Company string `json:"company,omitempty" example:"Acme Corp"`
	Budget  string `json:"budget" example:"5k-15k"`
	Message string `json:"message" example:"We need a new marketing site."`
}

type submitData struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type SubmitHandler struct {
	Svc    *contactUC.Service
	Logger *slog.Logger
}

// ServeHTTP accepts a contact form submission.
// @Summary      Submit a contact inquiry
// @Description  Validates and stores an inquiry, then notifies the team. Rate limited per client IP.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request body submitRequest true "Inquiry"
// @Success      201 {object} map[string]any "Stored inquiry"
// @Failure      400 {string} string "Validation error"
// @Failure      429 {string} string "Too many requests"
// @Failure      500 {string} string "Server error"
// @Router       /contact [post]
func (h SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.WithRequestID(ctx, h.Logger)

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.Svc.Submit(ctx, contactUC.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Budget:  entity.Budget(req.Budget),
		Message: req.Message,
	})
	if err != nil {
		var vErr *entity.ValidationError
		if errors.As(err, &vErr) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		logger.Error("failed to store contact inquiry", slog.Any("error", err))
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("contact inquiry received",
		slog.Int64("contact_id", msg.ID),
		slog.String("company", msg.Company))

	respond.Success(w, http.StatusCreated, submitData{
		ID:      msg.ID,
		Message: "thanks for reaching out, we will get back to you shortly",
	})
}
