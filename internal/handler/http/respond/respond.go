// Package respond writes the API's JSON response envelope. Success payloads
// are wrapped as {"status":"success","data":...} and errors as
// {"status":"error","message":...}; internal error details never reach the
// client body, only the logs.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"devnest-backend/internal/domain/entity"
)

type envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSON writes an arbitrary value with the given status code.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Headers are already out, so the failure can only be logged.
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Success wraps data in the success envelope.
func Success(w http.ResponseWriter, code int, data any) {
	JSON(w, code, envelope{Status: "success", Data: data})
}

// Error writes the error envelope with the given message verbatim.
// Use only for messages that are safe to show to clients.
func Error(w http.ResponseWriter, code int, message string) {
	JSON(w, code, envelope{Status: "error", Message: message})
}

// SafeError decides whether an error message may reach the client.
// Validation errors carry their field message through; everything else,
// and every 5xx regardless of type, becomes a generic message with the
// real error logged after secret masking.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}

	var vErr *entity.ValidationError
	if code < 500 && errors.As(err, &vErr) {
		Error(w, code, vErr.Message)
		return
	}

	if code < 500 {
		Error(w, code, err.Error())
		return
	}

	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.String("error", SanitizeError(err)))
	Error(w, code, "internal server error")
}
