package auth

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"devnest-backend/internal/handler/http/requestid"
	"devnest-backend/internal/handler/http/respond"

	"github.com/golang-jwt/jwt/v5"
)

type loginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"your_password"`
}

type tokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// TokenHandler exchanges admin credentials for a signed JWT.
//
// @Summary      Obtain an admin JWT
// @Description  Authenticates the admin user and issues a bearer token for the editorial endpoints
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Admin credentials"
// @Success      200 {object} tokenResponse "Signed JWT"
// @Failure      400 {string} string "Malformed request body"
// @Failure      401 {string} string "Invalid credentials"
// @Failure      500 {string} string "Token signing failed"
// @Router       /auth/token [post]
func TokenHandler(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			recordAuthAttempt("failure")
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// Both comparisons always run so response timing does not reveal
		// which of the two fields was wrong.
		userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(cfg.AdminUsername)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.AdminPassword)) == 1
		if !userMatch || !passMatch {
			logger.Warn("authentication failed",
				slog.String("reason", "invalid_credentials"),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()))
			recordAuthAttempt("failure")
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		ttl := cfg.TokenTTL
		if ttl <= 0 {
			ttl = DefaultTokenTTL
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  req.Username,
			"role": "admin",
			"exp":  time.Now().Add(ttl).Unix(),
		})

		signed, err := token.SignedString(cfg.Secret)
		if err != nil {
			logger.Error("token signing failed", slog.Any("error", err))
			recordAuthAttempt("failure")
			respond.Error(w, http.StatusInternalServerError, "token generation failed")
			return
		}

		logger.Info("authentication successful",
			slog.String("username", req.Username),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()))
		recordAuthAttempt("success")

		respond.JSON(w, http.StatusOK, tokenResponse{Token: signed})
	}
}
