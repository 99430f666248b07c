// Package auth issues and validates the admin JWT used by the editorial
// endpoints. There is a single admin principal configured by environment;
// everything reader-facing stays public.
package auth

import (
	"fmt"
	"os"
	"time"
)

// DefaultTokenTTL is the lifetime of issued tokens.
const DefaultTokenTTL = time.Hour

// minSecretLength guards against trivially brute-forceable HMAC keys.
const minSecretLength = 32

// Config holds the admin credentials and signing secret.
type Config struct {
	AdminUsername string
	AdminPassword string
	Secret        []byte
	TokenTTL      time.Duration
}

// LoadConfig reads ADMIN_USERNAME, ADMIN_PASSWORD, and JWT_SECRET. All three
// are required; a short secret is rejected at startup rather than at the
// first login attempt.
func LoadConfig() (Config, error) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	secret := os.Getenv("JWT_SECRET")

	if username == "" || password == "" {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}
	if len(secret) < minSecretLength {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}

	return Config{
		AdminUsername: username,
		AdminPassword: password,
		Secret:        []byte(secret),
		TokenTTL:      DefaultTokenTTL,
	}, nil
}
