// Package config holds the runtime configuration for the API server and
// the digest worker. All values come from environment variables with safe
// defaults, so both binaries start without any configuration in development.
package config

import (
	"fmt"
	"time"

	"devnest-backend/pkg/config"
)

// APIConfig holds the configuration for the API server.
type APIConfig struct {
	// Port is the TCP port the HTTP server listens on.
	Port int

	// ReadTimeout bounds reading the request headers and body.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration

	// IdleTimeout bounds how long keep-alive connections stay open.
	IdleTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	ShutdownTimeout time.Duration

	// RequestTimeout bounds a single request end to end.
	RequestTimeout time.Duration

	// MaxBodyBytes caps the request body size for write endpoints.
	MaxBodyBytes int64

	// ContactRateLimit is the number of contact submissions allowed per
	// client IP within ContactRateWindow.
	ContactRateLimit int

	// ContactRateWindow is the sliding window for contact rate limiting.
	ContactRateWindow time.Duration

	// SiteTitle, SiteDescription and BaseURL describe the public site in
	// the RSS feed. BaseURL also builds absolute links to posts.
	SiteTitle       string
	SiteDescription string
	BaseURL         string

	// Version is reported by the health endpoint.
	Version string
}

// DefaultAPIConfig returns the configuration used when no environment
// variables are set.
func DefaultAPIConfig() APIConfig {
	return APIConfig{
		Port:              8080,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		RequestTimeout:    30 * time.Second,
		MaxBodyBytes:      1 << 20, // 1 MiB
		ContactRateLimit:  5,
		ContactRateWindow: time.Minute,
		SiteTitle:         "DevNest Studios",
		SiteDescription:   "Engineering and design notes from the DevNest team",
		BaseURL:           "http://localhost:8080",
		Version:           "dev",
	}
}

// LoadAPIConfig reads the API configuration from the environment, falling
// back to defaults for unset or unparsable values.
func LoadAPIConfig() (APIConfig, error) {
	cfg := DefaultAPIConfig()

	cfg.Port = config.GetEnvInt("PORT", cfg.Port)
	cfg.ReadTimeout = config.GetEnvDuration("HTTP_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = config.GetEnvDuration("HTTP_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = config.GetEnvDuration("HTTP_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.ShutdownTimeout = config.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.RequestTimeout = config.GetEnvDuration("HTTP_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.MaxBodyBytes = int64(config.GetEnvInt("HTTP_MAX_BODY_BYTES", int(cfg.MaxBodyBytes)))
	cfg.ContactRateLimit = config.GetEnvInt("CONTACT_RATE_LIMIT", cfg.ContactRateLimit)
	cfg.ContactRateWindow = config.GetEnvDuration("CONTACT_RATE_WINDOW", cfg.ContactRateWindow)
	cfg.SiteTitle = config.GetEnvString("SITE_TITLE", cfg.SiteTitle)
	cfg.SiteDescription = config.GetEnvString("SITE_DESCRIPTION", cfg.SiteDescription)
	cfg.BaseURL = config.GetEnvString("SITE_BASE_URL", cfg.BaseURL)
	cfg.Version = config.GetEnvString("APP_VERSION", cfg.Version)

	if err := cfg.Validate(); err != nil {
		return APIConfig{}, err
	}
	return cfg, nil
}

// Validate checks the loaded values and returns the first error found.
func (c *APIConfig) Validate() error {
	if err := config.ValidateIntRange(c.Port, 1, 65535); err != nil {
		return fmt.Errorf("port: %w", err)
	}
	for name, d := range map[string]time.Duration{
		"read timeout":     c.ReadTimeout,
		"write timeout":    c.WriteTimeout,
		"idle timeout":     c.IdleTimeout,
		"shutdown timeout": c.ShutdownTimeout,
		"request timeout":  c.RequestTimeout,
	} {
		if err := config.ValidatePositiveDuration(d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if err := config.ValidateDurationRange(c.ContactRateWindow, time.Second, time.Hour); err != nil {
		return fmt.Errorf("contact window: %w", err)
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("max body bytes must be at least 1024, got %d", c.MaxBodyBytes)
	}
	if c.ContactRateLimit < 1 {
		return fmt.Errorf("contact rate limit must be at least 1, got %d", c.ContactRateLimit)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	return nil
}
