package middleware

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"devnest-backend/pkg/config"
)

// CORSConfig is the CORS policy applied by the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins is the exact-match whitelist of permitted origins,
	// e.g. ["http://localhost:3000", "https://devnest.studio"].
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists methods permitted in cross-origin requests.
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists request headers permitted in preflight.
	AllowedHeaders []string `yaml:"allowed_headers"`

	// AllowCredentials must be true for the Authorization header to
	// survive a cross-origin request.
	AllowCredentials bool `yaml:"allow_credentials"`

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int `yaml:"max_age"`
}

// DefaultCORSConfig permits the local frontend dev server only.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

// LoadCORSConfig builds the policy from two sources layered over the
// defaults: a YAML file named by CORS_CONFIG_FILE, then the
// CORS_ALLOWED_ORIGINS env var (comma-separated) which wins when set.
func LoadCORSConfig() (CORSConfig, error) {
	cfg := DefaultCORSConfig()

	if path := os.Getenv("CORS_CONFIG_FILE"); path != "" {
		fileCfg, err := loadCORSConfigFile(path)
		if err != nil {
			return CORSConfig{}, err
		}
		cfg = mergeCORSConfig(cfg, fileCfg)
	}

	cfg.AllowedOrigins = config.GetEnvStringList("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)

	if err := cfg.validate(); err != nil {
		return CORSConfig{}, err
	}
	return cfg, nil
}

func loadCORSConfigFile(path string) (CORSConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CORSConfig{}, fmt.Errorf("read CORS config %s: %w", path, err)
	}

	var cfg CORSConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CORSConfig{}, fmt.Errorf("parse CORS config %s: %w", path, err)
	}
	return cfg, nil
}

// mergeCORSConfig overlays non-empty fields of override onto base.
func mergeCORSConfig(base, override CORSConfig) CORSConfig {
	if len(override.AllowedOrigins) > 0 {
		base.AllowedOrigins = override.AllowedOrigins
	}
	if len(override.AllowedMethods) > 0 {
		base.AllowedMethods = override.AllowedMethods
	}
	if len(override.AllowedHeaders) > 0 {
		base.AllowedHeaders = override.AllowedHeaders
	}
	if override.MaxAge > 0 {
		base.MaxAge = override.MaxAge
	}
	base.AllowCredentials = base.AllowCredentials || override.AllowCredentials
	return base
}

// validate rejects malformed origins early so a typo in the config file
// fails at startup instead of silently blocking the frontend.
func (c CORSConfig) validate() error {
	for _, origin := range c.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard origin is not allowed with credentials")
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid CORS origin %q", origin)
		}
	}
	return nil
}

func (c CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
