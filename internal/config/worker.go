package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"devnest-backend/pkg/config"
)

// WorkerConfig holds the configuration for the digest worker.
type WorkerConfig struct {
	// DigestSchedule is the cron expression for the digest job.
	// Standard five-field format, e.g. "0 9 * * MON".
	DigestSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// DigestLimit is how many top posts a digest includes.
	DigestLimit int

	// RunTimeout bounds a single digest run.
	RunTimeout time.Duration

	// MetricsPort is the port for the worker's metrics and health server.
	MetricsPort int
}

// DefaultWorkerConfig returns the configuration used when no environment
// variables are set: a weekly digest every Monday morning UTC.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		DigestSchedule: "0 9 * * 1",
		Timezone:       "UTC",
		DigestLimit:    5,
		RunTimeout:     2 * time.Minute,
		MetricsPort:    9091,
	}
}

// LoadWorkerConfig reads the worker configuration from the environment,
// falling back to defaults for unset or unparsable values.
func LoadWorkerConfig() (WorkerConfig, error) {
	cfg := DefaultWorkerConfig()

	cfg.DigestSchedule = config.GetEnvString("DIGEST_SCHEDULE", cfg.DigestSchedule)
	cfg.Timezone = config.GetEnvString("WORKER_TIMEZONE", cfg.Timezone)
	cfg.DigestLimit = config.GetEnvInt("DIGEST_LIMIT", cfg.DigestLimit)
	cfg.RunTimeout = config.GetEnvDuration("DIGEST_RUN_TIMEOUT", cfg.RunTimeout)
	cfg.MetricsPort = config.GetEnvInt("WORKER_METRICS_PORT", cfg.MetricsPort)

	if err := cfg.Validate(); err != nil {
		return WorkerConfig{}, err
	}
	return cfg, nil
}

// Validate checks the loaded values and returns the first error found.
func (c *WorkerConfig) Validate() error {
	if _, err := cron.ParseStandard(c.DigestSchedule); err != nil {
		return fmt.Errorf("digest schedule: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	if err := config.ValidateIntRange(c.DigestLimit, 1, 50); err != nil {
		return fmt.Errorf("digest limit: %w", err)
	}
	if err := config.ValidatePositiveDuration(c.RunTimeout); err != nil {
		return fmt.Errorf("run timeout: %w", err)
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		return fmt.Errorf("metrics port: %w", err)
	}
	return nil
}

// Location resolves the configured timezone. Validate must have passed.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
