// The worker runs the scheduled digest job: on a cron schedule it looks up
// the most viewed posts and sends them to the configured webhook channels.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/robfig/cron/v3"

	"devnest-backend/internal/config"
	pgRepo "devnest-backend/internal/infra/adapter/persistence/postgres"
	"devnest-backend/internal/infra/db"
	"devnest-backend/internal/infra/notifier"
	"devnest-backend/internal/observability/logging"
	"devnest-backend/internal/resilience/circuitbreaker"
	"devnest-backend/internal/usecase/digest"
	"devnest-backend/internal/usecase/notify"
	pkgconfig "devnest-backend/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		logger.Error("invalid worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("schedule", cfg.DigestSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.Int("digest_limit", cfg.DigestLimit),
		slog.Duration("run_timeout", cfg.RunTimeout))

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifySvc := initNotifications(logger)

	svc := &digest.Service{
		Posts:    pgRepo.NewPostRepo(circuitbreaker.NewDBCircuitBreaker(database)),
		Notifier: notifySvc,
		Limit:    cfg.DigestLimit,
	}

	startMetricsServer(ctx, logger, cfg.MetricsPort, notifySvc)

	scheduler := cron.New(cron.WithLocation(cfg.Location()))
	_, err = scheduler.AddFunc(cfg.DigestSchedule, func() {
		runDigest(logger, svc, cfg.RunTimeout)
	})
	if err != nil {
		logger.Error("failed to schedule digest job", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("worker started",
		slog.String("schedule", cfg.DigestSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutting down worker")

	// Stop accepting new runs, then let an in-flight run and pending
	// webhook deliveries finish.
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(cfg.RunTimeout):
		logger.Warn("digest run did not finish before shutdown deadline")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := notifySvc.Shutdown(shutdownCtx); err != nil {
		logger.Error("notification shutdown failed", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

// initDatabase opens the connection pool and waits for the API's migrations
// to land, since the worker does not run them itself.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)
	return database
}

func waitForMigrations(logger *slog.Logger, database *sql.DB) {
	const probe = "SELECT 1 FROM posts LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := database.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

// initNotifications builds the notification service from the configured
// webhook channels.
func initNotifications(logger *slog.Logger) notify.Service {
	var channels []notify.Channel

	discordCfg := notifier.LoadDiscordConfig(logger)
	if discordCfg.Enabled {
		channels = append(channels, notify.NewDiscordChannel(discordCfg))
		logger.Info("discord channel enabled")
	}

	slackCfg := notifier.LoadSlackConfig(logger)
	if slackCfg.Enabled {
		channels = append(channels, notify.NewSlackChannel(slackCfg))
		logger.Info("slack channel enabled")
	}

	maxConcurrent := pkgconfig.GetEnvInt("NOTIFY_MAX_CONCURRENT", 4)
	logger.Info("notification service initialized",
		slog.Int("channels", len(channels)),
		slog.Int("max_concurrent", maxConcurrent))

	return notify.NewService(channels, maxConcurrent)
}

// runDigest executes one digest run with a timeout.
func runDigest(logger *slog.Logger, svc *digest.Service, timeout time.Duration) {
	start := time.Now()
	logger.Info("digest run started")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := svc.Run(ctx); err != nil {
		logger.Error("digest run failed",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)))
		return
	}

	logger.Info("digest run completed", slog.Duration("duration", time.Since(start)))
}
