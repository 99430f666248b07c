package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"devnest-backend/internal/common/pagination"
	"devnest-backend/internal/config"
	pgRepo "devnest-backend/internal/infra/adapter/persistence/postgres"
	"devnest-backend/internal/infra/db"
	"devnest-backend/internal/infra/notifier"
	"devnest-backend/internal/observability/logging"
	"devnest-backend/internal/observability/tracing"
	"devnest-backend/internal/resilience/circuitbreaker"
	pkgconfig "devnest-backend/pkg/config"

	contactUC "devnest-backend/internal/usecase/contact"
	"devnest-backend/internal/usecase/notify"
	postUC "devnest-backend/internal/usecase/post"

	hhttp "devnest-backend/internal/handler/http"
	hauth "devnest-backend/internal/handler/http/auth"
	hblog "devnest-backend/internal/handler/http/blog"
	hcontact "devnest-backend/internal/handler/http/contact"
	"devnest-backend/internal/handler/http/middleware"
	"devnest-backend/internal/handler/http/requestid"

	_ "devnest-backend/docs" // swagger docs
)

// @title           DevNest Studios API
// @version         1.0
// @description     Backend for the DevNest Studios site: blog listing, search,
// @description     RSS feed and the contact inquiry pipeline.

// @contact.name   DevNest Studios
// @contact.url    https://devnest.studio

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT issued by POST /auth/token, sent as "Bearer {token}".

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.LoadAPIConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	authCfg, err := hauth.LoadConfig()
	if err != nil {
		logger.Error("invalid auth configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	notifySvc := initNotifications(logger)

	handler := buildHandler(logger, cfg, authCfg, database, notifySvc)
	runServer(logger, cfg, handler, notifySvc)
}

// initDatabase opens the connection pool and applies pending migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database, err := db.Open(logger)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// initNotifications builds the notification service from whichever webhook
// channels are configured. With no channels it still returns a working
// service that simply has nothing to dispatch to.
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

// buildHandler wires repositories, services and routes, then wraps the mux
// in the middleware chain.
func buildHandler(logger *slog.Logger, cfg config.APIConfig, authCfg hauth.Config, database *sql.DB, notifySvc notify.Service) http.Handler {
	// Database access goes through a circuit breaker so a dying database
	// fails fast instead of piling up blocked requests.
	breaker := circuitbreaker.NewDBCircuitBreaker(database)

	postSvc := &postUC.Service{Repo: pgRepo.NewPostRepo(breaker)}
	contactSvc := &contactUC.Service{
		Repo:     pgRepo.NewContactRepo(breaker),
		Notifier: notifySvc,
	}

	paginationCfg := pagination.LoadFromEnv()
	feedCfg := hblog.FeedConfig{
		Title:       cfg.SiteTitle,
		Description: cfg.SiteDescription,
		BaseURL:     cfg.BaseURL,
	}

	mux := http.NewServeMux()
	hblog.Register(mux, postSvc, paginationCfg, feedCfg, authCfg.Secret, logger)

	contactLimiter := hhttp.NewRateLimiter(cfg.ContactRateLimit, cfg.ContactRateWindow)
	hcontact.Register(mux, contactSvc, paginationCfg, contactLimiter.Limit, authCfg.Secret, logger)

	// Token issuance gets its own limiter so login attempts cannot starve
	// the contact form, or vice versa.
	authLimiter := hhttp.NewRateLimiter(5, time.Minute)
	mux.Handle("POST /auth/token", authLimiter.Limit(hauth.TokenHandler(authCfg)))

	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Version: cfg.Version, Notifier: notifySvc})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return applyMiddleware(logger, cfg, mux)
}

// applyMiddleware wraps the mux with the shared middleware chain,
// outermost first: CORS, request ID, recovery, logging, timeout,
// body limit, tracing, metrics.
func applyMiddleware(logger *slog.Logger, cfg config.APIConfig, handler http.Handler) http.Handler {
	corsCfg, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("invalid CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("CORS configured",
		slog.Any("allowed_origins", corsCfg.AllowedOrigins),
		slog.Any("allowed_methods", corsCfg.AllowedMethods))

	chain := handler
	chain = hhttp.MetricsMiddleware(chain)
	chain = tracing.Middleware(chain)
	chain = hhttp.LimitRequestBody(cfg.MaxBodyBytes)(chain)
	chain = hhttp.Timeout(cfg.RequestTimeout)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(corsCfg)(chain)
	return chain
}

// runServer starts the HTTP server and blocks until shutdown completes.
func runServer(logger *slog.Logger, cfg config.APIConfig, handler http.Handler, notifySvc notify.Service) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	// Let in-flight webhook deliveries finish before exiting.
	if err := notifySvc.Shutdown(shutdownCtx); err != nil {
		logger.Error("notification shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
