// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/modep/console/internal/activity"
	"github.com/modep/console/internal/admin"
	"github.com/modep/console/internal/claim"
	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/contribution"
	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/dashboard"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/health"
	"github.com/modep/console/internal/member"
	"github.com/modep/console/internal/middleware"
	"github.com/modep/console/internal/server"
	"github.com/modep/console/internal/session"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	telemetry, err := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
	if err != nil {
		return err
	}
	if cfg.Otel.Enabled {
		logger.Info("OpenTelemetry tracer initialized",
			"endpoint", cfg.Otel.Endpoint,
		)
	}

	db, err := core.NewDatabase(ctx, cfg.Activity)
	if err != nil {
		return err
	}
	logger.Info("activity store opened", "path", cfg.Activity.Path)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokens, err := session.NewTokenManager(cfg.Session)
	if err != nil {
		return err
	}
	logger.Info("session token manager initialized",
		"algorithm", "HS256",
		"cookie", cfg.Session.CookieName,
	)

	gw := gateway.New(cfg.Backend, telemetry.Tracer)
	logger.Info("backend gateway initialized",
		"base_url", cfg.Backend.BaseURL,
	)

	validate := validator.New()
	isProduction := cfg.App.Environment == "production"

	activityRepo := activity.NewRepository(db.DB)
	if err := activityRepo.Migrate(ctx); err != nil {
		return err
	}
	activitySvc := activity.NewService(
		activityRepo, cfg.Activity.Retain, cfg.Activity.Enabled)

	sessionStore := session.NewStore(redis.Client, cfg.Session.TTL)
	sessionSvc := session.NewService(
		gw, sessionStore, tokens, cfg.Session, isProduction)
	sessionHandler := session.NewHandler(sessionSvc, validate)

	memberSvc := member.NewService(gw, activitySvc)
	memberHandler := member.NewHandler(memberSvc, validate)

	contributionSvc := contribution.NewService(gw, activitySvc)
	contributionHandler := contribution.NewHandler(contributionSvc, validate)

	rosterStore := claim.NewRosterStore(redis.Client, cfg.Session.RosterTTL)
	claimSvc := claim.NewService(gw, rosterStore, activitySvc)
	claimHandler := claim.NewHandler(claimSvc, validate)

	dashboardSvc := dashboard.NewService(gw)
	dashboardHandler := dashboard.NewHandler(dashboardSvc, activitySvc)

	healthHandler := health.NewHandler()
	healthHandler.AddChecker("redis", health.CheckerFunc(redis.Ping))
	healthHandler.AddChecker("activity_store", health.CheckerFunc(db.Ping))
	healthHandler.AddChecker("backend", health.CheckerFunc(gw.Ping))

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:     db.Stats,
		RedisStats:  redis.PoolStats,
		DBPing:      db.Ping,
		RedisPing:   redis.Ping,
		BackendPing: gw.Ping,
		Sessions:    sessionStore,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(isProduction))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticator := middleware.Authenticator(
		sessionSvc, cfg.Session.CookieName)
	staffOnly := middleware.RequireStaff

	loginLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.LoginRequests,
				cfg.RateLimit.LoginBurst,
			),
		},
	).Handler

	// Session-keyed, so it sits behind the authenticator.
	apiLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			KeyFunc:  middleware.KeyBySession,
			FailOpen: true,
		},
	).Handler

	router.Route("/v1", func(r chi.Router) {
		sessionHandler.RegisterRoutes(r, loginLimiter, authenticator)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(apiLimiter)

			memberHandler.RegisterRoutes(r)
			contributionHandler.RegisterRoutes(r)
			claimHandler.RegisterRoutes(r)
			dashboardHandler.RegisterRoutes(r)
		})

		adminHandler.RegisterRoutes(r, authenticator, staffOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "error", err)
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("activity store close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
