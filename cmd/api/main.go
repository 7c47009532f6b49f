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

	"github.com/carterperez-dev/rently/internal/admin"
	"github.com/carterperez-dev/rently/internal/agent"
	"github.com/carterperez-dev/rently/internal/analytics"
	"github.com/carterperez-dev/rently/internal/config"
	"github.com/carterperez-dev/rently/internal/core"
	"github.com/carterperez-dev/rently/internal/entitlement"
	"github.com/carterperez-dev/rently/internal/health"
	"github.com/carterperez-dev/rently/internal/listing"
	"github.com/carterperez-dev/rently/internal/middleware"
	"github.com/carterperez-dev/rently/internal/notify"
	"github.com/carterperez-dev/rently/internal/server"
	"github.com/carterperez-dev/rently/internal/viewgate"
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

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	clock := core.SystemClock{}
	notifier := notify.NewRedisNotifier(redis.Client, cfg.Notify.Channel)
	recorder := analytics.NewRedisRecorder(
		redis.Client,
		cfg.Analytics.Stream,
		cfg.Analytics.MaxLength,
	)

	agentRepo := agent.NewRepository(db.DB)
	agentSvc := agent.NewService(
		agentRepo,
		clock,
		notifier,
		recorder,
		cfg.Trial.Duration,
	)
	agentHandler := agent.NewHandler(agentSvc)

	viewRepo := viewgate.NewRepository(db.DB)
	viewSvc := viewgate.NewService(
		viewRepo,
		agentSvc,
		clock,
		notifier,
		recorder,
		cfg.Trial.RevealLimit,
	)
	viewHandler := viewgate.NewHandler(viewSvc)

	entitlementSvc := entitlement.NewService(agentSvc, agentRepo, clock)

	listingRepo := listing.NewRepository(db.DB)
	listingSvc := listing.NewService(listingRepo, entitlementSvc, clock, recorder)
	listingHandler := listing.NewHandler(listingSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))
	// Client identity must run before the rate limiter so KeyByClient
	// buckets by visitor rather than by shared NAT address.
	router.Use(middleware.ClientIdentity(cfg.IsProduction()))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			KeyFunc:  middleware.KeyByClient,
			FailOpen: true,
		}).Handler,
	)

	healthHandler.RegisterRoutes(router)

	router.Route("/v1", func(r chi.Router) {
		agentHandler.RegisterRoutes(r)
		viewHandler.RegisterRoutes(r)
		listingHandler.RegisterRoutes(r)
		adminHandler.RegisterRoutes(r)
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

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
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
