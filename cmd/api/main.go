package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/youssefbibani/platform-sport/internal/api"
	"github.com/youssefbibani/platform-sport/internal/api/handler"
	"github.com/youssefbibani/platform-sport/internal/api/middleware"
	"github.com/youssefbibani/platform-sport/internal/application"
	"github.com/youssefbibani/platform-sport/internal/config"
	"github.com/youssefbibani/platform-sport/internal/infrastructure/postgres"
	"github.com/youssefbibani/platform-sport/internal/infrastructure/redis"
	"github.com/youssefbibani/platform-sport/internal/pkg/clock"
	"github.com/youssefbibani/platform-sport/internal/pkg/logger"
	"github.com/youssefbibani/platform-sport/internal/pkg/metrics"
	"github.com/youssefbibani/platform-sport/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	logger.Set(logger.NewLogger(cfg.Log.Env, cfg.Log.Level))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.RunMigrations(db.DB, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	m := metrics.Init()
	clk := clock.NewSystem()

	// Redis is optional: without it the capacity cache is off and the sweeper runs unlocked.
	var (
		capacityCache application.CapacityCache
		locker        worker.Locker
		redisClient   *goredis.Client
	)
	if rc, err := redis.NewClient(ctx, &cfg.Redis); err != nil {
		logger.Warn("redis unavailable, running without cache", zap.Error(err))
	} else {
		redisClient = rc
		defer redisClient.Close()
		capacityCache = redis.NewCapacityCache(redisClient, cfg.Redis.CapacityCacheTTL)
		locker = sweepLocks{redis.NewLockManager(redisClient, m)}
	}

	eventRepo := postgres.NewEventRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)
	ledger := postgres.NewCapacityLedger(db)
	txManager := postgres.NewTxManager(db)

	eventService := application.NewEventService(eventRepo, capacityCache, clk)
	participationService := application.NewParticipationService(txManager, eventRepo, participationRepo, ledger, capacityCache, m, clk)
	moderationService := application.NewModerationService(eventRepo, capacityCache, m, clk)
	favoriteService := application.NewFavoriteService(favoriteRepo, eventRepo, clk)

	e := newServer(cfg, m, handler.Handlers{
		Health:        handler.NewHealthHandler(dependencies(db, redisClient)...),
		Events:        handler.NewEventHandler(eventService),
		Participation: handler.NewParticipationHandler(participationService),
		Moderation:    handler.NewModerationHandler(moderationService),
		Favorites:     handler.NewFavoriteHandler(favoriteService),
	})

	sweeper := worker.NewEventCompletionSweeper(eventRepo, locker, capacityCache, m, clk, cfg.Worker.CompletionInterval, cfg.Worker.LockTTL)
	go sweeper.Start(ctx)

	go func() {
		logger.Info("starting server", zap.String("addr", e.Server.Addr))
		if err := e.StartServer(e.Server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	sweeper.Stop()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newServer(cfg *config.Config, m *metrics.Metrics, h handler.Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	e.Server.Addr = ":" + cfg.Server.Port
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.SetupMiddleware(e)
	e.Use(middleware.PrometheusMiddleware(m))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(&cfg.Auth))
	handler.RegisterRoutes(e, h, middleware.Identity(&cfg.Auth))
	return e
}

func dependencies(db *sqlx.DB, rc *goredis.Client) []handler.Dependency {
	deps := []handler.Dependency{{
		Name: "postgres",
		Ping: func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}}
	if rc != nil {
		deps = append(deps, handler.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redis.Ping(ctx, rc) },
		})
	}
	return deps
}

// sweepLocks hands redis locks to the sweeper as leases.
type sweepLocks struct {
	*redis.LockManager
}

func (l sweepLocks) TryLock(ctx context.Context, key string, ttl time.Duration) (worker.Lease, bool, error) {
	lock, acquired, err := l.LockManager.TryLock(ctx, key, ttl)
	if err != nil || !acquired {
		return nil, acquired, err
	}
	return lock, true, nil
}
