package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crowdfund-service/internal/api/http"
	"github.com/spec-kit/crowdfund-service/internal/api/http/handlers"
	"github.com/spec-kit/crowdfund-service/internal/auth"
	"github.com/spec-kit/crowdfund-service/internal/config"
	"github.com/spec-kit/crowdfund-service/internal/events"
	"github.com/spec-kit/crowdfund-service/internal/observability"
	"github.com/spec-kit/crowdfund-service/internal/persistence"
	"github.com/spec-kit/crowdfund-service/internal/repository"
	"github.com/spec-kit/crowdfund-service/internal/service"
	"github.com/spec-kit/crowdfund-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	// The session store is constructed once here and shared by reference;
	// no package-level singleton.
	var sessionStore auth.SessionStore
	switch cfg.Auth.SessionBackend {
	case "redis":
		sessionStore = auth.NewRedisSessionStore(redis.Client)
		logger.Info("using redis session store")
	default:
		memStore := auth.NewMemorySessionStore(cfg.Auth.SessionSweepInterval())
		defer memStore.Stop()
		sessionStore = memStore
		logger.Info("using in-memory session store")
	}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	sessionManager := auth.NewSessionManager(tokenManager, sessionStore, cfg.Auth.SessionTTL())
	authMiddleware := auth.NewAuthMiddleware(sessionManager)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	campaignRepo := repository.NewCampaignRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, userRepo, sessionManager, dispatcher)
	campaignService := service.NewCampaignService(campaignRepo, dispatcher)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Campaigns:      handlers.NewCampaignsHandler(campaignService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
