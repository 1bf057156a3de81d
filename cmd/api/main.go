package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/jewelry-store/internal/api/http"
	"github.com/spec-kit/jewelry-store/internal/api/http/handlers"
	"github.com/spec-kit/jewelry-store/internal/auth"
	"github.com/spec-kit/jewelry-store/internal/config"
	"github.com/spec-kit/jewelry-store/internal/events"
	"github.com/spec-kit/jewelry-store/internal/observability"
	"github.com/spec-kit/jewelry-store/internal/persistence"
	"github.com/spec-kit/jewelry-store/internal/repository"
	"github.com/spec-kit/jewelry-store/internal/service"
	"github.com/spec-kit/jewelry-store/internal/storage"
	"github.com/spec-kit/jewelry-store/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	blacklist := auth.NewBlacklist()
	blacklist.Start(ctx, cfg.Auth.CleanupInterval(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	imageStore, err := storage.NewDiskStore(cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init image storage", zap.Error(err))
	}

	productCache := persistence.NewProductCache(redis, cfg.Cache.ProductTTL())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:   userRepo,
		TokenMgr:   tokenMgr,
		Blacklist:  blacklist,
		Dispatcher: dispatcher,
	})
	productService := service.NewProductService(productRepo, productCache, dispatcher)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, blacklist)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{BodyLimit: 30 * 1024 * 1024})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigin:  cfg.CORS.Origin,
		Development: cfg.App.IsDevelopment(),
	})

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)
	productsHandler := handlers.NewProductsHandler(productService, imageStore)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Products:       productsHandler,
		AuthMiddleware: authMiddleware,
		UploadsDir:     cfg.Storage.LocalDir,
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
