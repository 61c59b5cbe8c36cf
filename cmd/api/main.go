package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/laptop-resale/internal/api/http"
	"github.com/spec-kit/laptop-resale/internal/api/http/handlers"
	"github.com/spec-kit/laptop-resale/internal/auth"
	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/events"
	"github.com/spec-kit/laptop-resale/internal/observability"
	"github.com/spec-kit/laptop-resale/internal/payment"
	"github.com/spec-kit/laptop-resale/internal/persistence"
	"github.com/spec-kit/laptop-resale/internal/repository"
	"github.com/spec-kit/laptop-resale/internal/service"
	"github.com/spec-kit/laptop-resale/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("closing document store", zap.Error(err))
		}
	}()

	var (
		idempotency service.IdempotencyStore
		redisPinger handlers.Pinger
	)
	if cfg.Redis.Addr != "" {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close() //nolint:errcheck
		idempotency = redis
		redisPinger = redis
	} else {
		logger.Info("REDIS_ADDR not provided; payment intent idempotency disabled")
	}

	if cfg.Payment.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not provided; payment intents unavailable")
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := worker.NewNotificationWorker(cfg.Notification.QueueSize, worker.NewDeliverFunc(cfg.Notification), logger)
	worker.StartNotificationWorker(ctx, notifier, service.NewNotificationService(dispatcher, notifier, logger, cfg.Notification))

	userRepo := repository.NewUserRepository(store)
	productRepo := repository.NewProductRepository(store)
	bookingRepo := repository.NewBookingRepository(store)

	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	catalogService := service.NewCatalogService(service.CatalogDependencies{
		CategoryRepo: repository.NewCategoryRepository(store),
		ProductRepo:  productRepo,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	bookingService := service.NewBookingService(bookingRepo, dispatcher, logger)
	paymentService := service.NewPaymentService(cfg.Payment, service.PaymentDependencies{
		Provider:    payment.NewStripeProvider(cfg.Payment),
		Idempotency: idempotency,
		PaymentRepo: repository.NewPaymentRepository(store),
		BookingRepo: bookingRepo,
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	userService := service.NewUserService(userRepo)

	app := httptransport.NewApp(cfg.App.Name, logger)
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			cfg.Store.Driver: store,
			"redis":          redisPinger,
		}, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		Bookings:       handlers.NewBookingsHandler(bookingService),
		Payments:       handlers.NewPaymentsHandler(paymentService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), logger),
		Roles:          authService.RoleAuthorizer(),
	})

	go func() {
		logger.Info("laptop resale server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer drainCancel()
	if err := notifier.Stop(drainCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				_ = pg.Close(ctx)
				return nil, err
			}
		}
		return pg, nil
	case config.StoreDriverMemory:
		logger.Warn("using in-memory document store; data is lost on exit")
		return persistence.NewMemoryStore(), nil
	default:
		return persistence.NewMongo(ctx, cfg.Mongo, logger)
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
