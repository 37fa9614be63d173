package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/estatehub/estate-service/internal/api/http"
	"github.com/estatehub/estate-service/internal/api/http/handlers"
	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/config"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/notify"
	"github.com/estatehub/estate-service/internal/observability"
	"github.com/estatehub/estate-service/internal/persistence"
	"github.com/estatehub/estate-service/internal/repository"
	"github.com/estatehub/estate-service/internal/service"
	"github.com/estatehub/estate-service/internal/storage"
	"github.com/estatehub/estate-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
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

	if cfg.Postgres.RunMigrations && pg.PoolHandle() != nil {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	publisher, err := notify.New(cfg.Notification, redis.Client, logger)
	if err != nil {
		logger.Fatal("failed to init notification publisher", zap.Error(err))
	}

	images, err := storage.NewLocalImageStore(cfg.Upload)
	if err != nil {
		logger.Fatal("failed to prepare upload directory", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	inquiryRepo := repository.NewInquiryRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())

	authService := service.NewAuthService(userRepo, tokens, cfg.Auth.BcryptCost, logger)
	propertyService := service.NewPropertyService(service.PropertyDependencies{
		PropertyRepo: propertyRepo,
		Images:       images,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	inquiryService := service.NewInquiryService(inquiryRepo, propertyRepo, dispatcher)
	appointmentService := service.NewAppointmentService(appointmentRepo, propertyRepo, dispatcher, nil)
	notificationService := service.NewNotificationService(dispatcher, publisher, metrics, logger, cfg.Notification)

	stopWorker := worker.StartNotificationWorker(notificationService, publisher, logger)
	defer stopWorker()

	app := httptransport.NewApp(httptransport.AppConfig{
		Name:           cfg.App.Name,
		BodyLimit:      cfg.App.BodyLimitBytes,
		RequestTimeout: cfg.App.RequestTimeout(),
		FrontendURL:    cfg.App.FrontendURL,
		Production:     cfg.IsProduction(),
		Logger:         logger,
		Metrics:        metrics,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:        handlers.NewUsersHandler(authService),
		Properties:   handlers.NewPropertiesHandler(propertyService),
		Inquiries:    handlers.NewInquiriesHandler(inquiryService),
		Appointments: handlers.NewAppointmentsHandler(appointmentService),
		Gate:         auth.NewGate(tokens, metrics),
		UploadDir:    images.Root(),
		Gatherer:     prometheus.DefaultGatherer,
	})

	go func() {
		logger.Info("http server listening",
			zap.String("addr", cfg.App.Addr()),
			zap.String("cors_origin", cfg.App.FrontendURL))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
