package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/mobile_banking_api/internal/core/services"
	"github.com/SscSPs/mobile_banking_api/internal/handlers"
	"github.com/SscSPs/mobile_banking_api/internal/middleware"
	"github.com/SscSPs/mobile_banking_api/internal/platform/config"
	"github.com/SscSPs/mobile_banking_api/internal/repositories/database/pgsql"
	"github.com/SscSPs/mobile_banking_api/internal/utils"
	"github.com/SscSPs/mobile_banking_api/internal/worker"
	"github.com/SscSPs/mobile_banking_api/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Mobile Banking API
// @version 1.0
// @description Accounts, fund transfers and bill payments.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Application stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:        cfg.DBMaxConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	}, logger)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(dbPool, logger)

	if err := runMigrations(cfg, logger); err != nil {
		return err
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	runner := services.NewAsyncRunner(cfg.AsyncWorkers)
	container := services.NewServiceContainer(repos, runner, posthogClient)

	movementLimiter, err := middleware.NewMemoryLimiter(cfg.SensitiveRateLimit)
	if err != nil {
		return err
	}
	globalLimiter, err := middleware.NewMemoryLimiter(cfg.GlobalRateLimit)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.GinMiddlewarize(globalLimiter))
	r.Use(middleware.PosthogMiddleware(posthogClient))
	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, container, handlers.RouteDeps{
		Idempotency:     repos.IdempotencyRepo,
		MovementLimiter: movementLimiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sender worker.Sender = worker.LogSender{}
	if cfg.NotificationWebhookURL != "" {
		sender = worker.NewWebhookSender(cfg.NotificationWebhookURL, cfg.NotificationWebhookSecret, 5*time.Second)
	}
	notifications := worker.NewNotificationWorker(repos.OutboxRepo, sender, logger, cfg.NotificationPollInterval, cfg.NotificationBatchSize)
	scheduler := worker.NewScheduledPaymentRunner(repos.TransactionRepo, container.Transfer, logger, cfg.SchedulerPollInterval, cfg.SchedulerBatchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return notifications.Run(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", slog.String("error", err.Error()))
		}
		if err := runner.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Side effects still running at shutdown", slog.String("error", err.Error()))
		}
		return nil
	})

	return g.Wait()
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.IdempotencyHeader, middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader, middleware.ReplayedHeader}
	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	return c
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
