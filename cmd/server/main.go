package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	catalogapp "github.com/retailpos/backend/internal/application/catalog"
	eventapp "github.com/retailpos/backend/internal/application/event"
	identityapp "github.com/retailpos/backend/internal/application/identity"
	inventoryapp "github.com/retailpos/backend/internal/application/inventory"
	salesapp "github.com/retailpos/backend/internal/application/sales"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/sales"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/retailpos/backend/internal/infrastructure/cache"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/event"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/migration"
	"github.com/retailpos/backend/internal/infrastructure/persistence"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
	"github.com/retailpos/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout = 30 * time.Second
	// stock alert handling is retried by the outbox; a processed event
	// is remembered for a day
	handlerIdempotencyTTL = 24 * time.Hour
)

func main() {
	migrateOnStart := flag.Bool("migrate", false, "Apply pending schema migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// zap entries are also exported over OTLP when log export is on
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logProvider.Shutdown(shutdownCtx)
	}()

	log.Info("Starting POS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	if err := run(ctx, cfg, log, *migrateOnStart); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, migrateOnStart bool) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = tracerProvider.Shutdown(shutdownCtx)
		_ = meterProvider.Shutdown(shutdownCtx)
	}()
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbInstrumentation, err := telemetry.NewDBInstrumentation(meter, telemetry.DBConfigFrom(cfg.Telemetry), log)
	if err != nil {
		return err
	}
	if err := db.DB.Use(dbInstrumentation); err != nil {
		return fmt.Errorf("failed to install database instrumentation: %w", err)
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	dbInstrumentation.StartPoolStats(ctx, sqlDB)
	defer dbInstrumentation.Stop()
	log.Info("Database connected")

	if migrateOnStart {
		migrator, err := migration.New(sqlDB, "", log)
		if err != nil {
			return err
		}
		if err := migrator.Up(); err != nil {
			return err
		}
	}

	// Redis is optional. Without it idempotency keys and revoked tokens
	// live in process memory.
	var redisClient redis.UniversalClient
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		redisClient = client
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	idempotency := cache.NewIdempotencyStore(redisClient, log)

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}

	// Repositories
	stores := persistence.NewGormStoreRepository(db.DB)
	categories := persistence.NewGormCategoryRepository(db.DB)
	products := persistence.NewGormProductRepository(db.DB)
	users := persistence.NewGormUserRepository(db.DB)
	transactions := persistence.NewGormTransactionRepository(db.DB)
	movements := persistence.NewGormStockMovementRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	scope := persistence.NewGormTransactionScope(db.DB, func(tx *gorm.DB) shared.OutboxEventSaver {
		return event.NewOutboxPublisher(serializer, event.NewGormOutboxRepository(tx), cfg.Event.MaxRetries)
	})

	businessMetrics, err := telemetry.NewBusinessMetrics(meter, log)
	if err != nil {
		return err
	}

	// Application services
	gate := identity.NewDefaultGate()
	tokens := auth.NewJWTService(cfg.JWT)

	committer := salesapp.NewTransactionCommitter(
		gate,
		salesapp.NewReferentialValidator(stores, users, products, transactions),
		scope.SalesScope(),
		sales.NewTimestampNumberGenerator(),
		log,
		salesapp.CommitterConfig{
			CommitTimeout:  cfg.App.CommitTimeout,
			IdempotencyTTL: cfg.App.IdempotencyTTL,
		},
	)
	committer.SetIdempotencyStore(idempotency)
	committer.SetObserver(businessMetrics)

	authService := identityapp.NewAuthService(users, tokens, blacklist, log)
	storeService := catalogapp.NewStoreService(gate, stores, users, products, transactions)
	productService := catalogapp.NewProductService(gate, stores, categories, products)
	employeeService := identityapp.NewEmployeeService(gate, users, stores, log)
	stockService := inventoryapp.NewStockService(gate, products, movements, scope.InventoryScope(), log)
	queryService := salesapp.NewTransactionQueryService(gate, transactions)
	outboxMonitor := eventapp.NewOutboxMonitor(outboxRepo, cfg.Event.DeadLetterAlert, log)

	// Outbox delivery
	if cfg.Event.ProcessorEnabled {
		bus := event.NewInMemoryEventBus(log)
		stockLow := inventoryapp.NewStockLowHandler(log).
			WithNotifier(inventoryapp.NewMetricsStockAlertNotifier(businessMetrics))
		bus.Subscribe(event.NewIdempotentHandler("stock-low-alert", stockLow, idempotency, handlerIdempotencyTTL, log))

		processor := event.NewOutboxProcessor(outboxRepo, bus, serializer, event.OutboxProcessorConfigFrom(cfg.Event), log)
		if err := processor.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := processor.Stop(stopCtx); err != nil {
				log.Warn("Outbox processor did not stop cleanly", zap.Error(err))
			}
		}()
	}

	// HTTP
	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
		"outbox":   outboxMonitor.Check,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	engine, err := router.NewEngine(router.Config{
		Logger:      log,
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     tracerProvider.IsEnabled(),
		Meter:       meter,
		Gate:        gate,
		Resolver:    auth.NewTenantContextResolver(tokens, blacklist),
		Handlers: router.Handlers{
			System:       handler.NewSystemHandler(cfg.App.Name, version, checks),
			Auth:         handler.NewAuthHandler(authService),
			Stores:       handler.NewStoreHandler(storeService),
			Catalog:      handler.NewCatalogHandler(productService),
			Employees:    handler.NewEmployeeHandler(employeeService),
			Transactions: handler.NewTransactionHandler(committer, queryService),
			Stock:        handler.NewStockHandler(stockService),
		},
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
