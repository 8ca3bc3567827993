package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appshipping "github.com/shipsync/backend/internal/application/shipping"
	"github.com/shipsync/backend/internal/infrastructure/cache"
	"github.com/shipsync/backend/internal/infrastructure/config"
	"github.com/shipsync/backend/internal/infrastructure/logger"
	"github.com/shipsync/backend/internal/infrastructure/persistence"
	"github.com/shipsync/backend/internal/infrastructure/scheduler"
	"github.com/shipsync/backend/internal/infrastructure/shipstation"
	"github.com/shipsync/backend/internal/interfaces/http/handler"
	"github.com/shipsync/backend/internal/interfaces/http/middleware"
	"github.com/shipsync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting ShipSync Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories over the shared bulk upserter
	upserter := persistence.NewBulkUpserter(db.DB, log)
	orderRepo := persistence.NewGormOrderRepository(db.DB, upserter)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB, upserter)
	carrierRepo := persistence.NewGormCarrierRepository(db.DB, upserter)
	carrierServiceRepo := persistence.NewGormCarrierServiceRepository(db.DB, upserter)
	carrierPackageRepo := persistence.NewGormCarrierPackageRepository(db.DB, upserter)

	// Initialize remote API client
	client, err := shipstation.NewClient(&shipstation.Config{
		APIKey:                 cfg.ShipStation.APIKey,
		APISecret:              cfg.ShipStation.APISecret,
		APIBaseURL:             cfg.ShipStation.APIBase,
		TimeoutSeconds:         cfg.ShipStation.TimeoutSeconds,
		Logging:                cfg.ShipStation.Logging,
		DefaultCarrierCode:     cfg.ShipStation.DefaultCarrierCode,
		DefaultServiceCode:     cfg.ShipStation.DefaultServiceCode,
		DefaultConfirmation:    cfg.ShipStation.DefaultConfirmation,
		DefaultInsurance:       cfg.ShipStation.DefaultInsurance,
		DefaultInsuranceAmount: cfg.ShipStation.DefaultInsuranceAmount,
	}, log)
	if err != nil {
		log.Fatal("Failed to create ShipStation client", zap.Error(err))
	}
	if !client.HasCredentials() {
		log.Warn("ShipStation credentials not configured, remote calls will fail until they are set")
	}

	// Initialize application services. No entry linker is wired: orders stay
	// unlinked until a local order source exists to resolve against.
	syncService := appshipping.NewSyncService(
		client, orderRepo, shipmentRepo, carrierRepo, carrierServiceRepo, carrierPackageRepo, nil, log,
	)
	labelService := appshipping.NewLabelService(client, shipmentRepo, nil, log)
	queryService := appshipping.NewQueryService(
		orderRepo, shipmentRepo, carrierRepo, carrierServiceRepo, carrierPackageRepo,
	)

	// Sync state store: redis when enabled, otherwise process-local
	var stateStore cache.SyncStateStore
	if cfg.Redis.Enabled {
		redisStore, err := cache.NewRedisSyncStateStore(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		stateStore = redisStore
		log.Info("Using Redis sync state store",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		stateStore = cache.NewInMemorySyncStateStore()
		log.Info("Using in-memory sync state store")
	}

	// Initialize sync scheduler and worker pool
	executor := scheduler.NewSyncExecutor(syncService, stateStore, log)
	syncScheduler, err := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
		Enabled:           cfg.Scheduler.Enabled,
		MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
		JobTimeout:        cfg.Scheduler.JobTimeout,
		RetryAttempts:     cfg.Scheduler.RetryAttempts,
		RetryDelay:        cfg.Scheduler.RetryDelay,
		SyncInterval:      cfg.Scheduler.SyncInterval,
	}, executor, log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := syncScheduler.Stop(ctx); err != nil {
			log.Error("Error stopping sync scheduler", zap.Error(err))
		}
	}()
	log.Info("Sync scheduler started",
		zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
		zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
	)

	// Periodic sync trigger (if enabled)
	if cfg.Scheduler.Enabled {
		cronTrigger := scheduler.NewSyncCronTrigger(scheduler.SyncCronTriggerConfig{
			SyncInterval: cfg.Scheduler.SyncInterval,
		}, syncScheduler, stateStore, log)
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync cron trigger", zap.Error(err))
		}
		defer cronTrigger.Stop()
		log.Info("Periodic sync enabled", zap.Duration("sync_interval", cfg.Scheduler.SyncInterval))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewShippingHandler(queryService)).
		Register(handler.NewLabelHandler(labelService)).
		Register(handler.NewSyncHandler(syncScheduler, stateStore)).
		Register(handler.NewSystemHandler())
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
