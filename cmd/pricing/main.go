package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/richxcame/limo-booking/db"
	"github.com/richxcame/limo-booking/internal/catalog"
	"github.com/richxcame/limo-booking/internal/quote"
	"github.com/richxcame/limo-booking/internal/settings"
	"github.com/richxcame/limo-booking/pkg/cache"
	"github.com/richxcame/limo-booking/pkg/common"
	"github.com/richxcame/limo-booking/pkg/config"
	"github.com/richxcame/limo-booking/pkg/database"
	"github.com/richxcame/limo-booking/pkg/errors"
	"github.com/richxcame/limo-booking/pkg/httpclient"
	"github.com/richxcame/limo-booking/pkg/logger"
	"github.com/richxcame/limo-booking/pkg/middleware"
	redisclient "github.com/richxcame/limo-booking/pkg/redis"
	"github.com/richxcame/limo-booking/pkg/resilience"
	"github.com/richxcame/limo-booking/pkg/tracing"
	"go.uber.org/zap"
)

const (
	serviceName = "pricing-service"
	version     = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Server.Environment, serviceName); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting pricing service",
		zap.String("service", serviceName),
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("settings_source", cfg.Pricing.SettingsSource),
	)

	sentryEnabled, err := errors.InitSentry(errors.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Server.Environment,
		Release:     version,
		SampleRate:  cfg.Sentry.SampleRate,
		ServerName:  serviceName,
	})
	if err != nil {
		logger.Warn("Failed to initialize Sentry, continuing without error tracking", zap.Error(err))
	} else if sentryEnabled {
		defer errors.Flush(2 * time.Second)
		logger.Info("Sentry error tracking initialized")
	}

	tp, err := tracing.InitTracer(tracing.NewConfig(cfg, version), logger.Get())
	if err != nil {
		logger.Warn("Failed to initialize tracer, continuing without tracing", zap.Error(err))
	} else if tp != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Failed to shutdown tracer", zap.Error(err))
			}
		}()
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db.Migrations, "migrations", cfg.Database.URL()); err != nil {
			logger.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	pool, err := database.NewPostgresPool(startCtx, &cfg.Database, serviceName)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	redisClient, err := redisclient.NewRedisClient(startCtx, &cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("Failed to close redis client", zap.Error(err))
		}
	}()
	cacheManager := cache.NewManager(redisClient)

	var (
		provider        settings.Provider
		settingsHandler *settings.Handler
	)
	switch cfg.Pricing.SettingsSource {
	case config.SettingsSourceRemote:
		var breaker *resilience.CircuitBreaker
		if cfg.Resilience.CircuitBreaker.Enabled {
			cb := cfg.Resilience.CircuitBreaker.SettingsFor("settings-service")
			breaker = resilience.NewCircuitBreaker(resilience.Settings{
				Name:             "settings-service",
				Interval:         time.Duration(cb.IntervalSeconds) * time.Second,
				Timeout:          time.Duration(cb.TimeoutSeconds) * time.Second,
				FailureThreshold: uint32(cb.FailureThreshold),
				SuccessThreshold: uint32(cb.SuccessThreshold),
			}, nil)
		}
		client := httpclient.NewClient(cfg.Pricing.SettingsURL, cfg.Pricing.FetchTimeout(),
			httpclient.WithTracerName("settings-client"))
		provider = settings.NewLoader(client, breaker)
		logger.Info("Pricing settings fetched remotely", zap.String("url", cfg.Pricing.SettingsURL))
	default:
		settingsService := settings.NewService(settings.NewRepository(pool), cacheManager, cfg.Pricing.SettingsCacheTTL())
		provider = settingsService
		settingsHandler = settings.NewHandler(settingsService)
	}

	catalogService := catalog.NewService(catalog.NewRepository(pool), cacheManager, cfg.Pricing.CatalogCacheTTL())
	quoteService := quote.NewService(provider, catalogService, quote.NewStore(cacheManager), cfg.Pricing.QuoteTTL())

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RecoveryWithSentry())
	router.Use(middleware.SentryMiddleware())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	router.Use(middleware.RequestLogger(serviceName))
	router.Use(middleware.CORS(cfg.Server.CORSOrigins))
	router.Use(middleware.Metrics(serviceName))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware(serviceName))
	}
	router.Use(middleware.ErrorHandler())

	router.GET("/healthz", common.HealthCheck(serviceName, version))
	router.GET("/health/live", common.LivenessProbe(serviceName, version))
	router.GET("/health/ready", common.ReadinessProbe(serviceName, version, map[string]common.Check{
		"database": pool.Ping,
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}))
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": serviceName,
			"version": version,
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	if settingsHandler != nil {
		settingsHandler.RegisterRoutes(api)
	}
	catalog.NewHandler(catalogService).RegisterRoutes(api)
	quote.NewHandler(quoteService).RegisterRoutes(api)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server stopped")
}
