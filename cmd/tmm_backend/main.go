package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/trakmymedia/internal/adapters"
	portsrepo "github.com/SscSPs/trakmymedia/internal/core/ports/repositories"
	"github.com/SscSPs/trakmymedia/internal/core/services"
	"github.com/SscSPs/trakmymedia/internal/handlers"
	"github.com/SscSPs/trakmymedia/internal/metrics"
	"github.com/SscSPs/trakmymedia/internal/middleware"
	"github.com/SscSPs/trakmymedia/internal/platform/config"
	"github.com/SscSPs/trakmymedia/internal/repositories/cache"
	"github.com/SscSPs/trakmymedia/internal/repositories/database/pgsql"
	"github.com/SscSPs/trakmymedia/internal/repositories/memory"
	"github.com/SscSPs/trakmymedia/internal/utils"
	"github.com/SscSPs/trakmymedia/pkg/database"
)

// @title Trakmymedia API
// @version 1.0
// @description Authentication and session bootstrapping for Trakmymedia.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(reg)

	// --- Intent store and limiter backend ---
	var redisClient *redis.Client
	var intentStore portsrepo.IntentStore = cache.NewMemoryIntentStore()
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
		intentStore = cache.NewRedisIntentStore(redisClient)
		logger.Info("Using redis for navigation intents and rate limits")
	}

	// --- User store ---
	var repos portsrepo.RepositoryProvider
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool, logger)

		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool, intentStore)
	} else {
		logger.Warn("No database configured, users are kept in memory and lost on restart")
		repos = portsrepo.RepositoryProvider{UserRepo: memory.NewUserRepository(), IntentStore: intentStore}
	}

	notifier, closeNotifier, err := adapters.NewWelcomeNotifier(cfg)
	if err != nil {
		logger.Error("Failed to initialize welcome notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := closeNotifier(); cerr != nil {
			logger.Error("Error closing welcome notifier", slog.String("error", cerr.Error()))
		}
	}()
	logger.Info("Welcome notifications configured", slog.String("transport", cfg.Notifier))

	serviceContainer := services.NewServiceContainer(cfg, repos, notifier, recorder)

	signInLimiter, err := middleware.NewLimiter(cfg.SignInRateLimit, "tmm_signin", redisClient)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, metrics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     []string{cfg.FrontendBaseURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.MetricsMiddleware(recorder),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.RouteOptions{
		SignInLimiter: signInLimiter,
		Posthog:       posthogClient,
		Gatherer:      reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}
