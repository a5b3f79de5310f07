package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cashflowpro/forecast-go/internal/config"
	"github.com/cashflowpro/forecast-go/internal/domain"
	"github.com/cashflowpro/forecast-go/internal/handler"
	"github.com/cashflowpro/forecast-go/internal/infra/cache"
	"github.com/cashflowpro/forecast-go/internal/infra/observability"
	"github.com/cashflowpro/forecast-go/internal/infra/resilience"
	"github.com/cashflowpro/forecast-go/internal/infra/supabase"
	"github.com/cashflowpro/forecast-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("default_forecast_days", cfg.DefaultForecastDays),
		zap.Int("max_forecast_days", cfg.MaxForecastDays),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "cashflowpro-forecast")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	forecastCache := cache.New[*domain.ForecastResponse](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Data backend ---
	if cfg.SupabaseURL == "" {
		logger.Warn("SUPABASE_URL not set, API routes will be unavailable")
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	store := supabase.NewClient(
		httpClient,
		cfg.SupabaseURL,
		cfg.SupabaseAnonKey,
		cfg.SupabaseServiceKey,
		cb,
		resilienceCfg,
		logger,
	)

	// --- Services ---
	forecastSvc := service.NewForecastService(
		store, store, store, store,
		forecastCache,
		metrics,
		logger,
		cfg.DefaultForecastDays,
		cfg.MaxForecastDays,
	)

	svcs := handler.Services{
		Forecast:     forecastSvc,
		Export:       service.NewExportService(forecastSvc, logger),
		Rules:        service.NewRulesService(store, forecastSvc, metrics, logger),
		Transactions: service.NewTransactionsService(store, store, forecastSvc, metrics, logger),
		Checkpoints:  service.NewCheckpointsService(store, forecastSvc, metrics, logger),
		Cards:        service.NewCardsService(store, forecastSvc, metrics, logger),
	}

	if cfg.SupabaseURL != "" {
		svcs.Auth = service.NewAuthService(store, logger, cfg.JWTSecret, cfg.JWTAccessTTL)
		logger.Info("auth service enabled")
	} else {
		logger.Warn("auth service: Supabase not configured, auth routes unavailable")
	}

	// --- Router ---
	router := handler.NewRouter(svcs, metrics, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
