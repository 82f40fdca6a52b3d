package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecamposv/mkt-performance-go/internal/config"
	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/handler"
	"github.com/ecamposv/mkt-performance-go/internal/infra/alert"
	"github.com/ecamposv/mkt-performance-go/internal/infra/cache"
	"github.com/ecamposv/mkt-performance-go/internal/infra/observability"
	"github.com/ecamposv/mkt-performance-go/internal/infra/resilience"
	"github.com/ecamposv/mkt-performance-go/internal/infra/store"
	"github.com/ecamposv/mkt-performance-go/internal/service"

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
		zap.Float64("anomaly_threshold", cfg.AnomalyThreshold),
		zap.Bool("anomalies_enabled", cfg.AnomaliesEnabled),
		zap.Strings("campaign_channels", cfg.CampaignChannels),
		zap.Bool("alert_webhook_configured", cfg.AlertWebhookURL != ""),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "mkt-performance")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Cache ---
	dashboardCache := cache.New[*domain.DashboardResult](cfg.CacheTTL)

	// --- Store ---
	datasets := store.NewMemory()

	// --- Resilience + alert webhook ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("alert-webhook")
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	alerts := alert.NewWebhook(httpClient, cfg.AlertWebhookURL, cb, resilienceCfg, logger)
	if alerts.Enabled() {
		logger.Info("anomaly alert webhook enabled")
	} else {
		logger.Warn("anomaly alert webhook not configured, alerts disabled")
	}

	// --- Service ---
	thresholds := domain.ThresholdConfig{
		AnomalyThreshold: cfg.AnomalyThreshold,
		AnomaliesEnabled: cfg.AnomaliesEnabled,
	}
	svc := service.NewDashboardService(
		datasets,
		dashboardCache,
		alerts,
		metrics,
		logger,
		thresholds,
		cfg.CampaignChannels,
	)

	// --- Router ---
	router := handler.NewRouter(svc, metrics, logger)

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
