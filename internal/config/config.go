package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults;
// engine defaults can additionally come from an optional dashboard.yaml.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Engine defaults
	AnomalyThreshold float64  // share-of-cards percentage
	AnomaliesEnabled bool
	CampaignChannels []string // channels counted into the campaign metric

	// Alerting
	AlertWebhookURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Optional engine-defaults file (see file.go)
	DashboardFile string
}

// Load reads configuration from environment variables with defaults, then
// overlays the optional dashboard.yaml file.
func Load() *Config {
	cfg := &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AnomalyThreshold: getEnvFloat("ANOMALY_THRESHOLD", 5.0),
		AnomaliesEnabled: getEnv("ANOMALIES_ENABLED", "true") == "true",
		CampaignChannels: getEnvList("CAMPAIGN_CHANNELS", []string{"Email", "SMS", "Push", "WhatsApp"}),

		AlertWebhookURL: getEnv("ALERT_WEBHOOK_URL", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 10),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		DashboardFile: getEnv("DASHBOARD_FILE", "dashboard.yaml"),
	}

	// File overrides env defaults for engine settings; a missing file is fine.
	_ = cfg.applyFile(cfg.DashboardFile)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
