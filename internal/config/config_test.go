package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ecamposv/mkt-performance-go/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	// Point the file lookup at a path that does not exist so host-local
	// dashboard.yaml files cannot leak into the test.
	t.Setenv("DASHBOARD_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := config.Load()

	if cfg.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Port)
	}
	if cfg.AnomalyThreshold != 5.0 {
		t.Errorf("expected default threshold 5.0, got %f", cfg.AnomalyThreshold)
	}
	if !cfg.AnomaliesEnabled {
		t.Error("expected anomalies enabled by default")
	}
	if len(cfg.CampaignChannels) != 4 {
		t.Errorf("expected 4 default campaign channels, got %v", cfg.CampaignChannels)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("expected default cache ttl 5m, got %v", cfg.CacheTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DASHBOARD_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "9090")
	t.Setenv("ANOMALY_THRESHOLD", "12.5")
	t.Setenv("ANOMALIES_ENABLED", "false")
	t.Setenv("CAMPAIGN_CHANNELS", "Email, Push")

	cfg := config.Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.AnomalyThreshold != 12.5 {
		t.Errorf("expected threshold 12.5, got %f", cfg.AnomalyThreshold)
	}
	if cfg.AnomaliesEnabled {
		t.Error("expected anomalies disabled")
	}
	if len(cfg.CampaignChannels) != 2 || cfg.CampaignChannels[1] != "Push" {
		t.Errorf("expected [Email Push], got %v", cfg.CampaignChannels)
	}
}

func TestLoad_FileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboard.yaml")
	yaml := "anomaly_threshold: 8.0\ncampaign_channels:\n  - Email\n  - WhatsApp\nalert_webhook_url: https://hooks.example.com/mktperf\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("DASHBOARD_FILE", path)

	cfg := config.Load()

	if cfg.AnomalyThreshold != 8.0 {
		t.Errorf("expected threshold 8.0 from file, got %f", cfg.AnomalyThreshold)
	}
	if len(cfg.CampaignChannels) != 2 || cfg.CampaignChannels[0] != "Email" {
		t.Errorf("expected file channels, got %v", cfg.CampaignChannels)
	}
	if cfg.AlertWebhookURL != "https://hooks.example.com/mktperf" {
		t.Errorf("expected webhook url from file, got %s", cfg.AlertWebhookURL)
	}
	// Keys absent from the file keep their defaults.
	if !cfg.AnomaliesEnabled {
		t.Error("expected anomalies to stay enabled")
	}
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nMKTPERF_TEST_A=from_file\nMKTPERF_TEST_B=\"quoted\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("MKTPERF_TEST_A", "from_env")
	t.Setenv("MKTPERF_TEST_B", "")

	if err := config.LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}

	if got := os.Getenv("MKTPERF_TEST_A"); got != "from_env" {
		t.Errorf("expected env to win, got %s", got)
	}
	if got := os.Getenv("MKTPERF_TEST_B"); got != "quoted" {
		t.Errorf("expected quotes stripped, got %s", got)
	}
}
