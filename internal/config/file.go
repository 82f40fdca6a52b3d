package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape of the optional dashboard.yaml. Only engine
// defaults live here — operational settings (port, timeouts, endpoints)
// stay in the environment. Pointer fields so an absent key leaves the env
// default untouched.
type fileConfig struct {
	AnomalyThreshold *float64 `yaml:"anomaly_threshold"`
	AnomaliesEnabled *bool    `yaml:"anomalies_enabled"`
	CampaignChannels []string `yaml:"campaign_channels"`
	AlertWebhookURL  *string  `yaml:"alert_webhook_url"`
}

// applyFile overlays engine defaults from a yaml file. A missing file is
// not an error; a malformed one is.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.AnomalyThreshold != nil {
		c.AnomalyThreshold = *fc.AnomalyThreshold
	}
	if fc.AnomaliesEnabled != nil {
		c.AnomaliesEnabled = *fc.AnomaliesEnabled
	}
	if len(fc.CampaignChannels) > 0 {
		c.CampaignChannels = fc.CampaignChannels
	}
	if fc.AlertWebhookURL != nil {
		c.AlertWebhookURL = *fc.AlertWebhookURL
	}
	return nil
}
