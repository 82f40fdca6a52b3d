package domain

import "time"

// ============================================================
// Input collections
// ============================================================
// The three collections below arrive already parsed and type-correct from
// the upload/ingestion layer. The engine treats them as read-only.

// DispatchActivity is one CRM campaign send and its funnel counters.
type DispatchActivity struct {
	ID            string  `json:"id"`
	Date          Day     `json:"date"`
	BusinessUnit  string  `json:"business_unit"`
	Channel       string  `json:"channel"`
	Segment       string  `json:"segment"`
	Partner       string  `json:"partner"`
	Journey       string  `json:"journey"`
	BaseSent      int     `json:"base_sent"`
	BaseDelivered int     `json:"base_delivered"`
	Proposals     int     `json:"proposals"`
	Approved      int     `json:"approved"`
	CardsIssued   int     `json:"cards_issued"`
	TotalCost     float64 `json:"total_cost"`
}

// OriginationDailyRow is one calendar day of total-company origination.
// One row per date is expected; see BuildLedger for the duplicate policy.
type OriginationDailyRow struct {
	Date           Day     `json:"date"`
	TotalProposals int     `json:"total_proposals"`
	TotalCards     int     `json:"total_cards"`
	ConversionPct  float64 `json:"conversion_pct"`
	Notes          string  `json:"notes,omitempty"`
}

// PaidMediaDailyRow is one calendar day × campaign of ad spend. Multiple
// rows may share a date (different campaigns) and are summed on rollup.
type PaidMediaDailyRow struct {
	Date        Day     `json:"date"`
	Channel     string  `json:"channel"`
	Campaign    string  `json:"campaign"`
	Objective   string  `json:"objective"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int     `json:"conversions"`
}

// ============================================================
// Engine configuration objects
// ============================================================

// FilterSpec is a multi-dimensional inclusion filter over dispatch
// activities. An empty slice means "unrestricted" on that dimension; a nil
// date bound means unbounded on that side. Bounds are inclusive and
// compared at day granularity.
type FilterSpec struct {
	BusinessUnits []string `json:"business_units,omitempty"`
	Channels      []string `json:"channels,omitempty"`
	Segments      []string `json:"segments,omitempty"`
	Partners      []string `json:"partners,omitempty"`
	Journeys      []string `json:"journeys,omitempty"`
	DateStart     *Day     `json:"date_start,omitempty"`
	DateEnd       *Day     `json:"date_end,omitempty"`
}

// ThresholdConfig controls anomaly flagging in the metrics calculator.
// AnomalyThreshold is a share-of-cards percentage.
type ThresholdConfig struct {
	AnomalyThreshold float64 `json:"anomaly_threshold"`
	AnomaliesEnabled bool    `json:"anomalies_enabled"`
}

// ============================================================
// Dataset bookkeeping
// ============================================================

// DatasetStatus describes one loaded collection.
type DatasetStatus struct {
	Name     string    `json:"name"`
	Rows     int       `json:"rows"`
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}

// AnomalyAlert is the payload posted to the alert webhook when a dashboard
// recompute flags anomaly days.
type AnomalyAlert struct {
	ID          string    `json:"id"`
	Metric      string    `json:"metric"`
	Threshold   float64   `json:"threshold"`
	AnomalyDays int       `json:"anomaly_days"`
	PeriodStart Day       `json:"period_start"`
	PeriodEnd   Day       `json:"period_end"`
	TriggeredAt time.Time `json:"triggered_at"`
}
