package domain

// ============================================================
// Derived analytics types
// ============================================================

// Granularity selects the aggregation bucket size.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly" // ISO week, starts Monday
	GranularityMonthly Granularity = "monthly"
)

// Valid reports whether g is a recognized granularity.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return true
	}
	return false
}

// DailyLedgerEntry is the normalized join of CRM daily totals and the
// matching origination row for one calendar day. Engine-internal: rebuilt
// fresh on every aggregation call, never persisted.
type DailyLedgerEntry struct {
	Date             Day     `json:"date"`
	CRMProposals     int     `json:"crm_proposals"`
	CRMCards         int     `json:"crm_cards"`
	CRMCost          float64 `json:"crm_cost"`
	CRMBaseDelivered int     `json:"crm_base_delivered"`
	CRMBaseSent      int     `json:"crm_base_sent"`
	CRMCampaignCount int     `json:"crm_campaign_count"`
	TotalProposals   int     `json:"total_proposals"`
	TotalCards       int     `json:"total_cards"`
}

// BucketMetrics is one day/week/month bucket: raw sums plus derived
// ratios. Every ratio degrades to 0 on a zero denominator.
type BucketMetrics struct {
	BucketStart Day         `json:"bucket_start"`
	Granularity Granularity `json:"granularity"`
	DayCount    int         `json:"day_count"`

	// Raw sums
	CRMProposals     int     `json:"crm_proposals"`
	CRMCards         int     `json:"crm_cards"`
	CRMCost          float64 `json:"crm_cost"`
	CRMBaseDelivered int     `json:"crm_base_delivered"`
	CRMBaseSent      int     `json:"crm_base_sent"`
	CRMCampaignCount int     `json:"crm_campaign_count"`
	TotalProposals   int     `json:"total_proposals"`
	TotalCards       int     `json:"total_cards"`

	// Derived
	ShareProposals   float64 `json:"share_proposals"`
	ShareCards       float64 `json:"share_cards"`
	ConversionCRM    float64 `json:"conversion_crm"`
	ConversionTotal  float64 `json:"conversion_total"`
	PerformanceIndex float64 `json:"performance_index"`
	CAC              float64 `json:"cac"`
	DayOfWeek        string  `json:"day_of_week"`
	WeekOfMonth      int     `json:"week_of_month"`
	IsAnomaly        bool    `json:"is_anomaly"`
}

// PeriodSummary aggregates an entire date range. Ratio fields are
// recomputed from the summed period totals, never averaged across buckets.
// A nil summary means "no data" and is distinct from an all-zero summary.
type PeriodSummary struct {
	DateStart Day `json:"date_start"`
	DateEnd   Day `json:"date_end"`

	CRMProposals     int     `json:"crm_proposals"`
	CRMCards         int     `json:"crm_cards"`
	CRMCost          float64 `json:"crm_cost"`
	CRMBaseDelivered int     `json:"crm_base_delivered"`
	CRMBaseSent      int     `json:"crm_base_sent"`
	CRMCampaignCount int     `json:"crm_campaign_count"`
	TotalProposals   int     `json:"total_proposals"`
	TotalCards       int     `json:"total_cards"`

	ShareProposals   float64 `json:"share_proposals"`
	ShareCards       float64 `json:"share_cards"`
	ConversionCRM    float64 `json:"conversion_crm"`
	ConversionTotal  float64 `json:"conversion_total"`
	PerformanceIndex float64 `json:"performance_index"`
	CAC              float64 `json:"cac"`

	DayCount    int `json:"day_count"`
	AnomalyDays int `json:"anomaly_days"`
}

// PeriodComparison exposes deltas between the current period and the
// automatically derived previous period of identical length. Volume
// metrics carry percentage deltas (nil when the previous value is 0);
// rate metrics carry point deltas (current − previous, no division).
type PeriodComparison struct {
	Current  *PeriodSummary `json:"current"`
	Previous *PeriodSummary `json:"previous,omitempty"`

	CRMProposalsPct   *float64 `json:"crm_proposals_pct,omitempty"`
	CRMCardsPct       *float64 `json:"crm_cards_pct,omitempty"`
	CRMCostPct        *float64 `json:"crm_cost_pct,omitempty"`
	TotalProposalsPct *float64 `json:"total_proposals_pct,omitempty"`
	TotalCardsPct     *float64 `json:"total_cards_pct,omitempty"`

	ShareProposalsPts   float64 `json:"share_proposals_pts"`
	ShareCardsPts       float64 `json:"share_cards_pts"`
	ConversionCRMPts    float64 `json:"conversion_crm_pts"`
	ConversionTotalPts  float64 `json:"conversion_total_pts"`
	PerformanceIndexPts float64 `json:"performance_index_pts"`
	CACDelta            float64 `json:"cac_delta"`
}

// Trend classifies the direction of a projected metric.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// ProjectionResult is the month-end extrapolation for one metric key.
// Recomputed on every call; never cached across as-of dates.
type ProjectionResult struct {
	Metric         string  `json:"metric"`
	CurrentTotal   float64 `json:"current_total"`
	ProjectedTotal float64 `json:"projected_total"`
	Trend          Trend   `json:"trend"`
	Confidence     int     `json:"confidence"`
	RemainingDays  int     `json:"remaining_days"`
	DailyPace      float64 `json:"daily_pace"`
	DataPoints     int     `json:"data_points"`
}

// DailyPoint is one day of a flat metric series fed to the projection
// engine.
type DailyPoint struct {
	Date  Day     `json:"date"`
	Value float64 `json:"value"`
}

// Facets lists the distinct values per filter dimension, sorted, for
// building UI filter controls.
type Facets struct {
	BusinessUnits []string `json:"business_units"`
	Channels      []string `json:"channels"`
	Segments      []string `json:"segments"`
	Partners      []string `json:"partners"`
	Journeys      []string `json:"journeys"`
}

// FacetCounts carries per-value activity counts computed over the
// already-filtered collection, so counts reflect the other active filters.
// Values filtered out entirely are omitted rather than listed as zero.
type FacetCounts struct {
	BusinessUnits map[string]int `json:"business_units"`
	Channels      map[string]int `json:"channels"`
	Segments      map[string]int `json:"segments"`
	Partners      map[string]int `json:"partners"`
	Journeys      map[string]int `json:"journeys"`
}

// PaidMediaBucket is one bucket of the paid-media rollup.
type PaidMediaBucket struct {
	BucketStart Day     `json:"bucket_start"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int     `json:"conversions"`
	CTR         float64 `json:"ctr"`
	CPC         float64 `json:"cpc"`
	CPM         float64 `json:"cpm"`
	CPA         float64 `json:"cpa"`
}

// PaidMediaSummary is the paid-media rollup over a range: per-bucket rows
// plus totals with ratios recomputed from the summed totals.
type PaidMediaSummary struct {
	Granularity Granularity       `json:"granularity"`
	Buckets     []PaidMediaBucket `json:"buckets"`
	Spend       float64           `json:"spend"`
	Impressions int64             `json:"impressions"`
	Clicks      int64             `json:"clicks"`
	Conversions int               `json:"conversions"`
	CTR         float64           `json:"ctr"`
	CPC         float64           `json:"cpc"`
	CPM         float64           `json:"cpm"`
	CPA         float64           `json:"cpa"`
}

// PaidMediaFacets lists distinct paid-media dimension values.
type PaidMediaFacets struct {
	Channels   []string `json:"channels"`
	Campaigns  []string `json:"campaigns"`
	Objectives []string `json:"objectives"`
}

// EngineMetrics is the JSON snapshot served by GET /v1/metrics/engine.
type EngineMetrics struct {
	TotalRecomputes  int64   `json:"total_recomputes"`
	AnomaliesFlagged int64   `json:"anomalies_flagged"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	AlertsSent       int64   `json:"alerts_sent"`
	AlertsFailed     int64   `json:"alerts_failed"`
	Period           string  `json:"period"`
}
