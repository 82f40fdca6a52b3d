package domain

// DashboardRequest selects what to compute: bucket granularity, the
// filter specification (including the date range), and whether to derive
// the equivalent previous period for comparison.
type DashboardRequest struct {
	Granularity Granularity `json:"granularity"`
	Filter      FilterSpec  `json:"filter"`
	Compare     bool        `json:"compare"`
}

// DashboardResult is one full recompute: the bucket series at the
// requested granularity, the period summary, and (when requested) the
// previous-period comparison.
type DashboardResult struct {
	Granularity Granularity       `json:"granularity"`
	Buckets     []BucketMetrics   `json:"buckets"`
	Summary     *PeriodSummary    `json:"summary"`
	Comparison  *PeriodComparison `json:"comparison,omitempty"`
}

// ProjectionRequest selects the metric keys and as-of date for month-end
// projections. Filter date bounds are ignored; the projection always works
// on the as-of calendar month at day granularity.
type ProjectionRequest struct {
	Metrics []string   `json:"metrics"`
	AsOf    Day        `json:"as_of"`
	Filter  FilterSpec `json:"filter"`
}

// FacetsResult pairs the distinct dimension values of the full collection
// with per-value counts over the filtered collection.
type FacetsResult struct {
	Values Facets      `json:"values"`
	Counts FacetCounts `json:"counts"`
}
