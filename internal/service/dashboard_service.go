// Package service orchestrates the dashboard engine: it pulls dataset
// snapshots from the store, runs the pure engine pipeline, memoizes results,
// records metrics, and fires anomaly alerts. All heavy computation lives in
// internal/engine; this layer owns caching, concurrency and delivery.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/engine"
	"github.com/ecamposv/mkt-performance-go/internal/infra/observability"
	"github.com/ecamposv/mkt-performance-go/internal/port"
)

var tracer = otel.Tracer("mkt-performance-go/service")

const alertDeliveryTimeout = 10 * time.Second

// ProjectionMetrics are the metric keys the projection endpoint accepts.
var ProjectionMetrics = []string{
	"crm_proposals",
	"crm_cards",
	"crm_cost",
	"total_proposals",
	"total_cards",
	"spend",
	"cac",
}

// DashboardService computes dashboard views over the loaded datasets.
type DashboardService struct {
	store   port.DatasetStore
	cache   port.Cache[*domain.DashboardResult]
	alerts  port.AlertSink
	metrics *observability.Metrics
	logger  *zap.Logger

	thresholds       domain.ThresholdConfig
	campaignChannels []string

	// generation is bumped on every dataset replace so stale cache entries
	// can never be served; TTL alone is not enough after an upload.
	generation atomic.Int64
}

// NewDashboardService wires the service with its dependencies.
func NewDashboardService(
	store port.DatasetStore,
	cache port.Cache[*domain.DashboardResult],
	alerts port.AlertSink,
	metrics *observability.Metrics,
	logger *zap.Logger,
	thresholds domain.ThresholdConfig,
	campaignChannels []string,
) *DashboardService {
	return &DashboardService{
		store:            store,
		cache:            cache,
		alerts:           alerts,
		metrics:          metrics,
		logger:           logger,
		thresholds:       thresholds,
		campaignChannels: campaignChannels,
	}
}

// ============================================================
// Dataset loading
// ============================================================

// LoadActivities replaces the dispatch-activity collection.
func (s *DashboardService) LoadActivities(ctx context.Context, rows []domain.DispatchActivity) (domain.DatasetStatus, error) {
	ctx, span := tracer.Start(ctx, "service.LoadActivities")
	defer span.End()

	for i, r := range rows {
		if r.Date.IsZero() {
			return domain.DatasetStatus{}, &domain.ErrValidation{
				Field:   fmt.Sprintf("rows[%d].date", i),
				Message: "date is required",
			}
		}
	}

	status := s.store.ReplaceActivities(ctx, rows)
	s.afterReplace(status)
	return status, nil
}

// LoadOrigination replaces the origination-daily collection.
func (s *DashboardService) LoadOrigination(ctx context.Context, rows []domain.OriginationDailyRow) (domain.DatasetStatus, error) {
	ctx, span := tracer.Start(ctx, "service.LoadOrigination")
	defer span.End()

	for i, r := range rows {
		if r.Date.IsZero() {
			return domain.DatasetStatus{}, &domain.ErrValidation{
				Field:   fmt.Sprintf("rows[%d].date", i),
				Message: "date is required",
			}
		}
	}

	status := s.store.ReplaceOrigination(ctx, rows)
	s.afterReplace(status)
	return status, nil
}

// LoadPaidMedia replaces the paid-media collection.
func (s *DashboardService) LoadPaidMedia(ctx context.Context, rows []domain.PaidMediaDailyRow) (domain.DatasetStatus, error) {
	ctx, span := tracer.Start(ctx, "service.LoadPaidMedia")
	defer span.End()

	for i, r := range rows {
		if r.Date.IsZero() {
			return domain.DatasetStatus{}, &domain.ErrValidation{
				Field:   fmt.Sprintf("rows[%d].date", i),
				Message: "date is required",
			}
		}
	}

	status := s.store.ReplacePaidMedia(ctx, rows)
	s.afterReplace(status)
	return status, nil
}

func (s *DashboardService) afterReplace(status domain.DatasetStatus) {
	s.generation.Add(1)
	s.metrics.SetDatasetRows(status.Name, status.Rows)
	s.logger.Info("dataset replaced",
		zap.String("dataset", status.Name),
		zap.Int("rows", status.Rows),
		zap.String("version", status.Version),
	)
}

// DatasetStatus lists the loaded collections.
func (s *DashboardService) DatasetStatus(ctx context.Context) []domain.DatasetStatus {
	ctx, span := tracer.Start(ctx, "service.DatasetStatus")
	defer span.End()
	return s.store.Status(ctx)
}

// ============================================================
// Dashboard
// ============================================================

// GetDashboard runs the full pipeline for one request: filter, normalize,
// aggregate, derive, summarize — and, when requested, the same pipeline
// over the automatically derived previous period, concurrently.
func (s *DashboardService) GetDashboard(ctx context.Context, req domain.DashboardRequest) (*domain.DashboardResult, error) {
	ctx, span := tracer.Start(ctx, "service.GetDashboard")
	defer span.End()
	span.SetAttributes(
		attribute.String("granularity", string(req.Granularity)),
		attribute.Bool("compare", req.Compare),
	)

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("dashboard", time.Since(start))
	}()

	if req.Granularity == "" {
		req.Granularity = domain.GranularityDaily
	}
	if !req.Granularity.Valid() {
		return nil, &domain.ErrValidation{Field: "granularity", Message: "must be daily, weekly or monthly"}
	}
	if req.Filter.DateStart != nil && req.Filter.DateEnd != nil &&
		req.Filter.DateEnd.Before(req.Filter.DateStart.Time) {
		return nil, &domain.ErrInvalidRange{Start: req.Filter.DateStart.Key(), End: req.Filter.DateEnd.Key()}
	}
	if req.Compare && (req.Filter.DateStart == nil || req.Filter.DateEnd == nil) {
		return nil, &domain.ErrValidation{Field: "date_start", Message: "comparison requires an explicit date range"}
	}

	key := s.dashboardKey(req)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("dashboard")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("dashboard")

	activities := s.store.Activities(ctx)
	origination := s.store.Origination(ctx)
	if len(activities) == 0 && len(origination) == 0 {
		return nil, &domain.ErrNoData{Resource: "datasets"}
	}

	var (
		buckets     []domain.BucketMetrics
		summary     *domain.PeriodSummary
		prevSummary *domain.PeriodSummary
	)

	var g errgroup.Group
	g.Go(func() error {
		buckets, summary = s.computePeriod(activities, origination, req.Filter, req.Granularity)
		return nil
	})
	if req.Compare {
		prevStart, prevEnd, err := engine.PreviousRange(*req.Filter.DateStart, *req.Filter.DateEnd)
		if err != nil {
			return nil, err
		}
		prevSpec := req.Filter
		prevSpec.DateStart = &prevStart
		prevSpec.DateEnd = &prevEnd
		g.Go(func() error {
			_, prevSummary = s.computePeriod(activities, origination, prevSpec, req.Granularity)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &domain.DashboardResult{
		Granularity: req.Granularity,
		Buckets:     buckets,
		Summary:     summary,
	}
	if req.Compare {
		result.Comparison = engine.Compare(summary, prevSummary)
	}

	s.metrics.IncrRecompute(string(req.Granularity))
	if summary != nil {
		s.metrics.AddAnomalyDays(summary.AnomalyDays)
		if summary.AnomalyDays > 0 {
			s.dispatchAlert(summary)
		}
	}

	s.cache.Set(key, result)
	return result, nil
}

// computePeriod runs the pure engine pipeline for one filter spec. The
// summary always comes from daily buckets so AnomalyDays is a true day
// count regardless of the requested bucket granularity.
func (s *DashboardService) computePeriod(
	activities []domain.DispatchActivity,
	origination []domain.OriginationDailyRow,
	spec domain.FilterSpec,
	g domain.Granularity,
) ([]domain.BucketMetrics, *domain.PeriodSummary) {
	filtered := engine.ApplyFilter(activities, spec)
	clipped := engine.ClipOrigination(origination, spec.DateStart, spec.DateEnd)
	ledger := engine.BuildLedger(filtered, clipped, s.campaignChannels)

	daily := engine.ApplyDerived(engine.Aggregate(ledger, domain.GranularityDaily), s.thresholds)
	summary := engine.Summarize(daily)
	if summary != nil {
		// Report the requested period, not just the span of days that
		// happened to carry data.
		if spec.DateStart != nil {
			summary.DateStart = *spec.DateStart
		}
		if spec.DateEnd != nil {
			summary.DateEnd = *spec.DateEnd
		}
	}

	buckets := daily
	if g != domain.GranularityDaily {
		buckets = engine.ApplyDerived(engine.Aggregate(ledger, g), s.thresholds)
	}
	return buckets, summary
}

// dispatchAlert fires the anomaly webhook asynchronously. Delivery must
// never block or fail the dashboard request.
func (s *DashboardService) dispatchAlert(summary *domain.PeriodSummary) {
	if s.alerts == nil || !s.alerts.Enabled() {
		return
	}

	alert := &domain.AnomalyAlert{
		ID:          uuid.NewString(),
		Metric:      "share_cards",
		Threshold:   s.thresholds.AnomalyThreshold,
		AnomalyDays: summary.AnomalyDays,
		PeriodStart: summary.DateStart,
		PeriodEnd:   summary.DateEnd,
		TriggeredAt: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertDeliveryTimeout)
		defer cancel()

		if err := s.alerts.Notify(ctx, alert); err != nil {
			s.metrics.IncrAlert("failed")
			s.logger.Warn("anomaly alert delivery failed",
				zap.String("alert_id", alert.ID),
				zap.Error(err),
			)
			return
		}
		s.metrics.IncrAlert("sent")
	}()
}

func (s *DashboardService) dashboardKey(req domain.DashboardRequest) string {
	filter, _ := json.Marshal(req.Filter)
	return fmt.Sprintf("dashboard:%d:%s:%t:%s",
		s.generation.Load(), req.Granularity, req.Compare, filter)
}

// ============================================================
// Facets
// ============================================================

// GetFacets returns the distinct dimension values of the full activity
// collection and per-value counts over the filtered collection.
func (s *DashboardService) GetFacets(ctx context.Context, spec domain.FilterSpec) (*domain.FacetsResult, error) {
	ctx, span := tracer.Start(ctx, "service.GetFacets")
	defer span.End()

	activities := s.store.Activities(ctx)
	return &domain.FacetsResult{
		Values: engine.ListFacets(activities),
		Counts: engine.CountFacets(engine.ApplyFilter(activities, spec)),
	}, nil
}

// ============================================================
// Projections
// ============================================================

// GetProjections extrapolates the requested metric keys to month-end.
// Metrics with no usable data in the as-of month come back as null.
func (s *DashboardService) GetProjections(ctx context.Context, req domain.ProjectionRequest) (map[string]*domain.ProjectionResult, error) {
	ctx, span := tracer.Start(ctx, "service.GetProjections")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("projection", time.Since(start))
	}()

	if req.AsOf.IsZero() {
		req.AsOf = domain.DayOf(time.Now().UTC())
	}
	metrics := req.Metrics
	if len(metrics) == 0 {
		metrics = ProjectionMetrics
	}
	for _, m := range metrics {
		if !validProjectionMetric(m) {
			return nil, &domain.ErrValidation{Field: "metrics", Message: fmt.Sprintf("unknown metric %q", m)}
		}
	}

	activities := s.store.Activities(ctx)
	origination := s.store.Origination(ctx)
	paidMedia := s.store.PaidMedia(ctx)
	if len(activities) == 0 && len(origination) == 0 && len(paidMedia) == 0 {
		return nil, &domain.ErrNoData{Resource: "datasets"}
	}

	filtered := engine.ApplyFilter(activities, req.Filter)
	clipped := engine.ClipOrigination(origination, req.Filter.DateStart, req.Filter.DateEnd)
	ledger := engine.BuildLedger(filtered, clipped, s.campaignChannels)

	series := func(pick func(domain.DailyLedgerEntry) float64) []domain.DailyPoint {
		points := make([]domain.DailyPoint, 0, len(ledger))
		for _, e := range ledger {
			points = append(points, domain.DailyPoint{Date: e.Date, Value: pick(e)})
		}
		return points
	}

	out := make(map[string]*domain.ProjectionResult, len(metrics))
	for _, m := range metrics {
		switch m {
		case "crm_proposals":
			out[m] = engine.Project(m, series(func(e domain.DailyLedgerEntry) float64 { return float64(e.CRMProposals) }), req.AsOf)
		case "crm_cards":
			out[m] = engine.Project(m, series(func(e domain.DailyLedgerEntry) float64 { return float64(e.CRMCards) }), req.AsOf)
		case "crm_cost":
			out[m] = engine.Project(m, series(func(e domain.DailyLedgerEntry) float64 { return e.CRMCost }), req.AsOf)
		case "total_proposals":
			out[m] = engine.Project(m, series(func(e domain.DailyLedgerEntry) float64 { return float64(e.TotalProposals) }), req.AsOf)
		case "total_cards":
			out[m] = engine.Project(m, series(func(e domain.DailyLedgerEntry) float64 { return float64(e.TotalCards) }), req.AsOf)
		case "spend":
			out[m] = engine.Project(m, spendSeries(paidMedia, req.Filter.Channels), req.AsOf)
		case "cac":
			out[m] = engine.ProjectRatio(m,
				series(func(e domain.DailyLedgerEntry) float64 { return e.CRMCost }),
				series(func(e domain.DailyLedgerEntry) float64 { return float64(e.CRMCards) }),
				req.AsOf)
		}
	}
	return out, nil
}

func validProjectionMetric(m string) bool {
	for _, known := range ProjectionMetrics {
		if m == known {
			return true
		}
	}
	return false
}

// spendSeries collapses paid-media rows into one spend point per day,
// optionally restricted to a channel list.
func spendSeries(rows []domain.PaidMediaDailyRow, channels []string) []domain.DailyPoint {
	summary := engine.RollupPaidMedia(rows, engine.PaidMediaFilter{Channels: channels}, domain.GranularityDaily)
	if summary == nil {
		return nil
	}
	points := make([]domain.DailyPoint, 0, len(summary.Buckets))
	for _, b := range summary.Buckets {
		points = append(points, domain.DailyPoint{Date: b.BucketStart, Value: b.Spend})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date.Time)
	})
	return points
}

// ============================================================
// Paid media
// ============================================================

// GetPaidMediaSummary rolls up the paid-media collection.
func (s *DashboardService) GetPaidMediaSummary(ctx context.Context, filter engine.PaidMediaFilter, g domain.Granularity) (*domain.PaidMediaSummary, error) {
	ctx, span := tracer.Start(ctx, "service.GetPaidMediaSummary")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("paid_media", time.Since(start))
	}()

	if g == "" {
		g = domain.GranularityDaily
	}
	if !g.Valid() {
		return nil, &domain.ErrValidation{Field: "granularity", Message: "must be daily, weekly or monthly"}
	}
	if filter.DateStart != nil && filter.DateEnd != nil && filter.DateEnd.Before(filter.DateStart.Time) {
		return nil, &domain.ErrInvalidRange{Start: filter.DateStart.Key(), End: filter.DateEnd.Key()}
	}

	rows := s.store.PaidMedia(ctx)
	if len(rows) == 0 {
		return nil, &domain.ErrNoData{Resource: "paid_media"}
	}

	summary := engine.RollupPaidMedia(rows, filter, g)
	if summary == nil {
		return nil, &domain.ErrNoData{Resource: "paid_media"}
	}
	return summary, nil
}

// GetPaidMediaFacets lists distinct paid-media dimension values.
func (s *DashboardService) GetPaidMediaFacets(ctx context.Context) domain.PaidMediaFacets {
	ctx, span := tracer.Start(ctx, "service.GetPaidMediaFacets")
	defer span.End()
	return engine.ListPaidMediaFacets(s.store.PaidMedia(ctx))
}

// ============================================================
// Engine metrics
// ============================================================

// EngineMetrics returns the JSON snapshot for GET /v1/metrics/engine.
func (s *DashboardService) EngineMetrics(ctx context.Context) *domain.EngineMetrics {
	_, span := tracer.Start(ctx, "service.EngineMetrics")
	defer span.End()
	return s.metrics.GetEngineSnapshot()
}
