package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/engine"
	"github.com/ecamposv/mkt-performance-go/internal/service"
)

// DashboardHandler serves the dashboard, facet, projection and paid-media
// read endpoints.
type DashboardHandler struct {
	svc    *service.DashboardService
	logger *zap.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// filterFromQuery builds a FilterSpec from the shared query parameters.
func filterFromQuery(r *http.Request) (domain.FilterSpec, error) {
	spec := domain.FilterSpec{
		BusinessUnits: csvParam(r, "business_units"),
		Channels:      csvParam(r, "channels"),
		Segments:      csvParam(r, "segments"),
		Partners:      csvParam(r, "partners"),
		Journeys:      csvParam(r, "journeys"),
	}

	var err error
	if spec.DateStart, err = dayParam(r, "date_start"); err != nil {
		return spec, err
	}
	if spec.DateEnd, err = dayParam(r, "date_end"); err != nil {
		return spec, err
	}
	return spec, nil
}

// GetDashboard handles GET /v1/dashboard.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	req := domain.DashboardRequest{
		Granularity: domain.Granularity(r.URL.Query().Get("granularity")),
		Filter:      filter,
		Compare:     r.URL.Query().Get("compare") == "true",
	}

	result, err := h.svc.GetDashboard(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetFacets handles GET /v1/dashboard/facets.
func (h *DashboardHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	facets, err := h.svc.GetFacets(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, facets)
}

// GetProjections handles GET /v1/dashboard/projection.
func (h *DashboardHandler) GetProjections(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	req := domain.ProjectionRequest{
		Metrics: csvParam(r, "metrics"),
		Filter:  filter,
	}
	if asOf, err := dayParam(r, "as_of"); err != nil {
		handleServiceError(w, h.logger, err)
		return
	} else if asOf != nil {
		req.AsOf = *asOf
	}

	projections, err := h.svc.GetProjections(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projections": projections})
}

// GetPaidMediaSummary handles GET /v1/paid-media/summary.
func (h *DashboardHandler) GetPaidMediaSummary(w http.ResponseWriter, r *http.Request) {
	filter := engine.PaidMediaFilter{Channels: csvParam(r, "channels")}

	var err error
	if filter.DateStart, err = dayParam(r, "date_start"); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	if filter.DateEnd, err = dayParam(r, "date_end"); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	summary, err := h.svc.GetPaidMediaSummary(r.Context(), filter, domain.Granularity(r.URL.Query().Get("granularity")))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetPaidMediaFacets handles GET /v1/paid-media/facets.
func (h *DashboardHandler) GetPaidMediaFacets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GetPaidMediaFacets(r.Context()))
}

// GetEngineMetrics handles GET /v1/metrics/engine.
func (h *DashboardHandler) GetEngineMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.EngineMetrics(r.Context()))
}
