// Package handler wires the HTTP surface: routing, middleware, request
// parsing and error mapping. All business logic lives in the service layer.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecamposv/mkt-performance-go/internal/infra/observability"
	"github.com/ecamposv/mkt-performance-go/internal/service"
)

// NewRouter builds the chi router with the full middleware stack and all
// API routes.
func NewRouter(svc *service.DashboardService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	datasets := NewDatasetHandler(svc, logger)
	dashboard := NewDashboardHandler(svc, logger)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", datasets.ListDatasets)
			r.Post("/activities", datasets.ReplaceActivities)
			r.Post("/origination", datasets.ReplaceOrigination)
			r.Post("/paid-media", datasets.ReplacePaidMedia)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboard.GetDashboard)
			r.Get("/facets", dashboard.GetFacets)
			r.Get("/projection", dashboard.GetProjections)
		})

		r.Route("/paid-media", func(r chi.Router) {
			r.Get("/summary", dashboard.GetPaidMediaSummary)
			r.Get("/facets", dashboard.GetPaidMediaFacets)
		})

		r.Get("/metrics/engine", dashboard.GetEngineMetrics)
	})

	return r
}
