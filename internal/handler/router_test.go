package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/handler"
	"github.com/ecamposv/mkt-performance-go/internal/infra/cache"
	"github.com/ecamposv/mkt-performance-go/internal/infra/observability"
	"github.com/ecamposv/mkt-performance-go/internal/infra/store"
	"github.com/ecamposv/mkt-performance-go/internal/service"
)

func newTestRouter() http.Handler {
	metrics := observability.NewMetrics()
	svc := service.NewDashboardService(
		store.NewMemory(),
		cache.New[*domain.DashboardResult](5*time.Minute),
		nil,
		metrics,
		zap.NewNop(),
		domain.ThresholdConfig{AnomalyThreshold: 5.0, AnomaliesEnabled: true},
		[]string{"Email", "SMS", "Push", "WhatsApp"},
	)
	return handler.NewRouter(svc, metrics, zap.NewNop())
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := doRequest(t, newTestRouter(), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	rec := doRequest(t, newTestRouter(), http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestDashboard_EmptyStoreReturns404(t *testing.T) {
	rec := doRequest(t, newTestRouter(), http.MethodGet, "/v1/dashboard/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDashboard_FullFlow(t *testing.T) {
	router := newTestRouter()

	upload := map[string]any{
		"rows": []domain.DispatchActivity{
			{ID: "a1", Date: domain.NewDay(2024, 3, 1), BusinessUnit: "Cards", Channel: "Email",
				Proposals: 40, CardsIssued: 10, TotalCost: 500, BaseDelivered: 1000},
			{ID: "a2", Date: domain.NewDay(2024, 3, 2), BusinessUnit: "Cards", Channel: "SMS",
				Proposals: 20, CardsIssued: 10, TotalCost: 300, BaseDelivered: 500},
		},
	}
	rec := doRequest(t, router, http.MethodPost, "/v1/datasets/activities", upload)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var status domain.DatasetStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Name != "activities" || status.Rows != 2 {
		t.Errorf("unexpected status: %+v", status)
	}

	orig := map[string]any{
		"rows": []domain.OriginationDailyRow{
			{Date: domain.NewDay(2024, 3, 1), TotalProposals: 400, TotalCards: 100},
			{Date: domain.NewDay(2024, 3, 2), TotalProposals: 200, TotalCards: 100},
		},
	}
	rec = doRequest(t, router, http.MethodPost, "/v1/datasets/origination", orig)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload origination: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet,
		"/v1/dashboard/?granularity=daily&date_start=2024-03-01&date_end=2024-03-02", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result domain.DashboardResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if len(result.Buckets) != 2 {
		t.Errorf("expected 2 buckets, got %d", len(result.Buckets))
	}
	if result.Summary == nil || result.Summary.ShareCards != 10.0 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/datasets/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("datasets: expected 200, got %d", rec.Code)
	}
}

func TestDashboard_BadGranularityReturns400(t *testing.T) {
	router := newTestRouter()
	seedActivities(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/dashboard/?granularity=hourly", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDashboard_BadDateReturns400(t *testing.T) {
	router := newTestRouter()
	seedActivities(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/dashboard/?date_start=03-01-2024", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestDashboard_Facets(t *testing.T) {
	router := newTestRouter()
	seedActivities(t, router)

	rec := doRequest(t, router, http.MethodGet, "/v1/dashboard/facets?channels=Email", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var facets domain.FacetsResult
	if err := json.Unmarshal(rec.Body.Bytes(), &facets); err != nil {
		t.Fatalf("decode facets: %v", err)
	}
	if len(facets.Values.Channels) != 2 {
		t.Errorf("expected both channels in values, got %v", facets.Values.Channels)
	}
	if facets.Counts.Channels["Email"] != 9 {
		t.Errorf("expected Email count 9, got %v", facets.Counts.Channels)
	}
	if _, ok := facets.Counts.Channels["SMS"]; ok {
		t.Error("expected SMS omitted from counts under the channel filter")
	}
}

func TestDashboard_Projection(t *testing.T) {
	router := newTestRouter()
	seedActivities(t, router)

	rec := doRequest(t, router, http.MethodGet,
		"/v1/dashboard/projection?metrics=crm_cards&as_of=2024-03-10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Projections map[string]*domain.ProjectionResult `json:"projections"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode projections: %v", err)
	}
	if body.Projections["crm_cards"] == nil {
		t.Error("expected crm_cards projection")
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/dashboard/projection?metrics=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown metric, got %d", rec.Code)
	}
}

func TestPaidMedia_NoDataReturns404(t *testing.T) {
	rec := doRequest(t, newTestRouter(), http.MethodGet, "/v1/paid-media/summary", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestEngineMetricsEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(), http.MethodGet, "/v1/metrics/engine", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snapshot domain.EngineMetrics
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Period != "all_time" {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestUpload_InvalidBodyReturns400(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/v1/datasets/activities", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func seedActivities(t *testing.T, router http.Handler) {
	t.Helper()

	var rows []domain.DispatchActivity
	for d := 1; d <= 10; d++ {
		rows = append(rows, domain.DispatchActivity{
			ID: fmt.Sprintf("a%d", d), Date: domain.NewDay(2024, 3, d),
			Channel: "Email", CardsIssued: 10,
		})
	}
	rows[0].Channel = "SMS"
	rows[0].Segment = "Low"

	rec := doRequest(t, router, http.MethodPost, "/v1/datasets/activities", map[string]any{"rows": rows})
	if rec.Code != http.StatusOK {
		t.Fatalf("seed: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
