package alert_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/infra/alert"
	"github.com/ecamposv/mkt-performance-go/internal/infra/resilience"
)

func testAlert() *domain.AnomalyAlert {
	return &domain.AnomalyAlert{
		ID:          "alert-1",
		Metric:      "share_cards",
		Threshold:   5.0,
		AnomalyDays: 3,
		PeriodStart: domain.NewDay(2024, 3, 1),
		PeriodEnd:   domain.NewDay(2024, 3, 31),
		TriggeredAt: time.Now().UTC(),
	}
}

func newWebhook(url string, maxRetries int) *alert.Webhook {
	cfg := resilience.Config{MaxRetries: maxRetries, InitialBackoff: 10 * time.Millisecond, MaxConcurrency: 2}
	cb := resilience.NewCircuitBreaker("test-webhook")
	return alert.NewWebhook(&http.Client{Timeout: 2 * time.Second}, url, cb, cfg, zap.NewNop())
}

func TestNotify_DeliversPayload(t *testing.T) {
	var received domain.AnomalyAlert
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := newWebhook(srv.URL, 1)
	if err := w.Notify(context.Background(), testAlert()); err != nil {
		t.Fatalf("expected delivery, got %v", err)
	}

	if received.ID != "alert-1" || received.AnomalyDays != 3 {
		t.Errorf("unexpected payload: %+v", received)
	}
	if received.PeriodStart.Key() != "2024-03-01" {
		t.Errorf("unexpected period start: %s", received.PeriodStart.Key())
	}
}

func TestNotify_RetriesTransientFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := newWebhook(srv.URL, 2)
	if err := w.Notify(context.Background(), testAlert()); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestNotify_FailureIsExternalServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := newWebhook(srv.URL, 1)
	err := w.Notify(context.Background(), testAlert())
	if err == nil {
		t.Fatal("expected error")
	}

	var external *domain.ErrExternalService
	var open *domain.ErrCircuitOpen
	if !errors.As(err, &external) && !errors.As(err, &open) {
		t.Errorf("expected a typed delivery error, got %T: %v", err, err)
	}
}

func TestNotify_DisabledIsNoOp(t *testing.T) {
	w := newWebhook("", 1)

	if w.Enabled() {
		t.Error("expected webhook to be disabled without a URL")
	}
	if err := w.Notify(context.Background(), testAlert()); err != nil {
		t.Errorf("expected no-op, got %v", err)
	}
}
