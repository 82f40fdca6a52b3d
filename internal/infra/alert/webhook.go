// Package alert delivers anomaly alerts to an external webhook. Delivery
// is best-effort: the dashboard never fails a request because the webhook
// is down, but the call is guarded by a circuit breaker and retried with
// backoff while the breaker allows it.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Webhook posts AnomalyAlert payloads to a configured URL.
type Webhook struct {
	httpClient *http.Client
	url        string
	cb         *gobreaker.CircuitBreaker
	bulkhead   *resilience.Bulkhead
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewWebhook creates the alert client. An empty URL disables delivery;
// Notify becomes a no-op.
func NewWebhook(httpClient *http.Client, url string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Webhook {
	maxConc := cfg.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 1
	}
	return &Webhook{
		httpClient: httpClient,
		url:        url,
		cb:         cb,
		bulkhead:   resilience.NewBulkhead(maxConc),
		cfg:        cfg,
		logger:     logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

// Notify posts the alert. Retries transient failures with backoff; a
// tripped breaker surfaces as ErrCircuitOpen so callers can tell
// "destination down" from "request rejected".
func (w *Webhook) Notify(ctx context.Context, a *domain.AnomalyAlert) error {
	if !w.Enabled() {
		return nil
	}

	if err := w.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer w.bulkhead.Release()

	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	err = resilience.RetryWithBackoff(ctx, w.cfg, func() error {
		_, execErr := w.cb.Execute(func() (any, error) {
			return nil, w.post(ctx, body)
		})
		return execErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &domain.ErrCircuitOpen{Service: "alert-webhook"}
		}
		return &domain.ErrExternalService{Service: "alert-webhook", Err: err}
	}

	w.logger.Info("anomaly alert delivered",
		zap.String("alert_id", a.ID),
		zap.Int("anomaly_days", a.AnomalyDays),
	)
	return nil
}

func (w *Webhook) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
