// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from concrete implementations.
package port

import (
	"context"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// DatasetStore holds the three uploaded row collections. Replace semantics
// match the upload flow: each new file replaces the whole collection.
type DatasetStore interface {
	ReplaceActivities(ctx context.Context, rows []domain.DispatchActivity) domain.DatasetStatus
	ReplaceOrigination(ctx context.Context, rows []domain.OriginationDailyRow) domain.DatasetStatus
	ReplacePaidMedia(ctx context.Context, rows []domain.PaidMediaDailyRow) domain.DatasetStatus

	Activities(ctx context.Context) []domain.DispatchActivity
	Origination(ctx context.Context) []domain.OriginationDailyRow
	PaidMedia(ctx context.Context) []domain.PaidMediaDailyRow

	Status(ctx context.Context) []domain.DatasetStatus
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// AlertSink delivers anomaly alerts to an external destination.
type AlertSink interface {
	// Enabled reports whether a destination is configured; callers skip
	// delivery (and delivery metrics) when it is not.
	Enabled() bool
	Notify(ctx context.Context, alert *domain.AnomalyAlert) error
}
