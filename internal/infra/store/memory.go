// Package store provides the in-memory dataset store backing the
// dashboard. Uploaded collections live here between recomputes; nothing is
// persisted across restarts (remote storage of uploads is a separate
// system).
package store

import (
	"context"
	"sync"
	"time"

	"github.com/ecamposv/mkt-performance-go/internal/domain"

	"github.com/google/uuid"
)

// Memory is a thread-safe in-memory dataset store. Each Replace call
// swaps the whole collection and stamps a new version, so concurrent
// readers always see a consistent snapshot.
type Memory struct {
	mu sync.RWMutex

	activities  []domain.DispatchActivity
	origination []domain.OriginationDailyRow
	paidMedia   []domain.PaidMediaDailyRow

	status map[string]domain.DatasetStatus
}

// NewMemory creates an empty dataset store.
func NewMemory() *Memory {
	return &Memory{status: make(map[string]domain.DatasetStatus)}
}

func (s *Memory) stamp(name string, rows int) domain.DatasetStatus {
	st := domain.DatasetStatus{
		Name:     name,
		Rows:     rows,
		Version:  uuid.New().String(),
		LoadedAt: time.Now().UTC(),
	}
	s.status[name] = st
	return st
}

// ReplaceActivities swaps the dispatch-activity collection.
func (s *Memory) ReplaceActivities(_ context.Context, rows []domain.DispatchActivity) domain.DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = append([]domain.DispatchActivity(nil), rows...)
	return s.stamp("activities", len(rows))
}

// ReplaceOrigination swaps the origination-daily collection.
func (s *Memory) ReplaceOrigination(_ context.Context, rows []domain.OriginationDailyRow) domain.DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origination = append([]domain.OriginationDailyRow(nil), rows...)
	return s.stamp("origination", len(rows))
}

// ReplacePaidMedia swaps the paid-media collection.
func (s *Memory) ReplacePaidMedia(_ context.Context, rows []domain.PaidMediaDailyRow) domain.DatasetStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paidMedia = append([]domain.PaidMediaDailyRow(nil), rows...)
	return s.stamp("paid_media", len(rows))
}

// Activities returns a snapshot of the dispatch-activity collection.
func (s *Memory) Activities(_ context.Context) []domain.DispatchActivity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DispatchActivity(nil), s.activities...)
}

// Origination returns a snapshot of the origination-daily collection.
func (s *Memory) Origination(_ context.Context) []domain.OriginationDailyRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OriginationDailyRow(nil), s.origination...)
}

// PaidMedia returns a snapshot of the paid-media collection.
func (s *Memory) PaidMedia(_ context.Context) []domain.PaidMediaDailyRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PaidMediaDailyRow(nil), s.paidMedia...)
}

// Status reports row counts, versions and load times per dataset.
func (s *Memory) Status(_ context.Context) []domain.DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DatasetStatus, 0, len(s.status))
	for _, name := range []string{"activities", "origination", "paid_media"} {
		if st, ok := s.status[name]; ok {
			out = append(out, st)
		}
	}
	return out
}
