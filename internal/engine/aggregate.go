package engine

import (
	"sort"
	"time"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// BucketStart returns the bucket key for a day at the given granularity:
// the day itself, the Monday of its ISO week, or the 1st of its month.
func BucketStart(d domain.Day, g domain.Granularity) domain.Day {
	switch g {
	case domain.GranularityWeekly:
		// time.Weekday is Sunday-based; shift so Monday == 0.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDays(-offset)
	case domain.GranularityMonthly:
		y, m, _ := d.Date()
		return domain.NewDay(y, m, 1)
	default:
		return d
	}
}

// Aggregate groups ledger entries into buckets at the given granularity,
// summing every numeric field. Output is one row per bucket, ascending by
// bucket start. Partial buckets at range boundaries are kept as-is.
//
// Derived ratio fields are left zero; ApplyDerived fills them in.
func Aggregate(entries []domain.DailyLedgerEntry, g domain.Granularity) []domain.BucketMetrics {
	buckets := make(map[string]*domain.BucketMetrics)
	for _, e := range entries {
		start := BucketStart(e.Date, g)
		k := start.Key()
		b, ok := buckets[k]
		if !ok {
			b = &domain.BucketMetrics{BucketStart: start, Granularity: g}
			buckets[k] = b
		}
		b.DayCount++
		b.CRMProposals += e.CRMProposals
		b.CRMCards += e.CRMCards
		b.CRMCost += e.CRMCost
		b.CRMBaseDelivered += e.CRMBaseDelivered
		b.CRMBaseSent += e.CRMBaseSent
		b.CRMCampaignCount += e.CRMCampaignCount
		b.TotalProposals += e.TotalProposals
		b.TotalCards += e.TotalCards
	}

	out := make([]domain.BucketMetrics, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BucketStart.Before(out[j].BucketStart.Time)
	})
	return out
}

// DaysInMonth returns the number of calendar days in the month containing d.
func DaysInMonth(d domain.Day) int {
	y, m, _ := d.Date()
	return time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}
