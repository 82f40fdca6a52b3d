package engine

import (
	"sort"
	"strings"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// PaidMediaFilter restricts the paid-media rollup. Empty channel list and
// nil bounds mean unrestricted; bounds are inclusive at day granularity.
type PaidMediaFilter struct {
	Channels  []string
	DateStart *domain.Day
	DateEnd   *domain.Day
}

// RollupPaidMedia buckets paid-media rows at the given granularity,
// summing spend/impressions/clicks/conversions across campaigns, and
// derives CTR/CPC/CPM/CPA per bucket and for the period totals (the
// period ratios come from the summed totals, not bucket averages).
// Returns nil when no row survives the filter.
func RollupPaidMedia(rows []domain.PaidMediaDailyRow, filter PaidMediaFilter, g domain.Granularity) *domain.PaidMediaSummary {
	channels := toSet(filter.Channels)

	buckets := make(map[string]*domain.PaidMediaBucket)
	summary := &domain.PaidMediaSummary{Granularity: g}
	matched := false

	for _, r := range rows {
		if !inSet(channels, r.Channel) {
			continue
		}
		d := domain.DayOf(r.Date.Time)
		if filter.DateStart != nil && d.Before(filter.DateStart.Time) {
			continue
		}
		if filter.DateEnd != nil && d.After(filter.DateEnd.Time) {
			continue
		}
		matched = true

		start := BucketStart(d, g)
		b, ok := buckets[start.Key()]
		if !ok {
			b = &domain.PaidMediaBucket{BucketStart: start}
			buckets[start.Key()] = b
		}
		b.Spend += r.Spend
		b.Impressions += r.Impressions
		b.Clicks += r.Clicks
		b.Conversions += r.Conversions

		summary.Spend += r.Spend
		summary.Impressions += r.Impressions
		summary.Clicks += r.Clicks
		summary.Conversions += r.Conversions
	}
	if !matched {
		return nil
	}

	out := make([]domain.PaidMediaBucket, 0, len(buckets))
	for _, b := range buckets {
		deriveAdMetrics(b)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BucketStart.Before(out[j].BucketStart.Time)
	})
	summary.Buckets = out

	totals := domain.PaidMediaBucket{
		Spend:       summary.Spend,
		Impressions: summary.Impressions,
		Clicks:      summary.Clicks,
		Conversions: summary.Conversions,
	}
	deriveAdMetrics(&totals)
	summary.CTR = totals.CTR
	summary.CPC = totals.CPC
	summary.CPM = totals.CPM
	summary.CPA = totals.CPA
	return summary
}

func deriveAdMetrics(b *domain.PaidMediaBucket) {
	b.CTR = pctOf(float64(b.Clicks), float64(b.Impressions))
	b.CPC = ratioOf(b.Spend, float64(b.Clicks))
	b.CPM = ratioOf(b.Spend, float64(b.Impressions)) * 1000
	b.CPA = ratioOf(b.Spend, float64(b.Conversions))
}

// ListPaidMediaFacets returns distinct channels, campaigns and objectives.
func ListPaidMediaFacets(rows []domain.PaidMediaDailyRow) domain.PaidMediaFacets {
	return domain.PaidMediaFacets{
		Channels:   distinctPM(rows, func(r domain.PaidMediaDailyRow) string { return r.Channel }),
		Campaigns:  distinctPM(rows, func(r domain.PaidMediaDailyRow) string { return r.Campaign }),
		Objectives: distinctPM(rows, func(r domain.PaidMediaDailyRow) string { return r.Objective }),
	}
}

func distinctPM(rows []domain.PaidMediaDailyRow, dim func(domain.PaidMediaDailyRow) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		v := strings.TrimSpace(dim(r))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
