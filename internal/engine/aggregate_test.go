package engine_test

import (
	"testing"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/engine"
)

func TestBucketStart(t *testing.T) {
	cases := []struct {
		name string
		day  domain.Day
		g    domain.Granularity
		want string
	}{
		{"daily identity", day(2024, 3, 10), domain.GranularityDaily, "2024-03-10"},
		{"sunday maps to previous monday", day(2024, 3, 10), domain.GranularityWeekly, "2024-03-04"},
		{"monday maps to itself", day(2024, 3, 4), domain.GranularityWeekly, "2024-03-04"},
		{"week spanning month boundary", day(2024, 3, 1), domain.GranularityWeekly, "2024-02-26"},
		{"monthly maps to first", day(2024, 3, 10), domain.GranularityMonthly, "2024-03-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.BucketStart(tc.day, tc.g)
			if got.Key() != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got.Key())
			}
		})
	}
}

func TestAggregate_Weekly(t *testing.T) {
	// Mon Mar 4 .. Sun Mar 10 is one ISO week; Mon Mar 11 starts the next.
	entries := []domain.DailyLedgerEntry{
		{Date: day(2024, 3, 4), CRMProposals: 10},
		{Date: day(2024, 3, 10), CRMProposals: 20},
		{Date: day(2024, 3, 11), CRMProposals: 5},
	}

	buckets := engine.Aggregate(entries, domain.GranularityWeekly)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 weekly buckets, got %d", len(buckets))
	}
	if buckets[0].BucketStart.Key() != "2024-03-04" || buckets[0].CRMProposals != 30 {
		t.Errorf("unexpected first week: %+v", buckets[0])
	}
	if buckets[0].DayCount != 2 {
		t.Errorf("expected day count 2, got %d", buckets[0].DayCount)
	}
	if buckets[1].BucketStart.Key() != "2024-03-11" || buckets[1].CRMProposals != 5 {
		t.Errorf("unexpected second week: %+v", buckets[1])
	}
}

func TestAggregate_Monthly(t *testing.T) {
	entries := []domain.DailyLedgerEntry{
		{Date: day(2024, 2, 29), CRMCards: 3, CRMCost: 100},
		{Date: day(2024, 3, 1), CRMCards: 4, CRMCost: 200},
		{Date: day(2024, 3, 15), CRMCards: 5, CRMCost: 300},
	}

	buckets := engine.Aggregate(entries, domain.GranularityMonthly)

	if len(buckets) != 2 {
		t.Fatalf("expected 2 monthly buckets, got %d", len(buckets))
	}
	if buckets[0].BucketStart.Key() != "2024-02-01" || buckets[0].CRMCards != 3 {
		t.Errorf("unexpected february bucket: %+v", buckets[0])
	}
	if buckets[1].BucketStart.Key() != "2024-03-01" || buckets[1].CRMCards != 9 || buckets[1].CRMCost != 500 {
		t.Errorf("unexpected march bucket: %+v", buckets[1])
	}
}

func TestAggregate_SumsArePreserved(t *testing.T) {
	entries := []domain.DailyLedgerEntry{
		{Date: day(2024, 3, 1), CRMProposals: 7, TotalCards: 11},
		{Date: day(2024, 3, 8), CRMProposals: 9, TotalCards: 13},
		{Date: day(2024, 3, 20), CRMProposals: 4, TotalCards: 6},
	}

	for _, g := range []domain.Granularity{domain.GranularityDaily, domain.GranularityWeekly, domain.GranularityMonthly} {
		var proposals, cards int
		for _, b := range engine.Aggregate(entries, g) {
			proposals += b.CRMProposals
			cards += b.TotalCards
		}
		if proposals != 20 || cards != 30 {
			t.Errorf("%s: expected totals preserved (20, 30), got (%d, %d)", g, proposals, cards)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	if n := engine.DaysInMonth(day(2024, 2, 10)); n != 29 {
		t.Errorf("expected 29 days in Feb 2024, got %d", n)
	}
	if n := engine.DaysInMonth(day(2023, 2, 10)); n != 28 {
		t.Errorf("expected 28 days in Feb 2023, got %d", n)
	}
	if n := engine.DaysInMonth(day(2024, 3, 1)); n != 31 {
		t.Errorf("expected 31 days in Mar 2024, got %d", n)
	}
}
