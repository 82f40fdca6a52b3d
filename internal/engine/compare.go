package engine

import (
	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// PreviousRange computes the equivalent prior period for [start, end]:
// same inclusive day count, ending the day before start. Rejects ranges
// where end precedes start.
func PreviousRange(start, end domain.Day) (domain.Day, domain.Day, error) {
	if end.Before(start.Time) {
		return domain.Day{}, domain.Day{}, &domain.ErrInvalidRange{Start: start.Key(), End: end.Key()}
	}
	days := start.DaysUntil(end) + 1
	prevEnd := start.AddDays(-1)
	prevStart := prevEnd.AddDays(-(days - 1))
	return prevStart, prevEnd, nil
}

// Compare builds the delta view between two period summaries. Volume
// metrics get percentage deltas, omitted (nil) when the previous value is
// zero. Rate metrics get point deltas: 5% → 10% is a 5-point move, not a
// 100% one. A nil previous summary produces a comparison with no deltas.
func Compare(current, previous *domain.PeriodSummary) *domain.PeriodComparison {
	c := &domain.PeriodComparison{Current: current, Previous: previous}
	if current == nil || previous == nil {
		return c
	}

	c.CRMProposalsPct = pctDelta(float64(current.CRMProposals), float64(previous.CRMProposals))
	c.CRMCardsPct = pctDelta(float64(current.CRMCards), float64(previous.CRMCards))
	c.CRMCostPct = pctDelta(current.CRMCost, previous.CRMCost)
	c.TotalProposalsPct = pctDelta(float64(current.TotalProposals), float64(previous.TotalProposals))
	c.TotalCardsPct = pctDelta(float64(current.TotalCards), float64(previous.TotalCards))

	c.ShareProposalsPts = current.ShareProposals - previous.ShareProposals
	c.ShareCardsPts = current.ShareCards - previous.ShareCards
	c.ConversionCRMPts = current.ConversionCRM - previous.ConversionCRM
	c.ConversionTotalPts = current.ConversionTotal - previous.ConversionTotal
	c.PerformanceIndexPts = current.PerformanceIndex - previous.PerformanceIndex
	c.CACDelta = current.CAC - previous.CAC
	return c
}

func pctDelta(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	v := (current - previous) / previous * 100
	return &v
}
