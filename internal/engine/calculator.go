package engine

import (
	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// pctOf returns num/den*100, or 0 when den is 0. Never NaN, never Inf.
func pctOf(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100
}

// ratioOf returns num/den, or 0 when den is 0.
func ratioOf(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// effectiveBase prefers the delivered base for CRM conversion and degrades
// to the sent base when delivery data is absent.
func effectiveBase(delivered, sent int) int {
	if delivered > 0 {
		return delivered
	}
	return sent
}

// ApplyDerived fills the derived ratio fields of each bucket in place and
// flags anomalies against the configured share-of-cards threshold. Returns
// the same slice for chaining.
func ApplyDerived(buckets []domain.BucketMetrics, cfg domain.ThresholdConfig) []domain.BucketMetrics {
	for i := range buckets {
		b := &buckets[i]
		b.ShareProposals = pctOf(float64(b.CRMProposals), float64(b.TotalProposals))
		b.ShareCards = pctOf(float64(b.CRMCards), float64(b.TotalCards))
		b.ConversionCRM = pctOf(float64(b.CRMCards), float64(effectiveBase(b.CRMBaseDelivered, b.CRMBaseSent)))
		b.ConversionTotal = pctOf(float64(b.TotalCards), float64(b.TotalProposals))
		b.PerformanceIndex = ratioOf(b.ConversionCRM, b.ConversionTotal)
		b.CAC = ratioOf(b.CRMCost, float64(b.CRMCards))
		b.DayOfWeek = b.BucketStart.Weekday().String()
		b.WeekOfMonth = (b.BucketStart.Day()-1)/7 + 1
		b.IsAnomaly = cfg.AnomaliesEnabled && b.ShareCards < cfg.AnomalyThreshold
	}
	return buckets
}

// Summarize collapses a bucket series into one PeriodSummary. Ratios are
// recomputed from the summed period totals — never averaged across buckets,
// which would skew periods with uneven volume. An empty series yields nil:
// "no data" is not the same as "zero activity".
//
// AnomalyDays counts flagged buckets; feed daily buckets to get a true
// day count.
func Summarize(buckets []domain.BucketMetrics) *domain.PeriodSummary {
	if len(buckets) == 0 {
		return nil
	}

	s := &domain.PeriodSummary{
		DateStart: buckets[0].BucketStart,
		DateEnd:   buckets[len(buckets)-1].BucketStart,
	}
	for _, b := range buckets {
		s.CRMProposals += b.CRMProposals
		s.CRMCards += b.CRMCards
		s.CRMCost += b.CRMCost
		s.CRMBaseDelivered += b.CRMBaseDelivered
		s.CRMBaseSent += b.CRMBaseSent
		s.CRMCampaignCount += b.CRMCampaignCount
		s.TotalProposals += b.TotalProposals
		s.TotalCards += b.TotalCards
		s.DayCount += b.DayCount
		if b.IsAnomaly {
			s.AnomalyDays++
		}
	}

	s.ShareProposals = pctOf(float64(s.CRMProposals), float64(s.TotalProposals))
	s.ShareCards = pctOf(float64(s.CRMCards), float64(s.TotalCards))
	s.ConversionCRM = pctOf(float64(s.CRMCards), float64(effectiveBase(s.CRMBaseDelivered, s.CRMBaseSent)))
	s.ConversionTotal = pctOf(float64(s.TotalCards), float64(s.TotalProposals))
	s.PerformanceIndex = ratioOf(s.ConversionCRM, s.ConversionTotal)
	s.CAC = ratioOf(s.CRMCost, float64(s.CRMCards))
	return s
}
