package engine

import (
	"math"
	"sort"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// Pace-based month-end projection. Deliberately a recent-window average
// rather than a regression: stakeholders can sanity-check "average of the
// last 7 days × days remaining" by hand, and the confidence score and
// trend label are explanatory, not statistical.

const (
	recentPaceWindow = 7
	minPacePoints    = 3
	trendUpFactor    = 1.05
	trendDownFactor  = 0.95
	earlyMonthBonus  = 20
)

// Project extrapolates a daily metric series to month-end. Only points in
// the as-of month and not after the as-of day are considered. Returns nil
// when the series carries no usable data ("no data", not zero).
func Project(metric string, points []domain.DailyPoint, asOf domain.Day) *domain.ProjectionResult {
	y, m, _ := asOf.Date()
	daysInMonth := DaysInMonth(asOf)

	inMonth := make([]domain.DailyPoint, 0, len(points))
	for _, p := range points {
		d := domain.DayOf(p.Date.Time)
		py, pm, _ := d.Date()
		if py != y || pm != m || d.After(asOf.Time) {
			continue
		}
		inMonth = append(inMonth, domain.DailyPoint{Date: d, Value: p.Value})
	}
	if len(inMonth) == 0 {
		return nil
	}
	sort.Slice(inMonth, func(i, j int) bool {
		return inMonth[i].Date.Before(inMonth[j].Date.Time)
	})

	var total float64
	for _, p := range inMonth {
		total += p.Value
	}
	count := len(inMonth)
	lastDataDay := inMonth[count-1].Date.Day()
	overallPace := total / float64(count)

	// With too few points the recent window is all noise; fall back to the
	// overall pace.
	pace := overallPace
	if count >= minPacePoints {
		window := recentPaceWindow
		if count < window {
			window = count
		}
		var sum float64
		for _, p := range inMonth[count-window:] {
			sum += p.Value
		}
		pace = sum / float64(window)
	}

	remaining := daysInMonth - lastDataDay
	projected := total + pace*float64(remaining)

	trend := domain.TrendStable
	switch {
	case pace > overallPace*trendUpFactor:
		trend = domain.TrendUp
	case pace < overallPace*trendDownFactor:
		trend = domain.TrendDown
	}

	confidence := int(math.Round(float64(count) / float64(daysInMonth) * 100))
	if count > recentPaceWindow {
		confidence += earlyMonthBonus
	}
	if confidence > 100 {
		confidence = 100
	}

	return &domain.ProjectionResult{
		Metric:         metric,
		CurrentTotal:   total,
		ProjectedTotal: projected,
		Trend:          trend,
		Confidence:     confidence,
		RemainingDays:  remaining,
		DailyPace:      pace,
		DataPoints:     count,
	}
}

// ProjectRatio projects a composite metric (e.g. CAC = cost/cards) by
// projecting numerator and denominator separately and dividing the two
// projected totals. Averaging per-day ratios would reintroduce the same
// uneven-volume bias the period summary avoids.
func ProjectRatio(metric string, numerator, denominator []domain.DailyPoint, asOf domain.Day) *domain.ProjectionResult {
	num := Project(metric, numerator, asOf)
	den := Project(metric, denominator, asOf)
	if num == nil || den == nil {
		return nil
	}

	current := ratioOf(num.CurrentTotal, den.CurrentTotal)
	projected := ratioOf(num.ProjectedTotal, den.ProjectedTotal)

	trend := domain.TrendStable
	switch {
	case projected > current*trendUpFactor:
		trend = domain.TrendUp
	case projected < current*trendDownFactor:
		trend = domain.TrendDown
	}

	confidence := num.Confidence
	if den.Confidence < confidence {
		confidence = den.Confidence
	}

	return &domain.ProjectionResult{
		Metric:         metric,
		CurrentTotal:   current,
		ProjectedTotal: projected,
		Trend:          trend,
		Confidence:     confidence,
		RemainingDays:  num.RemainingDays,
		DailyPace:      0, // a per-day pace is meaningless for a ratio
		DataPoints:     num.DataPoints,
	}
}
