// Package engine implements the aggregation, comparison, and forecasting
// core of the marketing-performance dashboard. Every function is a pure
// computation over immutable in-memory inputs: no I/O, no shared state,
// safe for concurrent callers as long as the inputs are not mutated.
package engine

import (
	"sort"
	"strings"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// norm canonicalizes a dimension value for matching. Filter membership is
// case-insensitive; uploaded files are inconsistent about casing.
func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// toSet builds a normalized membership set. Empty input yields a nil set,
// which means "unrestricted" on that dimension.
func toSet(values []string) map[string]struct{} {
	var set map[string]struct{}
	for _, v := range values {
		v = norm(v)
		if v == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{})
		}
		set[v] = struct{}{}
	}
	return set
}

func inSet(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[norm(value)]
	return ok
}

// ApplyFilter returns the activities matching ALL non-empty dimensions of
// the spec, preserving the original relative order. Date bounds are
// inclusive and compared at day granularity.
func ApplyFilter(activities []domain.DispatchActivity, spec domain.FilterSpec) []domain.DispatchActivity {
	bus := toSet(spec.BusinessUnits)
	chs := toSet(spec.Channels)
	segs := toSet(spec.Segments)
	parts := toSet(spec.Partners)
	jous := toSet(spec.Journeys)

	out := make([]domain.DispatchActivity, 0, len(activities))
	for _, a := range activities {
		if !inSet(bus, a.BusinessUnit) || !inSet(chs, a.Channel) ||
			!inSet(segs, a.Segment) || !inSet(parts, a.Partner) || !inSet(jous, a.Journey) {
			continue
		}
		day := domain.DayOf(a.Date.Time)
		if spec.DateStart != nil && day.Before(spec.DateStart.Time) {
			continue
		}
		if spec.DateEnd != nil && day.After(spec.DateEnd.Time) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// ListFacets returns the distinct values per dimension, sorted, over the
// given (normally unfiltered) collection. Used to build UI filter controls.
func ListFacets(activities []domain.DispatchActivity) domain.Facets {
	return domain.Facets{
		BusinessUnits: distinct(activities, func(a domain.DispatchActivity) string { return a.BusinessUnit }),
		Channels:      distinct(activities, func(a domain.DispatchActivity) string { return a.Channel }),
		Segments:      distinct(activities, func(a domain.DispatchActivity) string { return a.Segment }),
		Partners:      distinct(activities, func(a domain.DispatchActivity) string { return a.Partner }),
		Journeys:      distinct(activities, func(a domain.DispatchActivity) string { return a.Journey }),
	}
}

// CountFacets returns per-value activity counts. It must be fed the
// already-filtered collection so the counts reflect the other active
// filters; values with no surviving activity are omitted, not zeroed.
func CountFacets(activities []domain.DispatchActivity) domain.FacetCounts {
	return domain.FacetCounts{
		BusinessUnits: countBy(activities, func(a domain.DispatchActivity) string { return a.BusinessUnit }),
		Channels:      countBy(activities, func(a domain.DispatchActivity) string { return a.Channel }),
		Segments:      countBy(activities, func(a domain.DispatchActivity) string { return a.Segment }),
		Partners:      countBy(activities, func(a domain.DispatchActivity) string { return a.Partner }),
		Journeys:      countBy(activities, func(a domain.DispatchActivity) string { return a.Journey }),
	}
}

func distinct(activities []domain.DispatchActivity, dim func(domain.DispatchActivity) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, a := range activities {
		v := strings.TrimSpace(dim(a))
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

func countBy(activities []domain.DispatchActivity, dim func(domain.DispatchActivity) string) map[string]int {
	counts := make(map[string]int)
	for _, a := range activities {
		v := strings.TrimSpace(dim(a))
		if v == "" {
			continue
		}
		counts[v]++
	}
	return counts
}
