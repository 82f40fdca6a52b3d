package engine

import (
	"sort"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
)

// BuildLedger joins the (already filtered) activity collection with the
// origination-daily collection into one DailyLedgerEntry per calendar day.
//
// The ledger covers exactly the union of dates present in either source:
// a date with CRM sends but no origination row gets zeroed company totals,
// and vice versa. No date is dropped and none is invented.
//
// Duplicate origination dates: the first row for a date wins and later
// rows are ignored. Upstream daily exports place the authoritative row
// first; summing would double company-wide totals.
//
// campaignChannels is the set of channels counted into CRMCampaignCount
// (matched case-insensitively).
func BuildLedger(activities []domain.DispatchActivity, origination []domain.OriginationDailyRow, campaignChannels []string) []domain.DailyLedgerEntry {
	campaign := toSet(campaignChannels)

	entries := make(map[string]*domain.DailyLedgerEntry)
	get := func(d domain.Day) *domain.DailyLedgerEntry {
		k := d.Key()
		e, ok := entries[k]
		if !ok {
			e = &domain.DailyLedgerEntry{Date: d}
			entries[k] = e
		}
		return e
	}

	for _, a := range activities {
		e := get(domain.DayOf(a.Date.Time))
		e.CRMProposals += a.Proposals
		e.CRMCards += a.CardsIssued
		e.CRMCost += a.TotalCost
		e.CRMBaseDelivered += a.BaseDelivered
		e.CRMBaseSent += a.BaseSent
		if campaign != nil && inSet(campaign, a.Channel) {
			e.CRMCampaignCount++
		}
	}

	seen := make(map[string]struct{})
	for _, r := range origination {
		d := domain.DayOf(r.Date.Time)
		if _, dup := seen[d.Key()]; dup {
			continue
		}
		seen[d.Key()] = struct{}{}
		e := get(d)
		e.TotalProposals = r.TotalProposals
		e.TotalCards = r.TotalCards
	}

	out := make([]domain.DailyLedgerEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// ClipOrigination restricts origination rows to an inclusive day range.
// Nil bounds are open-ended. Used so the ledger union cannot pull in
// origination dates outside the requested period.
func ClipOrigination(rows []domain.OriginationDailyRow, start, end *domain.Day) []domain.OriginationDailyRow {
	if start == nil && end == nil {
		return rows
	}
	out := make([]domain.OriginationDailyRow, 0, len(rows))
	for _, r := range rows {
		d := domain.DayOf(r.Date.Time)
		if start != nil && d.Before(start.Time) {
			continue
		}
		if end != nil && d.After(end.Time) {
			continue
		}
		out = append(out, r)
	}
	return out
}
