package summary

import "ledgerboard/internal/core"

// TypeTotals holds the summed amounts for one category type.
type TypeTotals struct {
	// Value is the actual-side sum under the engine's valuation policy.
	Value core.Money
	// Budget is the exact budget sum, policy-independent.
	Budget core.Money
}

// Totals are the per-category-type sums over one entry sequence. Fields
// mirror the closed category type set so a new type is a compile-time
// change here, not a missed map key at runtime.
type Totals struct {
	Revenue TypeTotals
	COGS    TypeTotals
	Opex    TypeTotals
	Capex   TypeTotals
	Cash    TypeTotals
}

// AggregateByType sums value and budget per category type over rows.
// Rows whose category type falls outside the closed set are impossible
// by construction (types are validated on ingest) and are skipped.
func AggregateByType(rows []core.EntryRow, v Valuator) Totals {
	var t Totals
	for _, row := range rows {
		tt := t.forType(row.CategoryType)
		if tt == nil {
			continue
		}
		tt.Value = tt.Value.Add(v.Value(row))
		tt.Budget = tt.Budget.Add(row.Budget)
	}
	return t
}

func (t *Totals) forType(ct core.CategoryType) *TypeTotals {
	switch ct {
	case core.CategoryRevenue:
		return &t.Revenue
	case core.CategoryCOGS:
		return &t.COGS
	case core.CategoryOpex:
		return &t.Opex
	case core.CategoryCapex:
		return &t.Capex
	case core.CategoryCash:
		return &t.Cash
	}
	return nil
}
