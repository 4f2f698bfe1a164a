package summary

import (
	"sort"

	"ledgerboard/internal/core"
)

// BuildTrend produces one row per period over the full period history,
// regardless of the active filter: trend charts always show everything.
//
// Every known period appears, zero-valued when it has no entries; period
// codes found only in entries (a known-period gap in reference data) are
// included as well. Rows are sorted ascending by period code, which for
// YYYY-MM codes is chronological order. The sort is explicit: storage
// ordering is not trusted.
func BuildTrend(periods []core.Period, rows []core.EntryRow, v Valuator) []core.TrendRow {
	byPeriod := make(map[string]*core.TrendRow, len(periods))
	order := make([]string, 0, len(periods))

	ensure := func(code string) *core.TrendRow {
		if r, ok := byPeriod[code]; ok {
			return r
		}
		r := &core.TrendRow{Period: code}
		byPeriod[code] = r
		order = append(order, code)
		return r
	}

	for _, p := range periods {
		ensure(p.Code)
	}
	for _, row := range rows {
		r := ensure(row.Period)
		amount := v.Value(row)
		switch row.CategoryType {
		case core.CategoryRevenue:
			r.Revenue = r.Revenue.Add(amount)
		case core.CategoryCOGS:
			r.COGS = r.COGS.Add(amount)
		case core.CategoryOpex:
			r.Opex = r.Opex.Add(amount)
		case core.CategoryCapex, core.CategoryCash:
			// Not part of the operating trend.
		}
	}

	sort.Strings(order)
	out := make([]core.TrendRow, 0, len(order))
	for _, code := range order {
		r := byPeriod[code]
		r.Net = r.Revenue.Sub(r.COGS).Sub(r.Opex)
		out = append(out, *r)
	}
	return out
}

// RevenueSeries projects the trend into the single-axis revenue chart.
func RevenueSeries(trend []core.TrendRow) []core.PeriodAmount {
	out := make([]core.PeriodAmount, 0, len(trend))
	for _, r := range trend {
		out = append(out, core.PeriodAmount{Period: r.Period, Amount: r.Revenue})
	}
	return out
}

// ExpenseSeries projects the trend into the single-axis expense chart,
// where expense is cogs + opex.
func ExpenseSeries(trend []core.TrendRow) []core.PeriodAmount {
	out := make([]core.PeriodAmount, 0, len(trend))
	for _, r := range trend {
		out = append(out, core.PeriodAmount{Period: r.Period, Amount: r.COGS.Add(r.Opex)})
	}
	return out
}
