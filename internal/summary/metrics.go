package summary

import "ledgerboard/internal/core"

// Metrics are the derived KPI figures computed from category totals.
// Every field is finite: degenerate inputs resolve to zero, never to
// NaN or infinity.
type Metrics struct {
	NetProfit    core.Money
	BurnRate     core.Money
	ProfitMargin float64
	Runway       float64
}

// ComputeMetrics derives the dashboard metrics from category totals.
//
// Burn rate is normalized to a per-period figure when the aggregation
// spans more than one period, so the number means the same thing whether
// one month or the full history is selected. availableCash is an external
// input; it cannot be derived from the ledger.
func ComputeMetrics(t Totals, periodCount int, availableCash core.Money) Metrics {
	m := Metrics{
		NetProfit: t.Revenue.Value.Sub(t.COGS.Value).Sub(t.Opex.Value),
	}

	burn := t.COGS.Value.Add(t.Opex.Value)
	if periodCount > 1 {
		burn = burn.DivInt(periodCount)
	}
	m.BurnRate = burn

	if t.Revenue.Value.IsPositive() {
		m.ProfitMargin = m.NetProfit.Ratio(t.Revenue.Value)
	}
	if burn.IsPositive() && availableCash.IsPositive() {
		m.Runway = availableCash.Ratio(burn)
	}
	return m
}
