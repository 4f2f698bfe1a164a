package summary

import (
	"context"
	"fmt"

	"ledgerboard/internal/core"
)

// AllPeriods is the filter value meaning "no period filter".
const AllPeriods = "all"

// Filter is the explicit parameter object for one aggregation call.
// It is passed in per request and never held as shared state.
type Filter struct {
	// Period is a period code, "all", or empty for the full history.
	Period string
	// CategoryType optionally restricts the filtered set to one type.
	CategoryType core.CategoryType
}

// Validate rejects filters whose period value is neither "all", empty,
// nor a well-formed YYYY-MM code. A bad filter is a client error, not an
// empty summary.
func (f Filter) Validate() error {
	if f.Period != "" && f.Period != AllPeriods {
		if err := core.ValidatePeriodCode(f.Period); err != nil {
			return err
		}
	}
	if f.CategoryType != "" {
		if _, err := core.ParseCategoryType(string(f.CategoryType)); err != nil {
			return err
		}
	}
	return nil
}

// Applied is the filter tag recorded on the summary: the period code, or
// "all" when unfiltered.
func (f Filter) Applied() string {
	if f.Period == "" || f.Period == AllPeriods {
		return AllPeriods
	}
	return f.Period
}

// Snapshot is one consistent read of the ledger: the full joined entry
// history plus the known period set. The engine filters in memory, so a
// single snapshot serves both the filtered totals and the
// filter-independent trend.
type Snapshot struct {
	Entries []core.EntryRow
	Periods []core.Period
}

// SnapshotReader is the port to the ledger store. Implementations must
// return a single consistent snapshot; store failures are surfaced
// unchanged and never retried here.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// Engine builds dashboard summaries from ledger snapshots. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	reader        SnapshotReader
	valuator      Valuator
	availableCash core.Money
}

// Option configures an Engine.
type Option func(*Engine)

// WithValuator overrides the default effective-value valuation strategy.
func WithValuator(v Valuator) Option {
	return func(e *Engine) { e.valuator = v }
}

// WithAvailableCash sets the externally supplied cash balance used for
// the runway metric.
func WithAvailableCash(cash core.Money) Option {
	return func(e *Engine) { e.availableCash = cash }
}

// NewEngine creates an aggregation engine over the given snapshot reader.
func NewEngine(reader SnapshotReader, opts ...Option) *Engine {
	e := &Engine{
		reader:   reader,
		valuator: EffectiveValuator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build runs one aggregation: validate the filter, take a snapshot, run
// the independent builders over it, derive metrics and assemble the
// summary. An empty ledger is not an error; it yields a zero-valued
// summary.
func (e *Engine) Build(ctx context.Context, f Filter) (*core.Summary, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	snap, err := e.reader.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read ledger snapshot: %w", err)
	}

	return e.BuildFromSnapshot(snap, f)
}

// BuildFromSnapshot aggregates an already-read snapshot. Split out so the
// caller can reuse one snapshot across filters; it is a pure function of
// its inputs.
func (e *Engine) BuildFromSnapshot(snap *Snapshot, f Filter) (*core.Summary, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	filtered := filterRows(snap.Entries, f)
	totals := AggregateByType(filtered, e.valuator)
	trend := BuildTrend(snap.Periods, snap.Entries, e.valuator)
	metrics := ComputeMetrics(totals, periodsInScope(snap, f), e.availableCash)

	return &core.Summary{
		Period: f.Applied(),

		TotalRevenue: totals.Revenue.Value,
		TotalCOGS:    totals.COGS.Value,
		TotalOpex:    totals.Opex.Value,
		TotalCapex:   totals.Capex.Value,

		NetProfit:     metrics.NetProfit,
		BurnRate:      metrics.BurnRate,
		ProfitMargin:  metrics.ProfitMargin,
		Runway:        metrics.Runway,
		AvailableCash: e.availableCash,

		BudgetRevenue: totals.Revenue.Budget,
		BudgetCOGS:    totals.COGS.Budget,
		BudgetOpex:    totals.Opex.Budget,
		BudgetCapex:   totals.Capex.Budget,

		RevenueByPeriod:      RevenueSeries(trend),
		ExpenseByPeriod:      ExpenseSeries(trend),
		ExpenseByCategory:    ExpenseByCategory(filtered, e.valuator),
		RevenueBySubcategory: RevenueBySubcategory(filtered, e.valuator),
		MonthlyTrend:         trend,
	}, nil
}

// filterRows applies the period and category-type filter to the snapshot.
func filterRows(rows []core.EntryRow, f Filter) []core.EntryRow {
	period := ""
	if p := f.Applied(); p != AllPeriods {
		period = p
	}
	if period == "" && f.CategoryType == "" {
		return rows
	}
	out := make([]core.EntryRow, 0, len(rows))
	for _, row := range rows {
		if period != "" && row.Period != period {
			continue
		}
		if f.CategoryType != "" && row.CategoryType != f.CategoryType {
			continue
		}
		out = append(out, row)
	}
	return out
}

// periodsInScope counts the distinct periods the filtered aggregation
// spans, used to normalize burn rate to a per-period figure. A single
// period filter spans one; the full history spans every known period
// (plus any period that only exists in the entries).
func periodsInScope(snap *Snapshot, f Filter) int {
	if f.Applied() != AllPeriods {
		return 1
	}
	seen := make(map[string]struct{}, len(snap.Periods))
	for _, p := range snap.Periods {
		seen[p.Code] = struct{}{}
	}
	for _, row := range snap.Entries {
		seen[row.Period] = struct{}{}
	}
	return len(seen)
}
