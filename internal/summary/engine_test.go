package summary

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"ledgerboard/internal/core"
)

type stubReader struct {
	snap *Snapshot
	err  error
}

func (s stubReader) Snapshot(ctx context.Context) (*Snapshot, error) {
	return s.snap, s.err
}

func entry(period string, ct core.CategoryType, category string, account string, sub string, budget, actual string, status core.EntryStatus) core.EntryRow {
	return core.EntryRow{
		LedgerEntry: core.LedgerEntry{
			Period: period,
			Budget: core.MustAmount(budget),
			Actual: core.MustAmount(actual),
			Status: status,
		},
		AccountCode:  account,
		AccountName:  account,
		Subcategory:  sub,
		CategoryName: category,
		CategoryType: ct,
	}
}

func period(code string) core.Period {
	return core.Period{Code: code, Label: code, StartDate: code + "-01", EndDate: code + "-28"}
}

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr error
	}{
		{"empty is all", Filter{}, nil},
		{"explicit all", Filter{Period: "all"}, nil},
		{"valid period", Filter{Period: "2026-02"}, nil},
		{"valid with type", Filter{Period: "2026-02", CategoryType: core.CategoryOpex}, nil},
		{"bad shape", Filter{Period: "2026/02"}, core.ErrInvalidPeriodFilter},
		{"month zero", Filter{Period: "2026-00"}, core.ErrInvalidPeriodFilter},
		{"month thirteen", Filter{Period: "2026-13"}, core.ErrInvalidPeriodFilter},
		{"too short", Filter{Period: "2026-2"}, core.ErrInvalidPeriodFilter},
		{"unknown type", Filter{CategoryType: core.CategoryType("payroll")}, core.ErrInvalidCategoryType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildSinglePeriod(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-01", "Licenses", "100.00", "45.00", core.StatusActual),
			entry("2026-02", core.CategoryCOGS, "Cost of Goods", "COGS-01", "", "80.00", "65.00", core.StatusActual),
			entry("2026-02", core.CategoryOpex, "Operations", "OPEX-01", "", "20.00", "20.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap})

	got, err := eng.Build(context.Background(), Filter{Period: "2026-02"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got.Period != "2026-02" {
		t.Errorf("Period = %q, want %q", got.Period, "2026-02")
	}
	checkAmount(t, "TotalRevenue", got.TotalRevenue, "45")
	checkAmount(t, "TotalCOGS", got.TotalCOGS, "65")
	checkAmount(t, "TotalOpex", got.TotalOpex, "20")
	checkAmount(t, "NetProfit", got.NetProfit, "-40")
	checkAmount(t, "BurnRate", got.BurnRate, "85")
	checkAmount(t, "BudgetRevenue", got.BudgetRevenue, "100")
	checkAmount(t, "BudgetCOGS", got.BudgetCOGS, "80")
	checkAmount(t, "BudgetOpex", got.BudgetOpex, "20")

	if math.Abs(got.ProfitMargin-(-0.8889)) > 0.0001 {
		t.Errorf("ProfitMargin = %v, want ≈ -0.8889", got.ProfitMargin)
	}
	if got.Runway != 0 {
		t.Errorf("Runway = %v, want 0 without available cash", got.Runway)
	}
	if len(got.MonthlyTrend) != 1 {
		t.Fatalf("MonthlyTrend has %d rows, want 1", len(got.MonthlyTrend))
	}
	checkAmount(t, "trend net", got.MonthlyTrend[0].Net, "-40")
}

func TestBuildEmptyLedger(t *testing.T) {
	eng := NewEngine(stubReader{snap: &Snapshot{}})

	got, err := eng.Build(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if got.Period != "all" {
		t.Errorf("Period = %q, want %q", got.Period, "all")
	}
	if !got.TotalRevenue.IsZero() || !got.NetProfit.IsZero() || !got.BurnRate.IsZero() {
		t.Errorf("empty ledger produced non-zero totals: %+v", got)
	}
	if got.ProfitMargin != 0 || got.Runway != 0 {
		t.Errorf("empty ledger ratios = (%v, %v), want zeros", got.ProfitMargin, got.Runway)
	}
	if len(got.MonthlyTrend) != 0 {
		t.Errorf("MonthlyTrend has %d rows, want 0", len(got.MonthlyTrend))
	}
}

func TestBuildZeroEntryPeriodStillInTrend(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-01"), period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "120.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap})

	got, err := eng.Build(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(got.MonthlyTrend) != 2 {
		t.Fatalf("MonthlyTrend has %d rows, want 2", len(got.MonthlyTrend))
	}
	first := got.MonthlyTrend[0]
	if first.Period != "2026-01" {
		t.Errorf("trend[0].Period = %q, want 2026-01", first.Period)
	}
	if !first.Revenue.IsZero() || !first.COGS.IsZero() || !first.Opex.IsZero() || !first.Net.IsZero() {
		t.Errorf("zero-entry period row is not all zero: %+v", first)
	}
}

func TestBuildBurnNormalizedAcrossPeriods(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-01"), period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-01", core.CategoryOpex, "Operations", "OPEX-01", "", "0", "30.00", core.StatusActual),
			entry("2026-02", core.CategoryOpex, "Operations", "OPEX-01", "", "0", "50.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap}, WithAvailableCash(core.MustAmount("200")))

	got, err := eng.Build(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	checkAmount(t, "BurnRate", got.BurnRate, "40")
	if math.Abs(got.Runway-5) > 0.0001 {
		t.Errorf("Runway = %v, want 5 (200 cash / 40 burn)", got.Runway)
	}
}

func TestBuildTrendIgnoresPeriodFilter(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-01"), period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-01", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "10.00", core.StatusActual),
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "20.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap})

	got, err := eng.Build(context.Background(), Filter{Period: "2026-02"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	checkAmount(t, "TotalRevenue", got.TotalRevenue, "20")
	if len(got.MonthlyTrend) != 2 {
		t.Fatalf("MonthlyTrend has %d rows, want full history of 2", len(got.MonthlyTrend))
	}
	checkAmount(t, "trend[0].Revenue", got.MonthlyTrend[0].Revenue, "10")
	checkAmount(t, "trend[1].Revenue", got.MonthlyTrend[1].Revenue, "20")
}

func TestBuildCategoryTypeFilter(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "100.00", core.StatusActual),
			entry("2026-02", core.CategoryOpex, "Operations", "OPEX-01", "", "0", "40.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap})

	got, err := eng.Build(context.Background(), Filter{CategoryType: core.CategoryOpex})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !got.TotalRevenue.IsZero() {
		t.Errorf("TotalRevenue = %s, want 0 under opex filter", got.TotalRevenue)
	}
	checkAmount(t, "TotalOpex", got.TotalOpex, "40")
}

func TestBuildIdempotent(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-01"), period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-01", core.CategoryRevenue, "Revenue", "REV-01", "Licenses", "90.00", "75.00", core.StatusActual),
			entry("2026-02", core.CategoryCOGS, "Cost of Goods", "COGS-01", "", "40.00", "0", core.StatusForecast),
		},
	}
	eng := NewEngine(stubReader{snap: snap}, WithAvailableCash(core.MustAmount("385")))

	first, err := eng.Build(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("first Build() error: %v", err)
	}
	second, err := eng.Build(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("second Build() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated builds differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestBuildSeriesSumEqualsTotals(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-01"), period("2026-02"), period("2026-03")},
		Entries: []core.EntryRow{
			entry("2026-01", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "10.00", core.StatusActual),
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "55.50", core.StatusActual),
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-02", "Services", "0", "4.50", core.StatusActual),
			entry("2026-03", core.CategoryCOGS, "Cost of Goods", "COGS-01", "", "0", "25.00", core.StatusActual),
			entry("2026-03", core.CategoryOpex, "Operations", "OPEX-01", "", "0", "12.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap})

	got, err := eng.Build(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var revenueSum, expenseSum core.Money
	for _, p := range got.RevenueByPeriod {
		revenueSum = revenueSum.Add(p.Amount)
	}
	for _, p := range got.ExpenseByPeriod {
		expenseSum = expenseSum.Add(p.Amount)
	}

	if !revenueSum.Equal(got.TotalRevenue) {
		t.Errorf("sum of RevenueByPeriod = %s, TotalRevenue = %s", revenueSum, got.TotalRevenue)
	}
	checkAmount(t, "summed revenue series", revenueSum, "70")
	wantExpenses := got.TotalCOGS.Add(got.TotalOpex)
	if !expenseSum.Equal(wantExpenses) {
		t.Errorf("sum of ExpenseByPeriod = %s, want cogs+opex %s", expenseSum, wantExpenses)
	}
	checkAmount(t, "summed expense series", expenseSum, "37")
}

func TestBuildReaderError(t *testing.T) {
	boom := errors.New("db is gone")
	eng := NewEngine(stubReader{err: boom})

	if _, err := eng.Build(context.Background(), Filter{}); !errors.Is(err, boom) {
		t.Fatalf("Build() error = %v, want wrapped %v", err, boom)
	}
}

func TestBuildSinglePeriodMatchesTrendRow(t *testing.T) {
	snap := &Snapshot{
		Periods: []core.Period{period("2026-01"), period("2026-02")},
		Entries: []core.EntryRow{
			entry("2026-01", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "10.00", core.StatusActual),
			entry("2026-02", core.CategoryRevenue, "Revenue", "REV-01", "", "0", "55.00", core.StatusActual),
			entry("2026-02", core.CategoryOpex, "Operations", "OPEX-01", "", "0", "12.00", core.StatusActual),
		},
	}
	eng := NewEngine(stubReader{snap: snap})

	got, err := eng.Build(context.Background(), Filter{Period: "2026-02"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	var row core.TrendRow
	for _, r := range got.MonthlyTrend {
		if r.Period == "2026-02" {
			row = r
		}
	}
	if !got.TotalRevenue.Equal(row.Revenue) {
		t.Errorf("filtered TotalRevenue %s != trend revenue %s", got.TotalRevenue, row.Revenue)
	}
	if !got.TotalOpex.Equal(row.Opex) {
		t.Errorf("filtered TotalOpex %s != trend opex %s", got.TotalOpex, row.Opex)
	}
	if !got.NetProfit.Equal(row.Net) {
		t.Errorf("filtered NetProfit %s != trend net %s", got.NetProfit, row.Net)
	}
}

func checkAmount(t *testing.T, name string, got core.Money, want string) {
	t.Helper()
	if !got.Equal(core.MustAmount(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}
