package core

// PeriodAmount is one point of a single-series chart (revenue or expense
// by period).
type PeriodAmount struct {
	Period string `json:"period"`
	Amount Money  `json:"amount"`
}

// CategoryAmount is one slice of the expense breakdown chart, carrying
// the category's configured display color.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
	Color  string `json:"color"`
}

// SubcategoryAmount is one bar of the revenue-by-subcategory chart.
type SubcategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// TrendRow is one period of the monthly trend chart.
type TrendRow struct {
	Period  string `json:"period"`
	Revenue Money  `json:"revenue"`
	COGS    Money  `json:"cogs"`
	Opex    Money  `json:"opex"`
	Net     Money  `json:"net"`
}

// Summary is the assembled dashboard record. It is computed per request
// and has no lifecycle of its own; every numeric field marshals as a
// JSON number.
type Summary struct {
	Period string `json:"period"`

	TotalRevenue Money `json:"total_revenue"`
	TotalCOGS    Money `json:"total_cogs"`
	TotalOpex    Money `json:"total_opex"`
	TotalCapex   Money `json:"total_capex"`

	NetProfit     Money   `json:"net_profit"`
	BurnRate      Money   `json:"burn_rate"`
	ProfitMargin  float64 `json:"profit_margin"`
	Runway        float64 `json:"runway"`
	AvailableCash Money   `json:"available_cash"`

	BudgetRevenue Money `json:"budget_revenue"`
	BudgetCOGS    Money `json:"budget_cogs"`
	BudgetOpex    Money `json:"budget_opex"`
	BudgetCapex   Money `json:"budget_capex"`

	RevenueByPeriod      []PeriodAmount      `json:"revenue_by_period"`
	ExpenseByPeriod      []PeriodAmount      `json:"expense_by_period"`
	ExpenseByCategory    []CategoryAmount    `json:"expense_by_category"`
	RevenueBySubcategory []SubcategoryAmount `json:"revenue_by_subcategory"`
	MonthlyTrend         []TrendRow          `json:"monthly_trend"`
}
