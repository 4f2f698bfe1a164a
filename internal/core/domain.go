package core

import (
	"errors"
	"fmt"
	"time"
)

// CategoryType partitions the chart of accounts for sign conventions in
// profit and burn calculations. The set is closed: code switching on it
// must handle every constant and fail loudly on anything else.
type CategoryType string

const (
	CategoryRevenue CategoryType = "revenue"
	CategoryCOGS    CategoryType = "cogs"
	CategoryOpex    CategoryType = "opex"
	CategoryCapex   CategoryType = "capex"
	CategoryCash    CategoryType = "cash"
)

// EntryStatus is the lifecycle state of a ledger entry.
type EntryStatus string

const (
	StatusForecast EntryStatus = "forecast"
	StatusActual   EntryStatus = "actual"
	StatusClosed   EntryStatus = "closed"
)

// AccountStatus marks whether an account participates in data entry.
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

var (
	ErrMalformedAmount     = errors.New("malformed amount")
	ErrInvalidPeriodFilter = errors.New("invalid period filter")
	ErrDuplicateEntry      = errors.New("ledger entry already exists for this account and period")
	ErrDuplicateCode       = errors.New("account code already exists")
	ErrNotFound            = errors.New("not found")
	ErrEmptyName           = errors.New("empty name")
	ErrInvalidCategoryType = errors.New("invalid category type")
	ErrInvalidStatus       = errors.New("invalid status")
)

type (
	// Category is immutable reference data; its type drives every sign
	// convention downstream.
	Category struct {
		ID        int64        `json:"id"`
		Name      string       `json:"name"`
		Type      CategoryType `json:"type"`
		Color     string       `json:"color"`
		SortOrder int          `json:"sort_order"`
		CreatedAt time.Time    `json:"created_at"`
	}

	// Account belongs to exactly one category; ledger entries inherit
	// the category type through it.
	Account struct {
		ID          int64         `json:"id"`
		Code        string        `json:"code"`
		Name        string        `json:"name"`
		CategoryID  int64         `json:"category_id"`
		Subcategory string        `json:"subcategory"`
		Status      AccountStatus `json:"status"`
		Notes       string        `json:"notes"`
		CreatedAt   time.Time     `json:"created_at"`
	}

	// Period is an accounting month. Periods may exist with zero ledger
	// entries; trend output still emits a zero row for them.
	Period struct {
		ID        int64     `json:"id"`
		Code      string    `json:"code"`
		Label     string    `json:"label"`
		StartDate string    `json:"start_date"`
		EndDate   string    `json:"end_date"`
		IsActive  bool      `json:"is_active"`
		CreatedAt time.Time `json:"created_at"`
	}

	// LedgerEntry is one budget-vs-actual line for an (account, period)
	// pair. At most one entry exists per pair; a second create is a
	// conflict, not an overwrite. Variance is derived, never stored.
	LedgerEntry struct {
		ID        int64       `json:"id"`
		AccountID int64       `json:"account_id"`
		Period    string      `json:"period"`
		Budget    Money       `json:"budget"`
		Actual    Money       `json:"actual"`
		Status    EntryStatus `json:"status"`
		Notes     string      `json:"notes"`
		Version   int64       `json:"-"`
		CreatedAt time.Time   `json:"created_at"`
		UpdatedAt time.Time   `json:"updated_at"`
	}

	// EntryRow is a ledger entry joined with its account and category,
	// the shape the snapshot reader hands to the aggregation engine and
	// the ledger listing endpoint returns.
	EntryRow struct {
		LedgerEntry
		AccountCode   string       `json:"account_code"`
		AccountName   string       `json:"account_name"`
		Subcategory   string       `json:"subcategory"`
		CategoryID    int64        `json:"category_id"`
		CategoryName  string       `json:"category_name"`
		CategoryType  CategoryType `json:"category_type"`
		CategoryColor string       `json:"category_color"`
		SortOrder     int          `json:"-"`
	}

	// KPIMetric is a tracked indicator grouped by business area.
	KPIMetric struct {
		ID           int64     `json:"id"`
		Name         string    `json:"name"`
		GroupName    string    `json:"group_name"`
		Unit         string    `json:"unit"`
		TargetValue  Money     `json:"target_value"`
		CurrentValue Money     `json:"current_value"`
		Period       string    `json:"period"`
		Status       string    `json:"status"`
		Notes        string    `json:"notes"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}
)

// ParseCategoryType validates a raw string against the closed set.
func ParseCategoryType(s string) (CategoryType, error) {
	switch t := CategoryType(s); t {
	case CategoryRevenue, CategoryCOGS, CategoryOpex, CategoryCapex, CategoryCash:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategoryType, s)
}

// IsExpense reports whether entries of this type count as spend in
// breakdowns (cogs, opex and capex do; revenue and cash do not).
func (t CategoryType) IsExpense() bool {
	switch t {
	case CategoryCOGS, CategoryOpex, CategoryCapex:
		return true
	case CategoryRevenue, CategoryCash:
		return false
	}
	return false
}

// ParseEntryStatus validates a raw entry status string.
func ParseEntryStatus(s string) (EntryStatus, error) {
	switch st := EntryStatus(s); st {
	case StatusForecast, StatusActual, StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ParseAccountStatus validates a raw account status string.
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch st := AccountStatus(s); st {
	case AccountActive, AccountInactive:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ValidatePeriodCode checks the YYYY-MM shape of a period code.
// Lexicographic order on valid codes is chronological order.
func ValidatePeriodCode(code string) error {
	if len(code) != 7 || code[4] != '-' {
		return fmt.Errorf("%w: %q", ErrInvalidPeriodFilter, code)
	}
	for i, r := range code {
		if i == 4 {
			continue
		}
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", ErrInvalidPeriodFilter, code)
		}
	}
	month := (code[5]-'0')*10 + (code[6] - '0')
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %q", ErrInvalidPeriodFilter, code)
	}
	return nil
}

// Variance is the derived budget-vs-actual difference, actual − budget.
// A positive variance on a revenue account is over-performance; on an
// expense account it is overspend.
func (e LedgerEntry) Variance() Money {
	return e.Actual.Sub(e.Budget)
}

func (c Category) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if _, err := ParseCategoryType(string(c.Type)); err != nil {
		return err
	}
	return nil
}

func (a Account) Validate() error {
	if a.Code == "" {
		return errors.New("empty account code")
	}
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.CategoryID <= 0 {
		return errors.New("account requires a category")
	}
	if _, err := ParseAccountStatus(string(a.Status)); err != nil {
		return err
	}
	return nil
}

func (p Period) Validate() error {
	if err := ValidatePeriodCode(p.Code); err != nil {
		return err
	}
	if p.Label == "" {
		return errors.New("empty period label")
	}
	if p.StartDate == "" || p.EndDate == "" {
		return errors.New("period requires a date range")
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if e.AccountID <= 0 {
		return errors.New("ledger entry requires an account")
	}
	if err := ValidatePeriodCode(e.Period); err != nil {
		return err
	}
	if _, err := ParseEntryStatus(string(e.Status)); err != nil {
		return err
	}
	return nil
}

func (k KPIMetric) Validate() error {
	if k.Name == "" {
		return ErrEmptyName
	}
	if k.GroupName == "" {
		return errors.New("empty kpi group")
	}
	return nil
}
