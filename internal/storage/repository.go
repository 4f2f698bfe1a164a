// Package storage persists the chart of accounts, periods, ledger entries
// and KPI metrics in SQLite. Monetary columns are decimal text: they are
// parsed strictly on the way out, and a value that does not parse is a
// hard error rather than a silent zero.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ledgerboard/internal/core"
	"ledgerboard/internal/summary"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// mapConstraintErr translates SQLite unique-constraint violations into the
// domain conflict errors handlers map to 409.
func mapConstraintErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		switch {
		case strings.Contains(msg, "ledger_entries.account_id"):
			return core.ErrDuplicateEntry
		case strings.Contains(msg, "accounts.code"):
			return core.ErrDuplicateCode
		case strings.Contains(msg, "periods.code"):
			return fmt.Errorf("%w: period code", core.ErrDuplicateCode)
		}
	}
	return err
}

func parseAmountColumn(table, column string, id int64, raw string) (core.Money, error) {
	m, err := core.ParseAmount(raw)
	if err != nil {
		return core.Money{}, fmt.Errorf("%s.%s for id %d: %w", table, column, id, err)
	}
	return m, nil
}

// ---- categories ----

const categoryColumns = "id, name, type, color, sort_order, created_at"

func scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var c core.Category
	var rawType string
	if err := row.Scan(&c.ID, &c.Name, &rawType, &c.Color, &c.SortOrder, &c.CreatedAt); err != nil {
		return core.Category{}, err
	}
	t, err := core.ParseCategoryType(rawType)
	if err != nil {
		return core.Category{}, fmt.Errorf("category %d: %w", c.ID, err)
	}
	c.Type = t
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY sort_order, name")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (name, type, color, sort_order) VALUES (?, ?, ?, ?)",
		c.Name, string(c.Type), c.Color, c.SortOrder)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", mapConstraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	return r.GetCategory(ctx, id)
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, type = ?, color = ?, sort_order = ? WHERE id = ?",
		c.Name, string(c.Type), c.Color, c.SortOrder, c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", mapConstraintErr(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Category{}, fmt.Errorf("category %d: %w", c.ID, core.ErrNotFound)
	}
	return r.GetCategory(ctx, c.ID)
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ---- accounts ----

const accountColumns = "id, code, name, category_id, subcategory, status, notes, created_at"

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var a core.Account
	var rawStatus string
	if err := row.Scan(&a.ID, &a.Code, &a.Name, &a.CategoryID, &a.Subcategory, &rawStatus, &a.Notes, &a.CreatedAt); err != nil {
		return core.Account{}, err
	}
	st, err := core.ParseAccountStatus(rawStatus)
	if err != nil {
		return core.Account{}, fmt.Errorf("account %d: %w", a.ID, err)
	}
	a.Status = st
	return a, nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO accounts (code, name, category_id, subcategory, status, notes) VALUES (?, ?, ?, ?, ?, ?)",
		a.Code, a.Name, a.CategoryID, a.Subcategory, string(a.Status), a.Notes)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", mapConstraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Account{}, fmt.Errorf("create account id: %w", err)
	}
	return r.GetAccount(ctx, id)
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE accounts SET code = ?, name = ?, category_id = ?, subcategory = ?, status = ?, notes = ? WHERE id = ?",
		a.Code, a.Name, a.CategoryID, a.Subcategory, string(a.Status), a.Notes, a.ID)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", mapConstraintErr(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Account{}, fmt.Errorf("account %d: %w", a.ID, core.ErrNotFound)
	}
	return r.GetAccount(ctx, a.ID)
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ---- periods ----

const periodColumns = "id, code, label, start_date, end_date, is_active, created_at"

func scanPeriod(row interface{ Scan(...any) error }) (core.Period, error) {
	var p core.Period
	err := row.Scan(&p.ID, &p.Code, &p.Label, &p.StartDate, &p.EndDate, &p.IsActive, &p.CreatedAt)
	return p, err
}

// ListPeriods returns all known periods ordered chronologically.
func (r *SQLiteRepository) ListPeriods(ctx context.Context) ([]core.Period, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+periodColumns+" FROM periods ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var out []core.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetPeriod(ctx context.Context, code string) (core.Period, error) {
	p, err := scanPeriod(r.db.QueryRowContext(ctx,
		"SELECT "+periodColumns+" FROM periods WHERE code = ?", code))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Period{}, fmt.Errorf("period %s: %w", code, core.ErrNotFound)
	}
	if err != nil {
		return core.Period{}, fmt.Errorf("get period: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) CreatePeriod(ctx context.Context, p core.Period) (core.Period, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO periods (code, label, start_date, end_date, is_active) VALUES (?, ?, ?, ?, ?)",
		p.Code, p.Label, p.StartDate, p.EndDate, p.IsActive)
	if err != nil {
		return core.Period{}, fmt.Errorf("create period: %w", mapConstraintErr(err))
	}
	return r.GetPeriod(ctx, p.Code)
}

// ---- ledger entries ----

const entryRowQuery = `
SELECT e.id, e.account_id, e.period, e.budget_amount, e.actual_amount,
       e.status, e.notes, e.version, e.created_at, e.updated_at,
       a.code, a.name, a.subcategory,
       c.id, c.name, c.type, c.color, c.sort_order
FROM ledger_entries e
JOIN accounts a ON a.id = e.account_id
JOIN categories c ON c.id = a.category_id`

func scanEntryRow(row interface{ Scan(...any) error }) (core.EntryRow, error) {
	var e core.EntryRow
	var rawBudget, rawActual, rawStatus, rawType string
	err := row.Scan(
		&e.ID, &e.AccountID, &e.LedgerEntry.Period, &rawBudget, &rawActual,
		&rawStatus, &e.Notes, &e.Version, &e.CreatedAt, &e.UpdatedAt,
		&e.AccountCode, &e.AccountName, &e.Subcategory,
		&e.CategoryID, &e.CategoryName, &rawType, &e.CategoryColor, &e.SortOrder,
	)
	if err != nil {
		return core.EntryRow{}, err
	}
	if e.Budget, err = parseAmountColumn("ledger_entries", "budget_amount", e.ID, rawBudget); err != nil {
		return core.EntryRow{}, err
	}
	if e.Actual, err = parseAmountColumn("ledger_entries", "actual_amount", e.ID, rawActual); err != nil {
		return core.EntryRow{}, err
	}
	if e.LedgerEntry.Status, err = core.ParseEntryStatus(rawStatus); err != nil {
		return core.EntryRow{}, fmt.Errorf("ledger entry %d: %w", e.ID, err)
	}
	if e.CategoryType, err = core.ParseCategoryType(rawType); err != nil {
		return core.EntryRow{}, fmt.Errorf("ledger entry %d: %w", e.ID, err)
	}
	return e, nil
}

func (r *SQLiteRepository) queryEntryRows(ctx context.Context, tail string, args ...any) ([]core.EntryRow, error) {
	rows, err := r.db.QueryContext(ctx, entryRowQuery+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()

	var out []core.EntryRow
	for rows.Next() {
		e, err := scanEntryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListEntries returns joined ledger rows, newest period first, categories
// in display order, accounts by code. An empty period means all periods.
func (r *SQLiteRepository) ListEntries(ctx context.Context, period string) ([]core.EntryRow, error) {
	order := " ORDER BY e.period DESC, c.sort_order, a.code"
	if period == "" {
		return r.queryEntryRows(ctx, order)
	}
	return r.queryEntryRows(ctx, " WHERE e.period = ?"+order, period)
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, id int64) (core.EntryRow, error) {
	e, err := scanEntryRow(r.db.QueryRowContext(ctx, entryRowQuery+" WHERE e.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.EntryRow{}, fmt.Errorf("ledger entry %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.EntryRow{}, fmt.Errorf("get ledger entry: %w", err)
	}
	return e, nil
}

// CreateEntry inserts a budget-vs-actual line. A second entry for the same
// (account, period) pair is a conflict; the existing row stays untouched.
func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ledger_entries (account_id, period, budget_amount, actual_amount, status, notes) VALUES (?, ?, ?, ?, ?, ?)",
		e.AccountID, e.Period, e.Budget.String(), e.Actual.String(), string(e.Status), e.Notes)
	if err != nil {
		return core.EntryRow{}, fmt.Errorf("create ledger entry: %w", mapConstraintErr(err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.EntryRow{}, fmt.Errorf("create ledger entry id: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry saved",
		"id", id,
		"account_id", e.AccountID,
		"period", e.Period,
		"budget", e.Budget.String(),
		"actual", e.Actual.String())

	return r.GetEntry(ctx, id)
}

// UpdateEntry rewrites the amounts, status and notes of an entry, bumps its
// version and clears any previous export state so the row is picked up
// again by the exporter.
func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ledger_entries
		 SET budget_amount = ?, actual_amount = ?, status = ?, notes = ?,
		     version = version + 1, exported = 0, export_error = 0,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.Budget.String(), e.Actual.String(), string(e.Status), e.Notes, e.ID)
	if err != nil {
		return core.EntryRow{}, fmt.Errorf("update ledger entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.EntryRow{}, fmt.Errorf("ledger entry %d: %w", e.ID, core.ErrNotFound)
	}
	return r.GetEntry(ctx, e.ID)
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM ledger_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ledger entry %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ---- aggregation snapshot ----

// Snapshot implements summary.SnapshotReader: one read-only transaction
// yields the full joined entry history plus the known period set, so the
// engine aggregates over a consistent view.
func (r *SQLiteRepository) Snapshot(ctx context.Context) (*summary.Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, entryRowQuery+" ORDER BY e.period, c.sort_order, a.code")
	if err != nil {
		return nil, fmt.Errorf("snapshot ledger entries: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{}
	for rows.Next() {
		e, err := scanEntryRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot entry: %w", err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot ledger entries: %w", err)
	}

	periodRows, err := tx.QueryContext(ctx, "SELECT "+periodColumns+" FROM periods ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("snapshot periods: %w", err)
	}
	defer periodRows.Close()

	for periodRows.Next() {
		p, err := scanPeriod(periodRows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot period: %w", err)
		}
		snap.Periods = append(snap.Periods, p)
	}
	if err := periodRows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot periods: %w", err)
	}

	return snap, tx.Commit()
}

// Snapshot aliases the engine's snapshot type so callers that only need
// storage do not import the aggregation package.
type Snapshot = summary.Snapshot

// ---- kpi metrics ----

const kpiColumns = "id, name, group_name, unit, target_value, current_value, period, status, notes, created_at, updated_at"

func scanKPI(row interface{ Scan(...any) error }) (core.KPIMetric, error) {
	var k core.KPIMetric
	var rawTarget, rawCurrent string
	err := row.Scan(&k.ID, &k.Name, &k.GroupName, &k.Unit, &rawTarget, &rawCurrent,
		&k.Period, &k.Status, &k.Notes, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return core.KPIMetric{}, err
	}
	if k.TargetValue, err = parseAmountColumn("kpi_metrics", "target_value", k.ID, rawTarget); err != nil {
		return core.KPIMetric{}, err
	}
	if k.CurrentValue, err = parseAmountColumn("kpi_metrics", "current_value", k.ID, rawCurrent); err != nil {
		return core.KPIMetric{}, err
	}
	return k, nil
}

// ListKPIs returns metrics grouped by business area, then by name.
func (r *SQLiteRepository) ListKPIs(ctx context.Context) ([]core.KPIMetric, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+kpiColumns+" FROM kpi_metrics ORDER BY group_name, name")
	if err != nil {
		return nil, fmt.Errorf("list kpi metrics: %w", err)
	}
	defer rows.Close()

	var out []core.KPIMetric
	for rows.Next() {
		k, err := scanKPI(rows)
		if err != nil {
			return nil, fmt.Errorf("scan kpi metric: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetKPI(ctx context.Context, id int64) (core.KPIMetric, error) {
	k, err := scanKPI(r.db.QueryRowContext(ctx,
		"SELECT "+kpiColumns+" FROM kpi_metrics WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.KPIMetric{}, fmt.Errorf("kpi metric %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.KPIMetric{}, fmt.Errorf("get kpi metric: %w", err)
	}
	return k, nil
}

func (r *SQLiteRepository) CreateKPI(ctx context.Context, k core.KPIMetric) (core.KPIMetric, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO kpi_metrics (name, group_name, unit, target_value, current_value, period, status, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		k.Name, k.GroupName, k.Unit, k.TargetValue.String(), k.CurrentValue.String(), k.Period, k.Status, k.Notes)
	if err != nil {
		return core.KPIMetric{}, fmt.Errorf("create kpi metric: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.KPIMetric{}, fmt.Errorf("create kpi metric id: %w", err)
	}
	return r.GetKPI(ctx, id)
}

func (r *SQLiteRepository) UpdateKPI(ctx context.Context, k core.KPIMetric) (core.KPIMetric, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE kpi_metrics
		 SET name = ?, group_name = ?, unit = ?, target_value = ?, current_value = ?,
		     period = ?, status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		k.Name, k.GroupName, k.Unit, k.TargetValue.String(), k.CurrentValue.String(),
		k.Period, k.Status, k.Notes, k.ID)
	if err != nil {
		return core.KPIMetric{}, fmt.Errorf("update kpi metric: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.KPIMetric{}, fmt.Errorf("kpi metric %d: %w", k.ID, core.ErrNotFound)
	}
	return r.GetKPI(ctx, k.ID)
}

func (r *SQLiteRepository) DeleteKPI(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM kpi_metrics WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete kpi metric: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("kpi metric %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ---- export bookkeeping ----

// PendingExportEntry is the minimal row identity queued for export.
type PendingExportEntry struct {
	ID      int64
	Version int64
}

// GetPendingExportEntries lists entries not yet appended to the spreadsheet,
// oldest first, skipping rows already marked as failing.
func (r *SQLiteRepository) GetPendingExportEntries(ctx context.Context, limit int) ([]PendingExportEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, version FROM ledger_entries WHERE exported = 0 AND export_error = 0 ORDER BY updated_at LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("get pending export entries: %w", err)
	}
	defer rows.Close()

	var out []PendingExportEntry
	for rows.Next() {
		var p PendingExportEntry
		if err := rows.Scan(&p.ID, &p.Version); err != nil {
			return nil, fmt.Errorf("scan pending export entry: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkExported records a successful spreadsheet append for the given entry
// version. A concurrent update bumps the version and the row stays pending.
func (r *SQLiteRepository) MarkExported(ctx context.Context, id, version int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE ledger_entries SET exported = 1, export_error = 0 WHERE id = ? AND version = ?",
		id, version)
	if err != nil {
		return fmt.Errorf("mark entry exported: %w", err)
	}
	slog.InfoContext(ctx, "Ledger entry marked as exported", "id", id, "version", version)
	return nil
}

// MarkExportError flags an entry whose export failed so the pending scan
// stops retrying it until the next update.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE ledger_entries SET export_error = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark entry export error: %w", err)
	}
	slog.WarnContext(ctx, "Ledger entry marked with export error", "id", id)
	return nil
}
