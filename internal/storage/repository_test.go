package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ledgerboard/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

// seedAccount creates an account under the first seeded category of the
// given type.
func seedAccount(t *testing.T, repo *SQLiteRepository, code string, ct core.CategoryType) core.Account {
	t.Helper()
	ctx := context.Background()

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	var categoryID int64
	for _, c := range categories {
		if c.Type == ct {
			categoryID = c.ID
			break
		}
	}
	if categoryID == 0 {
		t.Fatalf("no seeded category of type %s", ct)
	}

	account, err := repo.CreateAccount(ctx, core.Account{
		Code:       code,
		Name:       "Account " + code,
		CategoryID: categoryID,
		Status:     core.AccountActive,
	})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func TestMigrationsSeedCategories(t *testing.T) {
	repo := newTestRepo(t)

	categories, err := repo.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 5 {
		t.Fatalf("expected 5 seeded categories, got %d", len(categories))
	}
	if categories[0].Name != "Revenue" || categories[0].Type != core.CategoryRevenue {
		t.Errorf("expected Revenue first in sort order, got %+v", categories[0])
	}
	if categories[0].Color == "" {
		t.Error("seeded categories should carry a display color")
	}
}

func TestAccountDuplicateCode(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedAccount(t, repo, "REV-01", core.CategoryRevenue)

	categories, _ := repo.ListCategories(ctx)
	_, err := repo.CreateAccount(ctx, core.Account{
		Code:       "REV-01",
		Name:       "Duplicate",
		CategoryID: categories[0].ID,
		Status:     core.AccountActive,
	})
	if !errors.Is(err, core.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestEntryCreateAndConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	account := seedAccount(t, repo, "OPEX-01", core.CategoryOpex)

	created, err := repo.CreateEntry(ctx, core.LedgerEntry{
		AccountID: account.ID,
		Period:    "2026-02",
		Budget:    core.MustAmount("100"),
		Actual:    core.MustAmount("45.50"),
		Status:    core.StatusActual,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if created.Version != 1 {
		t.Errorf("expected version 1, got %d", created.Version)
	}
	if created.Budget.String() != "100" || created.Actual.String() != "45.5" {
		t.Errorf("amounts did not round-trip: budget=%s actual=%s", created.Budget, created.Actual)
	}
	if created.CategoryType != core.CategoryOpex {
		t.Errorf("expected joined category type opex, got %s", created.CategoryType)
	}

	// Same (account, period) is a conflict; the stored row is untouched.
	_, err = repo.CreateEntry(ctx, core.LedgerEntry{
		AccountID: account.ID,
		Period:    "2026-02",
		Budget:    core.MustAmount("1"),
		Actual:    core.MustAmount("1"),
		Status:    core.StatusActual,
	})
	if !errors.Is(err, core.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}
	got, err := repo.GetEntry(ctx, created.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if !got.Budget.Equal(core.MustAmount("100")) {
		t.Errorf("conflicting create must not overwrite, budget=%s", got.Budget)
	}
}

func TestEntryUpdateBumpsVersionAndResetsExport(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	account := seedAccount(t, repo, "COGS-01", core.CategoryCOGS)

	created, err := repo.CreateEntry(ctx, core.LedgerEntry{
		AccountID: account.ID,
		Period:    "2026-02",
		Budget:    core.MustAmount("80"),
		Actual:    core.MustAmount("65"),
		Status:    core.StatusActual,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	if err := repo.MarkExported(ctx, created.ID, created.Version); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, err := repo.GetPendingExportEntries(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending entries after export, got %d", len(pending))
	}

	updated, err := repo.UpdateEntry(ctx, core.LedgerEntry{
		ID:     created.ID,
		Budget: core.MustAmount("80"),
		Actual: core.MustAmount("70"),
		Status: core.StatusClosed,
	})
	if err != nil {
		t.Fatalf("update entry: %v", err)
	}
	if updated.Version != created.Version+1 {
		t.Errorf("expected version bump to %d, got %d", created.Version+1, updated.Version)
	}

	// The update cleared the export flag, so the row queues again.
	pending, err = repo.GetPendingExportEntries(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != created.ID || pending[0].Version != updated.Version {
		t.Fatalf("expected updated row pending at new version, got %+v", pending)
	}

	// A stale-version acknowledgment must not clear the newer row.
	if err := repo.MarkExported(ctx, created.ID, created.Version); err != nil {
		t.Fatalf("stale mark exported: %v", err)
	}
	pending, _ = repo.GetPendingExportEntries(ctx, 10)
	if len(pending) != 1 {
		t.Errorf("stale acknowledgment must keep the row pending, got %d pending", len(pending))
	}
}

func TestMarkExportErrorSkipsPendingScan(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	account := seedAccount(t, repo, "OPEX-02", core.CategoryOpex)

	created, err := repo.CreateEntry(ctx, core.LedgerEntry{
		AccountID: account.ID,
		Period:    "2026-03",
		Budget:    core.MustAmount("20"),
		Actual:    core.MustAmount("20"),
		Status:    core.StatusActual,
	})
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}

	if err := repo.MarkExportError(ctx, created.ID); err != nil {
		t.Fatalf("mark export error: %v", err)
	}
	pending, err := repo.GetPendingExportEntries(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("failed rows must not be rescanned until updated, got %d", len(pending))
	}

	// An update clears the error flag and requeues the row.
	if _, err := repo.UpdateEntry(ctx, core.LedgerEntry{
		ID:     created.ID,
		Budget: core.MustAmount("20"),
		Actual: core.MustAmount("25"),
		Status: core.StatusActual,
	}); err != nil {
		t.Fatalf("update entry: %v", err)
	}
	pending, _ = repo.GetPendingExportEntries(ctx, 10)
	if len(pending) != 1 {
		t.Errorf("expected row requeued after update, got %d pending", len(pending))
	}
}

func TestEntryNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetEntry(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteEntry(ctx, 999); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on delete, got %v", err)
	}
	if _, err := repo.UpdateEntry(ctx, core.LedgerEntry{ID: 999, Status: core.StatusActual}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
}

func TestPeriodDuplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := core.Period{Code: "2026-02", Label: "February 2026", StartDate: "2026-02-01", EndDate: "2026-02-28", IsActive: true}
	if _, err := repo.CreatePeriod(ctx, p); err != nil {
		t.Fatalf("create period: %v", err)
	}
	if _, err := repo.CreatePeriod(ctx, p); !errors.Is(err, core.ErrDuplicateCode) {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	revAccount := seedAccount(t, repo, "REV-01", core.CategoryRevenue)
	opexAccount := seedAccount(t, repo, "OPEX-01", core.CategoryOpex)

	for _, p := range []core.Period{
		{Code: "2026-02", Label: "February 2026", StartDate: "2026-02-01", EndDate: "2026-02-28"},
		{Code: "2026-01", Label: "January 2026", StartDate: "2026-01-01", EndDate: "2026-01-31"},
	} {
		if _, err := repo.CreatePeriod(ctx, p); err != nil {
			t.Fatalf("create period: %v", err)
		}
	}

	entries := []core.LedgerEntry{
		{AccountID: opexAccount.ID, Period: "2026-02", Budget: core.MustAmount("20"), Actual: core.MustAmount("20"), Status: core.StatusActual},
		{AccountID: revAccount.ID, Period: "2026-01", Budget: core.MustAmount("100"), Actual: core.MustAmount("45"), Status: core.StatusActual},
	}
	for _, e := range entries {
		if _, err := repo.CreateEntry(ctx, e); err != nil {
			t.Fatalf("create entry: %v", err)
		}
	}

	snap, err := repo.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(snap.Entries))
	}
	// Entries come back period-ascending, so January first.
	if snap.Entries[0].Period != "2026-01" {
		t.Errorf("expected 2026-01 first, got %s", snap.Entries[0].Period)
	}
	if len(snap.Periods) != 2 || snap.Periods[0].Code != "2026-01" {
		t.Errorf("expected periods sorted by code, got %+v", snap.Periods)
	}
}

func TestKPILifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateKPI(ctx, core.KPIMetric{
		Name:         "MRR",
		GroupName:    "Revenue",
		Unit:         "EUR",
		TargetValue:  core.MustAmount("1000"),
		CurrentValue: core.MustAmount("850.25"),
	})
	if err != nil {
		t.Fatalf("create kpi: %v", err)
	}
	if created.CurrentValue.String() != "850.25" {
		t.Errorf("target did not round-trip: %s", created.CurrentValue)
	}

	created.CurrentValue = core.MustAmount("910")
	updated, err := repo.UpdateKPI(ctx, created)
	if err != nil {
		t.Fatalf("update kpi: %v", err)
	}
	if updated.CurrentValue.String() != "910" {
		t.Errorf("expected 910, got %s", updated.CurrentValue)
	}

	if err := repo.DeleteKPI(ctx, created.ID); err != nil {
		t.Fatalf("delete kpi: %v", err)
	}
	if _, err := repo.GetKPI(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
