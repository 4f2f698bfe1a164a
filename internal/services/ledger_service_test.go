package services

import (
	"context"
	"errors"
	"testing"

	"ledgerboard/internal/core"
)

type fakeRepo struct {
	rows    map[int64]core.EntryRow
	nextID  int64
	created int
	updated int
	deleted int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[int64]core.EntryRow), nextID: 1}
}

func (f *fakeRepo) CreateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error) {
	for _, row := range f.rows {
		if row.AccountID == e.AccountID && row.LedgerEntry.Period == e.Period {
			return core.EntryRow{}, core.ErrDuplicateEntry
		}
	}
	e.ID = f.nextID
	e.Version = 1
	f.nextID++
	f.created++
	row := core.EntryRow{LedgerEntry: e}
	f.rows[e.ID] = row
	return row, nil
}

func (f *fakeRepo) UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error) {
	row, ok := f.rows[e.ID]
	if !ok {
		return core.EntryRow{}, core.ErrNotFound
	}
	row.Budget = e.Budget
	row.Actual = e.Actual
	row.Version++
	f.rows[e.ID] = row
	f.updated++
	return row, nil
}

func (f *fakeRepo) DeleteEntry(ctx context.Context, id int64) error {
	if _, ok := f.rows[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.rows, id)
	f.deleted++
	return nil
}

func (f *fakeRepo) Close() error { return nil }

type recordingPublisher struct {
	published [][2]int64
	err       error
}

func (p *recordingPublisher) PublishEntryExport(ctx context.Context, id, version int64) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, [2]int64{id, version})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func validEntry() core.LedgerEntry {
	return core.LedgerEntry{
		AccountID: 7,
		Period:    "2026-02",
		Budget:    core.MustAmount("100"),
		Actual:    core.MustAmount("45"),
		Status:    core.StatusActual,
	}
}

func TestLedgerService_CreateEntry(t *testing.T) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewLedgerService(repo, pub)

	row, err := svc.CreateEntry(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if row.ID == 0 {
		t.Error("CreateEntry() returned zero ID")
	}
	if len(pub.published) != 1 || pub.published[0] != [2]int64{row.ID, 1} {
		t.Errorf("published = %v, want [[%d 1]]", pub.published, row.ID)
	}
}

func TestLedgerService_CreateEntryValidation(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLedgerService(repo, &recordingPublisher{})

	e := validEntry()
	e.Period = "2026-13"
	if _, err := svc.CreateEntry(context.Background(), e); !errors.Is(err, core.ErrInvalidPeriodFilter) {
		t.Errorf("CreateEntry() error = %v, want ErrInvalidPeriodFilter", err)
	}
	if repo.created != 0 {
		t.Error("invalid entry reached storage")
	}
}

func TestLedgerService_CreateEntryDuplicate(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLedgerService(repo, &recordingPublisher{})

	if _, err := svc.CreateEntry(context.Background(), validEntry()); err != nil {
		t.Fatalf("first CreateEntry() error = %v", err)
	}
	if _, err := svc.CreateEntry(context.Background(), validEntry()); !errors.Is(err, core.ErrDuplicateEntry) {
		t.Errorf("second CreateEntry() error = %v, want ErrDuplicateEntry", err)
	}
}

func TestLedgerService_CreateEntrySurvivesPublishFailure(t *testing.T) {
	repo := newFakeRepo()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewLedgerService(repo, pub)

	if _, err := svc.CreateEntry(context.Background(), validEntry()); err != nil {
		t.Fatalf("CreateEntry() should succeed when publish fails, got %v", err)
	}
	if repo.created != 1 {
		t.Error("entry was not saved")
	}
}

func TestLedgerService_CreateEntryNilPublisher(t *testing.T) {
	repo := newFakeRepo()
	svc := NewLedgerService(repo, nil)

	if _, err := svc.CreateEntry(context.Background(), validEntry()); err != nil {
		t.Fatalf("CreateEntry() with nil publisher error = %v", err)
	}
}

func TestLedgerService_UpdateEntryPublishesNewVersion(t *testing.T) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewLedgerService(repo, pub)

	row, err := svc.CreateEntry(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	update := validEntry()
	update.ID = row.ID
	update.Actual = core.MustAmount("50")
	updated, err := svc.UpdateEntry(context.Background(), update)
	if err != nil {
		t.Fatalf("UpdateEntry() error = %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}
	if len(pub.published) != 2 || pub.published[1] != [2]int64{row.ID, 2} {
		t.Errorf("published = %v, want second message [%d 2]", pub.published, row.ID)
	}
}

func TestLedgerService_DeleteEntry(t *testing.T) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewLedgerService(repo, pub)

	row, err := svc.CreateEntry(context.Background(), validEntry())
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := svc.DeleteEntry(context.Background(), row.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if repo.deleted != 1 {
		t.Error("entry was not deleted")
	}
	// deletions are not mirrored to the export journal
	if len(pub.published) != 1 {
		t.Errorf("published = %v, want only the create message", pub.published)
	}

	if err := svc.DeleteEntry(context.Background(), row.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second DeleteEntry() error = %v, want ErrNotFound", err)
	}
}

func TestLedgerService_Close(t *testing.T) {
	t.Run("nil components", func(t *testing.T) {
		svc := &LedgerService{}
		if err := svc.Close(); err != nil {
			t.Fatalf("Close should not return error with nil components: %v", err)
		}
	})
}
