package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"ledgerboard/internal/amqp"
	"ledgerboard/internal/core"
	"ledgerboard/internal/export/memory"
	"ledgerboard/internal/storage"
)

type fakeStore struct {
	entries  map[int64]core.EntryRow
	pending  []storage.PendingExportEntry
	exported map[int64]int64
	failed   map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:  make(map[int64]core.EntryRow),
		exported: make(map[int64]int64),
		failed:   make(map[int64]bool),
	}
}

func (f *fakeStore) GetEntry(ctx context.Context, id int64) (core.EntryRow, error) {
	e, ok := f.entries[id]
	if !ok {
		return core.EntryRow{}, fmt.Errorf("ledger entry %d: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (f *fakeStore) GetPendingExportEntries(ctx context.Context, limit int) ([]storage.PendingExportEntry, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStore) MarkExported(ctx context.Context, id, version int64) error {
	f.exported[id] = version
	return nil
}

func (f *fakeStore) MarkExportError(ctx context.Context, id int64) error {
	f.failed[id] = true
	return nil
}

type failingAppender struct{}

func (failingAppender) AppendEntry(ctx context.Context, row core.EntryRow) (string, error) {
	return "", errors.New("sheet unavailable")
}

func testRow(id, version int64) core.EntryRow {
	return core.EntryRow{
		LedgerEntry: core.LedgerEntry{
			ID:        id,
			AccountID: 1,
			Period:    "2026-02",
			Budget:    core.MustAmount("100"),
			Actual:    core.MustAmount("45"),
			Status:    core.StatusActual,
			Version:   version,
		},
		AccountCode:  "REV-01",
		AccountName:  "License revenue",
		CategoryName: "Revenue",
		CategoryType: core.CategoryRevenue,
	}
}

func TestHandleExportMessage(t *testing.T) {
	store := newFakeStore()
	store.entries[1] = testRow(1, 2)
	sink := memory.New()
	w := NewExportWorker(store, sink, 10)

	msg := &amqp.EntryExportMessage{ID: 1, Version: 2}
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleExportMessage() error = %v", err)
	}

	if len(sink.Rows()) != 1 {
		t.Fatalf("appended %d rows, want 1", len(sink.Rows()))
	}
	if store.exported[1] != 2 {
		t.Errorf("exported version = %d, want 2", store.exported[1])
	}
}

func TestHandleExportMessageSupersededVersion(t *testing.T) {
	store := newFakeStore()
	store.entries[1] = testRow(1, 3)
	sink := memory.New()
	w := NewExportWorker(store, sink, 10)

	msg := &amqp.EntryExportMessage{ID: 1, Version: 2}
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleExportMessage() error = %v", err)
	}

	if len(sink.Rows()) != 0 {
		t.Errorf("superseded message still appended %d rows", len(sink.Rows()))
	}
}

func TestHandleExportMessageDeletedEntry(t *testing.T) {
	store := newFakeStore()
	sink := memory.New()
	w := NewExportWorker(store, sink, 10)

	msg := &amqp.EntryExportMessage{ID: 42, Version: 1}
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleExportMessage() should drop messages for deleted entries, got %v", err)
	}
	if len(sink.Rows()) != 0 {
		t.Error("deleted entry was appended")
	}
}

func TestHandleExportMessageAppendFailure(t *testing.T) {
	store := newFakeStore()
	store.entries[1] = testRow(1, 1)
	w := NewExportWorker(store, failingAppender{}, 10)

	msg := &amqp.EntryExportMessage{ID: 1, Version: 1}
	if err := w.HandleExportMessage(context.Background(), msg); err == nil {
		t.Fatal("HandleExportMessage() should fail when append fails")
	}
	if !store.failed[1] {
		t.Error("entry was not marked with export error")
	}
	if _, ok := store.exported[1]; ok {
		t.Error("failed entry was marked exported")
	}
}

func TestProcessPendingEntries(t *testing.T) {
	store := newFakeStore()
	store.entries[1] = testRow(1, 1)
	store.entries[2] = testRow(2, 1)
	store.pending = []storage.PendingExportEntry{{ID: 1, Version: 1}, {ID: 2, Version: 1}, {ID: 99, Version: 1}}
	sink := memory.New()
	w := NewExportWorker(store, sink, 10)

	if err := w.ProcessPendingEntries(context.Background()); err != nil {
		t.Fatalf("ProcessPendingEntries() error = %v", err)
	}

	if len(sink.Rows()) != 2 {
		t.Errorf("appended %d rows, want 2", len(sink.Rows()))
	}
	if !store.failed[99] {
		t.Error("missing entry 99 was not marked with export error")
	}
}

func TestStartupCheckEmpty(t *testing.T) {
	store := newFakeStore()
	w := NewExportWorker(store, memory.New(), 10)

	if err := w.StartupCheck(context.Background()); err != nil {
		t.Fatalf("StartupCheck() error = %v", err)
	}
}
