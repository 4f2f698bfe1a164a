// Package worker drives the spreadsheet export pipeline: AMQP messages
// for freshly written ledger entries, plus a periodic pending scan that
// catches anything a lost message left behind.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ledgerboard/internal/amqp"
	"ledgerboard/internal/core"
	"ledgerboard/internal/export"
	"ledgerboard/internal/storage"
)

// EntryStore is the slice of the repository the worker needs.
type EntryStore interface {
	GetEntry(ctx context.Context, id int64) (core.EntryRow, error)
	GetPendingExportEntries(ctx context.Context, limit int) ([]storage.PendingExportEntry, error)
	MarkExported(ctx context.Context, id, version int64) error
	MarkExportError(ctx context.Context, id int64) error
}

// ExportWorker mirrors ledger entries into the export target.
type ExportWorker struct {
	store     EntryStore
	appender  export.EntryAppender
	batchSize int
}

func NewExportWorker(store EntryStore, appender export.EntryAppender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		appender:  appender,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single entry export message from AMQP.
// The message carries only {id, version}; the current row is loaded from
// the database. A message for a superseded version is dropped, the
// message for the current version does the work.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.EntryExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"id", msg.ID,
		"version", msg.Version)

	row, err := w.store.GetEntry(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Entry deleted before export, dropping message", "id", msg.ID)
			return nil
		}
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if row.Version != msg.Version {
		slog.InfoContext(ctx, "Export message superseded by newer entry version",
			"id", msg.ID,
			"message_version", msg.Version,
			"current_version", row.Version)
		return nil
	}

	if err := w.exportEntry(ctx, row); err != nil {
		return fmt.Errorf("export entry: %w", err)
	}

	return nil
}

// ProcessPendingEntries exports entries that never got a message through.
// This is the backstop for lost AMQP messages.
func (w *ExportWorker) ProcessPendingEntries(ctx context.Context) error {
	pending, err := w.store.GetPendingExportEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending export entries", "count", len(pending))

	for _, p := range pending {
		row, err := w.store.GetEntry(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry", "id", p.ID, "error", err)
			if err := w.store.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportEntry(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupCheck exports anything pending at worker startup, with a larger
// batch, to recover from downtime.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingExportEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		row, err := w.store.GetEntry(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry for startup export",
				"id", p.ID, "error", err)
			if err := w.store.MarkExportError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark export error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.exportEntry(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to export entry during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportEntry(ctx context.Context, row core.EntryRow) error {
	ref, err := w.appender.AppendEntry(ctx, row)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, row.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", row.ID, "error", markErr)
		}
		return fmt.Errorf("append entry: %w", err)
	}

	// The append worked; losing the bookkeeping write only causes a
	// duplicate row later, so don't fail the export for it.
	if err := w.store.MarkExported(ctx, row.ID, row.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", row.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported entry",
		"id", row.ID,
		"version", row.Version,
		"sheets_ref", ref,
		"account", row.AccountCode,
		"period", row.LedgerEntry.Period)

	return nil
}
