package services

import (
	"context"
	"fmt"
	"log/slog"

	"ledgerboard/internal/core"
)

// EntryRepository is the slice of storage the ledger service writes to.
type EntryRepository interface {
	CreateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error)
	UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error)
	DeleteEntry(ctx context.Context, id int64) error
	Close() error
}

// ExportPublisher queues entries for spreadsheet export.
type ExportPublisher interface {
	PublishEntryExport(ctx context.Context, id, version int64) error
	Close() error
}

// LedgerService orchestrates ledger writes across SQLite and AMQP: the
// database write is authoritative, the export message is best effort
// (the worker's pending scan catches lost messages).
type LedgerService struct {
	storage   EntryRepository
	publisher ExportPublisher
}

func NewLedgerService(storage EntryRepository, publisher ExportPublisher) *LedgerService {
	return &LedgerService{
		storage:   storage,
		publisher: publisher,
	}
}

// CreateEntry saves a new budget-vs-actual line and queues it for export.
func (s *LedgerService) CreateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error) {
	if err := e.Validate(); err != nil {
		return core.EntryRow{}, err
	}

	row, err := s.storage.CreateEntry(ctx, e)
	if err != nil {
		return core.EntryRow{}, fmt.Errorf("save ledger entry: %w", err)
	}

	if err := s.publishExportMessage(ctx, row.ID, row.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", row.ID, "error", err)
		// Entry is saved locally; don't fail the request.
	}

	return row, nil
}

// UpdateEntry rewrites an existing line and queues the new version.
func (s *LedgerService) UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error) {
	if err := e.Validate(); err != nil {
		return core.EntryRow{}, err
	}

	row, err := s.storage.UpdateEntry(ctx, e)
	if err != nil {
		return core.EntryRow{}, fmt.Errorf("update ledger entry: %w", err)
	}

	if err := s.publishExportMessage(ctx, row.ID, row.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"id", row.ID, "error", err)
	}

	return row, nil
}

// DeleteEntry removes a line. Deletions are not mirrored to the export
// target; the spreadsheet is an append-only journal.
func (s *LedgerService) DeleteEntry(ctx context.Context, id int64) error {
	if err := s.storage.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete ledger entry: %w", err)
	}
	return nil
}

func (s *LedgerService) publishExportMessage(ctx context.Context, id, version int64) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Export publisher not available, skipping message")
		return nil
	}
	return s.publisher.PublishEntryExport(ctx, id, version)
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}

	return nil
}
