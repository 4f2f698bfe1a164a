// Package export defines the outbound port for mirroring ledger entries
// to an external spreadsheet, with a Google Sheets adapter and an
// in-memory adapter for development and tests.
package export

import (
	"context"

	"ledgerboard/internal/core"
)

// EntryAppender appends one joined ledger row to the export target and
// returns an opaque reference to where it landed.
type EntryAppender interface {
	AppendEntry(ctx context.Context, row core.EntryRow) (rowRef string, err error)
}
