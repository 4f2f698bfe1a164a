package memory

import (
	"context"
	"fmt"
	"sync"

	"ledgerboard/internal/core"
	ports "ledgerboard/internal/export"
)

// Store is the in-memory export target used in development and tests.
type Store struct {
	mu   sync.Mutex
	rows []core.EntryRow
}

var _ ports.EntryAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendEntry stores the row and returns a synthetic row reference.
func (s *Store) AppendEntry(_ context.Context, row core.EntryRow) (string, error) {
	if err := row.LedgerEntry.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.EntryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.EntryRow(nil), s.rows...)
}
