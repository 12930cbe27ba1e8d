package tabular

import (
	"context"
	"sync"

	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

// MemoryStore is an in-process Store used in development mode and tests.
// Sheets spring into existence empty on first access.
type MemoryStore struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sheets: make(map[string][][]string)}
}

// Seed replaces the full contents of a sheet. Test and dev bootstrap helper.
func (s *MemoryStore) Seed(sheetID string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	s.sheets[sheetID] = copied
}

// ReadAllRows returns a copy of every row of the sheet.
func (s *MemoryStore) ReadAllRows(ctx context.Context, sheetID string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sheets[sheetID]
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// ReadCell returns the cell at (row, col) or "" when absent.
func (s *MemoryStore) ReadCell(ctx context.Context, sheetID string, row, col int) (string, error) {
	if row < 1 || col < 1 {
		return "", appErrors.Clone(appErrors.ErrStoreUnavailable, "cell indices are 1-based")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.sheets[sheetID]
	if row > len(rows) || col > len(rows[row-1]) {
		return "", nil
	}
	return rows[row-1][col-1], nil
}

// WriteCell overwrites one cell, growing the row when it is shorter.
func (s *MemoryStore) WriteCell(ctx context.Context, sheetID string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "cell indices are 1-based")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[sheetID]
	for len(rows) < row {
		rows = append(rows, []string{})
	}
	target := rows[row-1]
	for len(target) < col {
		target = append(target, "")
	}
	target[col-1] = value
	rows[row-1] = target
	s.sheets[sheetID] = rows
	return nil
}

// WriteRow overwrites the full cell range of an existing row.
func (s *MemoryStore) WriteRow(ctx context.Context, sheetID string, row int, values []string) error {
	if row < 1 {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "row indices are 1-based")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[sheetID]
	if row > len(rows) {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "row does not exist")
	}
	rows[row-1] = append([]string(nil), values...)
	s.sheets[sheetID] = rows
	return nil
}

// AppendRow adds a row after the current last physical row.
func (s *MemoryStore) AppendRow(ctx context.Context, sheetID string, values []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheetID] = append(s.sheets[sheetID], append([]string(nil), values...))
	return nil
}

// DeleteRow removes a physical row; later rows shift up by one.
func (s *MemoryStore) DeleteRow(ctx context.Context, sheetID string, row int) error {
	if row < 1 {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "row indices are 1-based")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.sheets[sheetID]
	if row > len(rows) {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "row does not exist")
	}
	s.sheets[sheetID] = append(rows[:row-1], rows[row:]...)
	return nil
}
