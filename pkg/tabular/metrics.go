package tabular

import (
	"context"
	"time"
)

// OpObserver receives timing for every store operation. Implemented by the
// metrics service; kept as a local interface so this package stays free of
// Prometheus types.
type OpObserver interface {
	ObserveStoreOp(op string, err error, duration time.Duration)
}

// WithMetrics decorates a Store so every operation is observed.
func WithMetrics(store Store, observer OpObserver) Store {
	if observer == nil {
		return store
	}
	return &instrumentedStore{next: store, observer: observer}
}

type instrumentedStore struct {
	next     Store
	observer OpObserver
}

func (s *instrumentedStore) ReadAllRows(ctx context.Context, sheetID string) ([][]string, error) {
	start := time.Now()
	rows, err := s.next.ReadAllRows(ctx, sheetID)
	s.observer.ObserveStoreOp("read_all_rows", err, time.Since(start))
	return rows, err
}

func (s *instrumentedStore) ReadCell(ctx context.Context, sheetID string, row, col int) (string, error) {
	start := time.Now()
	value, err := s.next.ReadCell(ctx, sheetID, row, col)
	s.observer.ObserveStoreOp("read_cell", err, time.Since(start))
	return value, err
}

func (s *instrumentedStore) WriteCell(ctx context.Context, sheetID string, row, col int, value string) error {
	start := time.Now()
	err := s.next.WriteCell(ctx, sheetID, row, col, value)
	s.observer.ObserveStoreOp("write_cell", err, time.Since(start))
	return err
}

func (s *instrumentedStore) WriteRow(ctx context.Context, sheetID string, row int, values []string) error {
	start := time.Now()
	err := s.next.WriteRow(ctx, sheetID, row, values)
	s.observer.ObserveStoreOp("write_row", err, time.Since(start))
	return err
}

func (s *instrumentedStore) AppendRow(ctx context.Context, sheetID string, values []string) error {
	start := time.Now()
	err := s.next.AppendRow(ctx, sheetID, values)
	s.observer.ObserveStoreOp("append_row", err, time.Since(start))
	return err
}

func (s *instrumentedStore) DeleteRow(ctx context.Context, sheetID string, row int) error {
	start := time.Now()
	err := s.next.DeleteRow(ctx, sheetID, row)
	s.observer.ObserveStoreOp("delete_row", err, time.Since(start))
	return err
}
