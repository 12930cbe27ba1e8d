// Package tabular defines the storage service contract consumed by the diary
// data layer: ordered rows of string cells addressed by 1-based row and column
// indices, the common convention of spreadsheet-like services.
package tabular

import "context"

// Store is the contract every tabular backend implements. Row 1 and row 2 of a
// diary sheet are reserved; data rows start at row 3. Implementations surface
// transport failures as pkg/errors.ErrStoreUnavailable and never retry.
type Store interface {
	// ReadAllRows returns every physical row of the sheet in order.
	ReadAllRows(ctx context.Context, sheetID string) ([][]string, error)
	// ReadCell returns the cell at (row, col), or "" when the cell is absent.
	ReadCell(ctx context.Context, sheetID string, row, col int) (string, error)
	// WriteCell overwrites a single cell, growing the row if needed.
	WriteCell(ctx context.Context, sheetID string, row, col int, value string) error
	// WriteRow overwrites the full cell range of an existing row.
	WriteRow(ctx context.Context, sheetID string, row int, values []string) error
	// AppendRow adds a row after the current last physical row.
	AppendRow(ctx context.Context, sheetID string, values []string) error
	// DeleteRow removes a physical row, shifting subsequent rows up by one.
	DeleteRow(ctx context.Context, sheetID string, row int) error
}
