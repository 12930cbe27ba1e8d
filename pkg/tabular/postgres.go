package tabular

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

// PostgresStore persists sheets in a single table:
//
//	CREATE TABLE sheet_rows (
//	    sheet_id  TEXT NOT NULL,
//	    row_index INT  NOT NULL,
//	    cells     TEXT[] NOT NULL,
//	    PRIMARY KEY (sheet_id, row_index)
//	);
//
// row_index is 1-based and kept dense: DeleteRow shifts subsequent indices
// down inside a transaction, matching spreadsheet row-deletion semantics.
// The shift runs in two phases (park on negative indices, then flip back)
// because the primary key is checked per row and a direct decrement can
// transiently collide with a not-yet-updated neighbour.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an sqlx connection as a tabular Store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ReadAllRows returns every row of the sheet ordered by row_index.
func (s *PostgresStore) ReadAllRows(ctx context.Context, sheetID string) ([][]string, error) {
	var raw []pq.StringArray
	err := s.db.SelectContext(ctx, &raw,
		"SELECT cells FROM sheet_rows WHERE sheet_id = $1 ORDER BY row_index", sheetID)
	if err != nil {
		return nil, storeErr(err, "read sheet rows")
	}

	rows := make([][]string, len(raw))
	for i, cells := range raw {
		rows[i] = []string(cells)
	}
	return rows, nil
}

// ReadCell returns one cell, or "" when the row or cell does not exist.
func (s *PostgresStore) ReadCell(ctx context.Context, sheetID string, row, col int) (string, error) {
	var cells pq.StringArray
	err := s.db.GetContext(ctx, &cells,
		"SELECT cells FROM sheet_rows WHERE sheet_id = $1 AND row_index = $2", sheetID, row)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", storeErr(err, "read cell")
	}
	if col < 1 || col > len(cells) {
		return "", nil
	}
	return cells[col-1], nil
}

// WriteCell overwrites a single cell, padding the row when it is shorter.
func (s *PostgresStore) WriteCell(ctx context.Context, sheetID string, row, col int, value string) error {
	if row < 1 || col < 1 {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "cell indices are 1-based")
	}

	var cells pq.StringArray
	err := s.db.GetContext(ctx, &cells,
		"SELECT cells FROM sheet_rows WHERE sheet_id = $1 AND row_index = $2", sheetID, row)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return storeErr(err, "read row for cell write")
	}

	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value

	res, err := s.db.ExecContext(ctx,
		"UPDATE sheet_rows SET cells = $3 WHERE sheet_id = $1 AND row_index = $2",
		sheetID, row, cells)
	if err != nil {
		return storeErr(err, "write cell")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		_, err = s.db.ExecContext(ctx,
			"INSERT INTO sheet_rows (sheet_id, row_index, cells) VALUES ($1, $2, $3)",
			sheetID, row, cells)
		if err != nil {
			return storeErr(err, "insert row for cell write")
		}
	}
	return nil
}

// WriteRow overwrites the full cell range of an existing row.
func (s *PostgresStore) WriteRow(ctx context.Context, sheetID string, row int, values []string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE sheet_rows SET cells = $3 WHERE sheet_id = $1 AND row_index = $2",
		sheetID, row, pq.StringArray(values))
	if err != nil {
		return storeErr(err, "write row")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "row does not exist")
	}
	return nil
}

// AppendRow inserts a row after the current last physical row.
func (s *PostgresStore) AppendRow(ctx context.Context, sheetID string, values []string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sheet_rows (sheet_id, row_index, cells) SELECT $1, COALESCE(MAX(row_index), 0) + 1, $2 FROM sheet_rows WHERE sheet_id = $1",
		sheetID, pq.StringArray(values))
	if err != nil {
		return storeErr(err, "append row")
	}
	return nil
}

// DeleteRow removes a row and shifts subsequent row indices down by one.
func (s *PostgresStore) DeleteRow(ctx context.Context, sheetID string, row int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return storeErr(err, "begin delete")
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		"DELETE FROM sheet_rows WHERE sheet_id = $1 AND row_index = $2", sheetID, row)
	if err != nil {
		return storeErr(err, "delete row")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.Clone(appErrors.ErrStoreUnavailable, "row does not exist")
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE sheet_rows SET row_index = -row_index WHERE sheet_id = $1 AND row_index > $2",
		sheetID, row)
	if err != nil {
		return storeErr(err, "park shifted rows")
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE sheet_rows SET row_index = -row_index - 1 WHERE sheet_id = $1 AND row_index < 0",
		sheetID)
	if err != nil {
		return storeErr(err, "shift rows")
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err, "commit delete")
	}
	return nil
}

func storeErr(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, message)
}
