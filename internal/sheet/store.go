// Package sheet owns the physical layout of one student's diary sheet: a
// settings row, a header row, then one entry row per calendar date. All
// date-to-row associations are recomputed on every access because deletions
// shift later rows up.
package sheet

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/tabular"
)

// Store translates between the logical entry list and the physical rows of a
// single diary sheet, self-healing the two reserved rows before any access.
type Store struct {
	tab     tabular.Store
	sheetID string
	logger  *zap.Logger
}

// NewStore binds a tabular backend to one student's sheet.
func NewStore(tab tabular.Store, sheetID string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{tab: tab, sheetID: sheetID, logger: logger}
}

// SheetID returns the handle of the underlying sheet.
func (s *Store) SheetID() string {
	return s.sheetID
}

// EnsureStructure verifies rows 1-2 and repairs them cell by cell. An empty
// sheet gets the settings row then the header row appended. Idempotent: a
// correct sheet triggers zero writes.
func (s *Store) EnsureStructure(ctx context.Context) error {
	rows, err := s.tab.ReadAllRows(ctx, s.sheetID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		if err := s.tab.AppendRow(ctx, s.sheetID, []string{models.SettingsLabel, models.DefaultWatermark}); err != nil {
			return repairErr(err, "create settings row")
		}
		if err := s.tab.AppendRow(ctx, s.sheetID, models.EntryHeader); err != nil {
			return repairErr(err, "create header row")
		}
		return nil
	}

	settings := rows[0]
	if cellAt(settings, 1) != models.SettingsLabel {
		if err := s.tab.WriteCell(ctx, s.sheetID, models.SettingsRowIndex, 1, models.SettingsLabel); err != nil {
			return repairErr(err, "repair settings label")
		}
	}
	if _, err := models.ParseDate(strings.TrimSpace(cellAt(settings, 2))); err != nil {
		if err := s.tab.WriteCell(ctx, s.sheetID, models.SettingsRowIndex, 2, models.DefaultWatermark); err != nil {
			return repairErr(err, "repair watermark cell")
		}
	}

	if len(rows) < models.HeaderRowIndex {
		if err := s.tab.AppendRow(ctx, s.sheetID, models.EntryHeader); err != nil {
			return repairErr(err, "create header row")
		}
		return nil
	}
	if !headerMatches(rows[models.HeaderRowIndex-1]) {
		if err := s.tab.WriteRow(ctx, s.sheetID, models.HeaderRowIndex, models.EntryHeader); err != nil {
			return repairErr(err, "rewrite header row")
		}
	}

	return nil
}

// ListEntries returns every well-formed entry in physical row order along
// with one MalformedRow warning per skipped row.
func (s *Store) ListEntries(ctx context.Context) ([]models.DiaryEntry, []*appErrors.Error, error) {
	located, warns, err := s.scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]models.DiaryEntry, 0, len(located))
	for _, l := range located {
		entries = append(entries, l.entry)
	}
	return entries, warns, nil
}

// UpsertEntry writes the entry for its date: in place when the date already
// has a row, appended otherwise. An update that does not explicitly supply a
// teacher note carries the stored note forward so teacher-authored content is
// never dropped by a student-side write.
func (s *Store) UpsertEntry(ctx context.Context, entry models.DiaryEntry) (models.SubmitOutcome, error) {
	if _, err := models.ParseDate(entry.Date); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("entry date %q is not a calendar date", entry.Date))
	}

	located, _, err := s.scan(ctx)
	if err != nil {
		return "", err
	}

	for _, l := range located {
		if l.entry.Date != entry.Date {
			continue
		}
		if entry.TeacherNote == "" {
			entry.TeacherNote = l.entry.TeacherNote
		}
		if err := s.tab.WriteRow(ctx, s.sheetID, l.row, entry.Cells()); err != nil {
			return "", err
		}
		return models.OutcomeUpdated, nil
	}

	if err := s.tab.AppendRow(ctx, s.sheetID, entry.Cells()); err != nil {
		return "", err
	}
	return models.OutcomeCreated, nil
}

// DeleteEntry removes the physical row holding the date. Later rows shift up
// by one, so callers must never cache row numbers across operations.
func (s *Store) DeleteEntry(ctx context.Context, date string) error {
	located, _, err := s.scan(ctx)
	if err != nil {
		return err
	}

	for _, l := range located {
		if l.entry.Date == date {
			return s.tab.DeleteRow(ctx, s.sheetID, l.row)
		}
	}
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no diary entry for %s", date))
}

// Watermark returns the last-acknowledged note date, defaulting when the
// stored value is absent or does not parse as a calendar date.
func (s *Store) Watermark(ctx context.Context) (string, error) {
	if err := s.EnsureStructure(ctx); err != nil {
		return "", err
	}

	raw, err := s.tab.ReadCell(ctx, s.sheetID, models.SettingsRowIndex, 2)
	if err != nil {
		return "", err
	}

	value := strings.TrimSpace(raw)
	if _, err := models.ParseDate(value); err != nil {
		return models.DefaultWatermark, nil
	}
	return value, nil
}

// SetWatermark advances the last-acknowledged note date. The watermark only
// moves forward; an attempt to move it backward is rejected.
func (s *Store) SetWatermark(ctx context.Context, date string) error {
	next, err := models.ParseDate(date)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			fmt.Sprintf("watermark %q is not a calendar date", date))
	}

	current, err := s.Watermark(ctx)
	if err != nil {
		return err
	}
	if cur, err := models.ParseDate(current); err == nil && next.Before(cur) {
		return appErrors.Clone(appErrors.ErrValidation, "watermark cannot move backward")
	}

	return s.tab.WriteCell(ctx, s.sheetID, models.SettingsRowIndex, 2, date)
}

type locatedEntry struct {
	row   int
	entry models.DiaryEntry
}

// scan re-reads the whole sheet and maps data rows to entries, remembering
// each entry's physical row. Rows with unparsable dates are skipped and
// reported as warnings, never as failures.
func (s *Store) scan(ctx context.Context) ([]locatedEntry, []*appErrors.Error, error) {
	if err := s.EnsureStructure(ctx); err != nil {
		return nil, nil, err
	}

	rows, err := s.tab.ReadAllRows(ctx, s.sheetID)
	if err != nil {
		return nil, nil, err
	}

	var located []locatedEntry
	var warns []*appErrors.Error
	for i := models.FirstEntryRow - 1; i < len(rows); i++ {
		physicalRow := i + 1
		entry := models.EntryFromCells(rows[i])
		if _, err := models.ParseDate(entry.Date); err != nil {
			warn := appErrors.Clone(appErrors.ErrMalformedRow,
				fmt.Sprintf("row %d has malformed date %q", physicalRow, entry.Date))
			warns = append(warns, warn)
			s.logger.Warn("skipping malformed diary row",
				zap.String("sheet_id", s.sheetID),
				zap.Int("row", physicalRow),
				zap.String("date", entry.Date))
			continue
		}
		located = append(located, locatedEntry{row: physicalRow, entry: entry})
	}
	return located, warns, nil
}

func cellAt(row []string, col int) string {
	if col > len(row) {
		return ""
	}
	return row[col-1]
}

func headerMatches(row []string) bool {
	if len(row) != len(models.EntryHeader) {
		return false
	}
	for i, want := range models.EntryHeader {
		if row[i] != want {
			return false
		}
	}
	return true
}

func repairErr(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrStructureRepair.Code, appErrors.ErrStructureRepair.Status, message)
}
