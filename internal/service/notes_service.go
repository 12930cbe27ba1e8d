package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maeumlog/diary-api/internal/models"
	"github.com/maeumlog/diary-api/internal/sheet"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

// NotesService surfaces teacher notes newer than the sheet's last-acknowledged
// date and advances that watermark to cover what it just surfaced.
type NotesService struct {
	logger *zap.Logger
}

// NewNotesService constructs a NotesService.
func NewNotesService(logger *zap.Logger) *NotesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotesService{logger: logger}
}

// CheckNewNotes returns every entry carrying a non-empty teacher note dated
// strictly after the watermark, ascending by date. When any notes qualify the
// watermark advances to the latest surfaced date; when none do it stays put,
// so a note arriving later the same day is still caught next time. Safe to
// call repeatedly: a second call with nothing new returns an empty result.
func (s *NotesService) CheckNewNotes(ctx context.Context, store *sheet.Store) ([]models.TeacherNote, []*appErrors.Error, error) {
	watermarkRaw, err := store.Watermark(ctx)
	if err != nil {
		return nil, nil, err
	}
	watermark, err := models.ParseDate(watermarkRaw)
	if err != nil {
		// Watermark() already defaults unparsable values, so this only
		// guards against the default itself being corrupted.
		watermark, _ = models.ParseDate(models.DefaultWatermark)
	}

	entries, warns, err := store.ListEntries(ctx)
	if err != nil {
		return nil, warns, err
	}

	type dated struct {
		note models.TeacherNote
		day  time.Time
	}
	var fresh []dated
	for _, entry := range entries {
		note := strings.TrimSpace(entry.TeacherNote)
		if note == "" {
			continue
		}
		day, err := models.ParseDate(entry.Date)
		if err != nil {
			continue
		}
		// Strictly after: a note dated exactly on the watermark has
		// already been seen and is never re-surfaced.
		if !day.After(watermark) {
			continue
		}
		fresh = append(fresh, dated{note: models.TeacherNote{Date: entry.Date, Note: note}, day: day})
	}

	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].day.Before(fresh[j].day) })

	notes := make([]models.TeacherNote, 0, len(fresh))
	for _, d := range fresh {
		notes = append(notes, d.note)
	}

	if len(notes) > 0 {
		latest := notes[len(notes)-1].Date
		if err := store.SetWatermark(ctx, latest); err != nil {
			return nil, warns, err
		}
		s.logger.Info("surfaced teacher notes",
			zap.String("sheet_id", store.SheetID()),
			zap.Int("count", len(notes)),
			zap.String("watermark", latest))
	}

	return notes, warns, nil
}
