package models

import "time"

// DateLayout is the calendar-day format used everywhere in the diary: ISO
// YYYY-MM-DD strings with no timezone component.
const DateLayout = "2006-01-02"

// Reserved sheet layout. Row 1 holds the settings record, row 2 the header;
// diary entries start at row 3 in physical insertion order.
const (
	SettingsRowIndex = 1
	HeaderRowIndex   = 2
	FirstEntryRow    = 3

	// SettingsLabel is the constant tag in cell A1 of every diary sheet.
	SettingsLabel = "설정"
	// DefaultWatermark is the last-acknowledged date used before any teacher
	// note has ever been surfaced.
	DefaultWatermark = "2000-01-01"
)

// EntryHeader is the exact expected content of the header row. It is not user
// data; ensureStructure rewrites the row whenever it drifts.
var EntryHeader = []string{"date", "emotion", "gratitude", "message", "teacherNote"}

// DiaryEntry is one student's record for one calendar date. Date acts as the
// unique key within a sheet. TeacherNote is written by the teacher out of
// band and must survive student-side updates unchanged.
type DiaryEntry struct {
	Date        string `json:"date"`
	Emotion     string `json:"emotion"`
	Gratitude   string `json:"gratitude"`
	Message     string `json:"message"`
	TeacherNote string `json:"teacherNote"`
}

// Cells returns the entry as a sheet row in header order.
func (e DiaryEntry) Cells() []string {
	return []string{e.Date, e.Emotion, e.Gratitude, e.Message, e.TeacherNote}
}

// EntryFromCells maps a physical row to an entry by fixed column position. A
// short row reads as having empty trailing fields.
func EntryFromCells(cells []string) DiaryEntry {
	padded := make([]string, len(EntryHeader))
	copy(padded, cells)
	return DiaryEntry{
		Date:        padded[0],
		Emotion:     padded[1],
		Gratitude:   padded[2],
		Message:     padded[3],
		TeacherNote: padded[4],
	}
}

// ParseDate parses an ISO calendar date. Comparisons between diary dates must
// go through parsed values, never raw string ordering.
func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, raw)
}

// TeacherNote is one surfaced note with the date of its entry.
type TeacherNote struct {
	Date string `json:"date"`
	Note string `json:"note"`
}

// StudentAccount is a roster row: the student's name, their 6-digit numeric
// password, and the handle of their personal diary sheet. Read-only here.
type StudentAccount struct {
	Name     string `json:"name"`
	Password string `json:"-"`
	SheetID  string `json:"sheetId"`
}

// SubmitOutcome tells the caller whether an upsert created or updated the
// entry. UI feedback only; nothing downstream branches on it.
type SubmitOutcome string

const (
	OutcomeCreated SubmitOutcome = "created"
	OutcomeUpdated SubmitOutcome = "updated"
)
