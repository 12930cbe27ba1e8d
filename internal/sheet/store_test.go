package sheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/tabular"
)

// countingStore counts mutating calls so tests can assert write-idempotence.
type countingStore struct {
	tabular.Store
	writes int
}

func (c *countingStore) WriteCell(ctx context.Context, sheetID string, row, col int, value string) error {
	c.writes++
	return c.Store.WriteCell(ctx, sheetID, row, col, value)
}

func (c *countingStore) WriteRow(ctx context.Context, sheetID string, row int, values []string) error {
	c.writes++
	return c.Store.WriteRow(ctx, sheetID, row, values)
}

func (c *countingStore) AppendRow(ctx context.Context, sheetID string, values []string) error {
	c.writes++
	return c.Store.AppendRow(ctx, sheetID, values)
}

func (c *countingStore) DeleteRow(ctx context.Context, sheetID string, row int) error {
	c.writes++
	return c.Store.DeleteRow(ctx, sheetID, row)
}

// readOnlyStore accepts reads but rejects every write, for repair-failure paths.
type readOnlyStore struct {
	tabular.Store
}

func (r *readOnlyStore) WriteCell(ctx context.Context, sheetID string, row, col int, value string) error {
	return appErrors.Clone(appErrors.ErrStoreUnavailable, "write rejected")
}

func (r *readOnlyStore) WriteRow(ctx context.Context, sheetID string, row int, values []string) error {
	return appErrors.Clone(appErrors.ErrStoreUnavailable, "write rejected")
}

func (r *readOnlyStore) AppendRow(ctx context.Context, sheetID string, values []string) error {
	return appErrors.Clone(appErrors.ErrStoreUnavailable, "write rejected")
}

func newTestStore(t *testing.T) (*Store, *countingStore, *tabular.MemoryStore) {
	t.Helper()
	mem := tabular.NewMemoryStore()
	counting := &countingStore{Store: mem}
	return NewStore(counting, "sheet-1", nil), counting, mem
}

func TestEnsureStructureCreatesReservedRows(t *testing.T) {
	store, counting, mem := newTestStore(t)

	require.NoError(t, store.EnsureStructure(context.Background()))
	assert.Equal(t, 2, counting.writes)

	rows, err := mem.ReadAllRows(context.Background(), "sheet-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{models.SettingsLabel, models.DefaultWatermark}, rows[0])
	assert.Equal(t, models.EntryHeader, rows[1])
}

func TestEnsureStructureIsWriteIdempotent(t *testing.T) {
	store, counting, _ := newTestStore(t)

	require.NoError(t, store.EnsureStructure(context.Background()))
	writesAfterCreate := counting.writes

	require.NoError(t, store.EnsureStructure(context.Background()))
	assert.Equal(t, writesAfterCreate, counting.writes, "a correct sheet must trigger zero writes")
}

func TestEnsureStructureRepairsOnlyBrokenCells(t *testing.T) {
	store, counting, mem := newTestStore(t)
	mem.Seed("sheet-1", [][]string{
		{"wrong", "2024-03-01"},
		append([]string(nil), models.EntryHeader...),
	})

	require.NoError(t, store.EnsureStructure(context.Background()))
	assert.Equal(t, 1, counting.writes, "only the label cell should be rewritten")

	rows, _ := mem.ReadAllRows(context.Background(), "sheet-1")
	assert.Equal(t, []string{models.SettingsLabel, "2024-03-01"}, rows[0])
}

func TestEnsureStructureRepairsUnparsableWatermark(t *testing.T) {
	store, _, mem := newTestStore(t)
	mem.Seed("sheet-1", [][]string{
		{models.SettingsLabel, "not-a-date"},
		append([]string(nil), models.EntryHeader...),
	})

	require.NoError(t, store.EnsureStructure(context.Background()))

	rows, _ := mem.ReadAllRows(context.Background(), "sheet-1")
	assert.Equal(t, models.DefaultWatermark, rows[0][1])
}

func TestEnsureStructureRewritesDriftedHeader(t *testing.T) {
	store, counting, mem := newTestStore(t)
	mem.Seed("sheet-1", [][]string{
		{models.SettingsLabel, "2024-03-01"},
		{"date", "emotion"},
	})

	require.NoError(t, store.EnsureStructure(context.Background()))
	assert.Equal(t, 1, counting.writes)

	rows, _ := mem.ReadAllRows(context.Background(), "sheet-1")
	assert.Equal(t, models.EntryHeader, rows[1])
}

func TestEnsureStructureRepairFailureIsTyped(t *testing.T) {
	mem := tabular.NewMemoryStore()
	store := NewStore(&readOnlyStore{Store: mem}, "sheet-1", nil)

	err := store.EnsureStructure(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStructureRepair.Code, appErrors.FromError(err).Code)
}

func TestUpsertFirstEntry(t *testing.T) {
	store, _, _ := newTestStore(t)

	outcome, err := store.UpsertEntry(context.Background(), models.DiaryEntry{
		Date:      "2024-01-10",
		Emotion:   "😀 긍정 - 기쁨",
		Gratitude: "sunny day",
		Message:   "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCreated, outcome)

	entries, warns, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warns)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DiaryEntry{
		Date:        "2024-01-10",
		Emotion:     "😀 긍정 - 기쁨",
		Gratitude:   "sunny day",
		Message:     "hi",
		TeacherNote: "",
	}, entries[0])
}

func TestUpsertSameDateUpdatesInPlace(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertEntry(ctx, models.DiaryEntry{Date: "2024-01-10", Emotion: "😀 긍정 - 기쁨", Gratitude: "sunny day", Message: "hi"})
	require.NoError(t, err)

	outcome, err := store.UpsertEntry(ctx, models.DiaryEntry{Date: "2024-01-10", Emotion: "😢 부정 - 슬픔", Gratitude: "nothing", Message: "bye"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, outcome)

	entries, _, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1, "at most one entry per date")
	assert.Equal(t, "😢 부정 - 슬픔", entries[0].Emotion)
	assert.Equal(t, "", entries[0].TeacherNote)
}

func TestUpsertPreservesTeacherNote(t *testing.T) {
	store, _, mem := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertEntry(ctx, models.DiaryEntry{Date: "2024-01-10", Emotion: "😀 긍정 - 기쁨"})
	require.NoError(t, err)

	// Teacher writes a note out of band.
	require.NoError(t, mem.WriteCell(ctx, "sheet-1", models.FirstEntryRow, 5, "참 잘했어요"))

	_, err = store.UpsertEntry(ctx, models.DiaryEntry{Date: "2024-01-10", Emotion: "😐 보통 - 지루함", Message: "edited"})
	require.NoError(t, err)

	entries, _, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "참 잘했어요", entries[0].TeacherNote, "a student-side update must never drop the teacher's note")
}

func TestDeleteThenRecreateDropsNote(t *testing.T) {
	store, _, mem := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertEntry(ctx, models.DiaryEntry{Date: "2024-01-10", Emotion: "A"})
	require.NoError(t, err)
	require.NoError(t, mem.WriteCell(ctx, "sheet-1", models.FirstEntryRow, 5, "note"))

	require.NoError(t, store.DeleteEntry(ctx, "2024-01-10"))

	_, err = store.UpsertEntry(ctx, models.DiaryEntry{Date: "2024-01-10", Emotion: "B"})
	require.NoError(t, err)

	entries, _, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].Emotion)
	assert.Equal(t, "", entries[0].TeacherNote, "the deleted row's note is gone, not recoverable")
}

func TestDeleteShiftsLaterRows(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		_, err := store.UpsertEntry(ctx, models.DiaryEntry{Date: date, Emotion: "e"})
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteEntry(ctx, "2024-01-02"))
	require.NoError(t, store.DeleteEntry(ctx, "2024-01-03"), "row numbers must be recomputed after a delete")

	entries, _, err := store.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-01-01", entries[0].Date)
}

func TestDeleteMissingDateIsNotFound(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.DeleteEntry(context.Background(), "2024-05-05")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListEntriesSkipsMalformedDates(t *testing.T) {
	store, _, mem := newTestStore(t)
	mem.Seed("sheet-1", [][]string{
		{models.SettingsLabel, models.DefaultWatermark},
		append([]string(nil), models.EntryHeader...),
		{"2024-01-05", "e", "g", "m", ""},
		{"not-a-date", "e", "g", "m", "orphan note"},
		{"2024-01-07", "e", "g", "m", ""},
	})

	entries, warns, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, warns, 1)
	assert.Equal(t, appErrors.ErrMalformedRow.Code, warns[0].Code)
	require.Len(t, entries, 2)
	assert.Equal(t, "2024-01-05", entries[0].Date)
	assert.Equal(t, "2024-01-07", entries[1].Date)
}

func TestListEntriesPadsShortRows(t *testing.T) {
	store, _, mem := newTestStore(t)
	mem.Seed("sheet-1", [][]string{
		{models.SettingsLabel, models.DefaultWatermark},
		append([]string(nil), models.EntryHeader...),
		{"2024-01-05", "e"},
	})

	entries, _, err := store.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DiaryEntry{Date: "2024-01-05", Emotion: "e"}, entries[0])
}

func TestWatermarkDefaultsWhenUnparsable(t *testing.T) {
	store, _, mem := newTestStore(t)
	require.NoError(t, store.EnsureStructure(context.Background()))
	require.NoError(t, mem.WriteCell(context.Background(), "sheet-1", 1, 2, "garbage"))

	// Watermark re-runs the structure check, which repairs the cell first.
	mark, err := store.Watermark(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultWatermark, mark)
}

func TestSetWatermarkRejectsBackwardMove(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWatermark(ctx, "2024-02-01"))

	err := store.SetWatermark(ctx, "2024-01-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	mark, err := store.Watermark(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", mark)
}

func TestSetWatermarkRejectsNonDate(t *testing.T) {
	store, _, _ := newTestStore(t)

	err := store.SetWatermark(context.Background(), "tomorrow")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpsertRejectsNonDate(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.UpsertEntry(context.Background(), models.DiaryEntry{Date: "someday", Emotion: "e"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
