package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maeumlog/diary-api/internal/dto"
	"github.com/maeumlog/diary-api/internal/models"
	"github.com/maeumlog/diary-api/internal/sheet"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/tabular"
)

// readCountingStore counts full-sheet reads so tests can observe caching.
type readCountingStore struct {
	tabular.Store
	reads int
}

func (r *readCountingStore) ReadAllRows(ctx context.Context, sheetID string) ([][]string, error) {
	r.reads++
	return r.Store.ReadAllRows(ctx, sheetID)
}

func newDiaryService(t *testing.T) (*DiaryService, *readCountingStore) {
	t.Helper()
	counting := &readCountingStore{Store: tabular.NewMemoryStore()}
	store := sheet.NewStore(counting, "sheet-1", nil)
	return NewDiaryService(store, NewNotesService(nil), nil, nil), counting
}

func TestLoadEntriesServesCacheUntilMutation(t *testing.T) {
	svc, counting := newDiaryService(t)
	ctx := context.Background()

	_, err := svc.SubmitEntry(ctx, dto.SubmitEntryRequest{Date: "2024-01-10", Emotion: "e"})
	require.NoError(t, err)

	_, _, err = svc.LoadEntries(ctx, false)
	require.NoError(t, err)
	readsAfterLoad := counting.reads

	_, _, err = svc.LoadEntries(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, readsAfterLoad, counting.reads, "a cached load must not touch the store")

	_, err = svc.SubmitEntry(ctx, dto.SubmitEntryRequest{Date: "2024-01-11", Emotion: "e"})
	require.NoError(t, err)

	entries, _, err := svc.LoadEntries(ctx, false)
	require.NoError(t, err)
	assert.Greater(t, counting.reads, readsAfterLoad, "a mutation invalidates the cache")
	assert.Len(t, entries, 2)
}

func TestLoadEntriesForceRefreshBypassesCache(t *testing.T) {
	svc, counting := newDiaryService(t)
	ctx := context.Background()

	_, _, err := svc.LoadEntries(ctx, false)
	require.NoError(t, err)
	readsAfterLoad := counting.reads

	_, _, err = svc.LoadEntries(ctx, true)
	require.NoError(t, err)
	assert.Greater(t, counting.reads, readsAfterLoad)
}

func TestSubmitEntryReportsOutcome(t *testing.T) {
	svc, _ := newDiaryService(t)
	ctx := context.Background()

	res, err := svc.SubmitEntry(ctx, dto.SubmitEntryRequest{Date: "2024-01-10", Emotion: "😀 긍정 - 기쁨"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeCreated, res.Outcome)

	res, err = svc.SubmitEntry(ctx, dto.SubmitEntryRequest{Date: "2024-01-10", Emotion: "😢 부정 - 슬픔"})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeUpdated, res.Outcome)
}

func TestSubmitEntryDefaultsToToday(t *testing.T) {
	svc, _ := newDiaryService(t)

	res, err := svc.SubmitEntry(context.Background(), dto.SubmitEntryRequest{Emotion: "e"})
	require.NoError(t, err)
	_, parseErr := models.ParseDate(res.Entry.Date)
	assert.NoError(t, parseErr)
}

func TestSubmitEntryValidatesPayload(t *testing.T) {
	svc, _ := newDiaryService(t)

	_, err := svc.SubmitEntry(context.Background(), dto.SubmitEntryRequest{Date: "2024-01-10"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteEntryNotFoundPassesThrough(t *testing.T) {
	svc, _ := newDiaryService(t)

	err := svc.DeleteEntry(context.Background(), "2024-01-10")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCheckNotesAlwaysReReads(t *testing.T) {
	svc, counting := newDiaryService(t)
	ctx := context.Background()

	_, _, err := svc.LoadEntries(ctx, false)
	require.NoError(t, err)
	readsAfterLoad := counting.reads

	_, _, err = svc.CheckNotes(ctx)
	require.NoError(t, err)
	assert.Greater(t, counting.reads, readsAfterLoad, "teacher notes arrive out of band; never trust the cache here")
}

// TestTwoSessionsLostUpdate demonstrates the accepted two-tabs limitation:
// nothing in this design prevents a second facade for the same sheet from
// clobbering the first facade's write for the same date.
func TestTwoSessionsLostUpdate(t *testing.T) {
	mem := tabular.NewMemoryStore()
	notes := NewNotesService(nil)
	tabA := NewDiaryService(sheet.NewStore(mem, "sheet-1", nil), notes, nil, nil)
	tabB := NewDiaryService(sheet.NewStore(mem, "sheet-1", nil), notes, nil, nil)
	ctx := context.Background()

	_, err := tabA.SubmitEntry(ctx, dto.SubmitEntryRequest{Date: "2024-01-10", Emotion: "from tab A"})
	require.NoError(t, err)
	_, err = tabB.SubmitEntry(ctx, dto.SubmitEntryRequest{Date: "2024-01-10", Emotion: "from tab B"})
	require.NoError(t, err)

	entries, _, err := tabA.LoadEntries(ctx, true)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "from tab B", entries[0].Emotion, "last writer wins; no locking or versioning is attempted")
}

func TestDiaryManagerReusesAndEvictsSessions(t *testing.T) {
	mgr := NewDiaryManager(tabular.NewMemoryStore(), NewNotesService(nil), nil, nil)

	first := mgr.ForStudent("지우", "sheet-1")
	assert.Same(t, first, mgr.ForStudent("지우", "sheet-1"))

	mgr.Evict("지우")
	assert.NotSame(t, first, mgr.ForStudent("지우", "sheet-1"))
}
