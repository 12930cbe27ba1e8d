package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maeumlog/diary-api/internal/dto"
	"github.com/maeumlog/diary-api/internal/models"
	"github.com/maeumlog/diary-api/internal/sheet"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/tabular"
)

// DiaryService is the facade one logged-in student drives: it owns a single
// sheet store plus a session-scoped cache of the entry list. The cache lives
// until the next successful mutation, so a caller that just wrote always
// reads its own write.
type DiaryService struct {
	store     *sheet.Store
	notes     *NotesService
	validator *validator.Validate
	logger    *zap.Logger

	mu      sync.Mutex
	cached  []models.DiaryEntry
	isFresh bool
}

// NewDiaryService builds a facade around one student's sheet.
func NewDiaryService(store *sheet.Store, notes *NotesService, validate *validator.Validate, logger *zap.Logger) *DiaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DiaryService{store: store, notes: notes, validator: validate, logger: logger}
}

// LoadEntries returns the student's diary, served from the session cache
// unless forceRefresh is set or no cache exists yet.
func (s *DiaryService) LoadEntries(ctx context.Context, forceRefresh bool) ([]models.DiaryEntry, []*appErrors.Error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isFresh && !forceRefresh {
		return append([]models.DiaryEntry(nil), s.cached...), nil, nil
	}

	entries, warns, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, warns, err
	}

	s.cached = entries
	s.isFresh = true
	return append([]models.DiaryEntry(nil), entries...), warns, nil
}

// SubmitEntry upserts the entry for the request's date (today when omitted)
// and invalidates the cache so the next read reflects the write.
func (s *DiaryService) SubmitEntry(ctx context.Context, req dto.SubmitEntryRequest) (*dto.SubmitEntryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid diary payload")
	}

	date := strings.TrimSpace(req.Date)
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	entry := models.DiaryEntry{
		Date:      date,
		Emotion:   req.Emotion,
		Gratitude: req.Gratitude,
		Message:   req.Message,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.store.UpsertEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.isFresh = false

	s.logger.Info("diary entry submitted",
		zap.String("sheet_id", s.store.SheetID()),
		zap.String("date", date),
		zap.String("outcome", string(outcome)))

	return &dto.SubmitEntryResponse{Outcome: outcome, Entry: entry}, nil
}

// DeleteEntry removes the entry for a date and invalidates the cache. A date
// with no entry reports NotFound; the caller decides how to present that.
func (s *DiaryService) DeleteEntry(ctx context.Context, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteEntry(ctx, date); err != nil {
		return err
	}
	s.isFresh = false

	s.logger.Info("diary entry deleted",
		zap.String("sheet_id", s.store.SheetID()),
		zap.String("date", date))
	return nil
}

// CheckNotes surfaces new teacher notes. Notes may arrive out of band at any
// time, so this path never trusts the session cache: the tracker re-reads the
// sheet, and the entry cache is dropped so stale teacher notes are not served
// by a later LoadEntries.
func (s *DiaryService) CheckNotes(ctx context.Context) ([]models.TeacherNote, []*appErrors.Error, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, warns, err := s.notes.CheckNewNotes(ctx, s.store)
	if err != nil {
		return nil, warns, err
	}
	s.isFresh = false
	return notes, warns, nil
}

// DiaryManager hands out one DiaryService per login session, arena-style:
// created on first use after login, discarded at logout. Never a process-wide
// singleton cache.
type DiaryManager struct {
	tab       tabular.Store
	notes     *NotesService
	validator *validator.Validate
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*DiaryService
}

// NewDiaryManager constructs the per-session facade registry.
func NewDiaryManager(tab tabular.Store, notes *NotesService, validate *validator.Validate, logger *zap.Logger) *DiaryManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &DiaryManager{
		tab:       tab,
		notes:     notes,
		validator: validate,
		logger:    logger,
		sessions:  make(map[string]*DiaryService),
	}
}

// ForStudent returns the facade of the student's current session, creating it
// on first use.
func (m *DiaryManager) ForStudent(name, sheetID string) *DiaryService {
	m.mu.Lock()
	defer m.mu.Unlock()

	if svc, ok := m.sessions[name]; ok {
		return svc
	}

	store := sheet.NewStore(m.tab, sheetID, m.logger)
	svc := NewDiaryService(store, m.notes, m.validator, m.logger)
	m.sessions[name] = svc
	return svc
}

// Evict discards the student's session facade, dropping its cache with it.
func (m *DiaryManager) Evict(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, name)
}
