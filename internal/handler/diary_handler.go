package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maeumlog/diary-api/internal/dto"
	"github.com/maeumlog/diary-api/internal/middleware"
	"github.com/maeumlog/diary-api/internal/models"
	"github.com/maeumlog/diary-api/internal/service"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/response"
)

// DiaryHandler exposes the diary facade over HTTP.
type DiaryHandler struct {
	diary  *service.DiaryManager
	export *service.ExportService
}

// NewDiaryHandler creates a new handler.
func NewDiaryHandler(diary *service.DiaryManager, export *service.ExportService) *DiaryHandler {
	return &DiaryHandler{diary: diary, export: export}
}

func (h *DiaryHandler) session(c *gin.Context) *service.DiaryService {
	claims := middleware.CurrentStudent(c)
	if claims == nil {
		return nil
	}
	return h.diary.ForStudent(claims.StudentName, claims.SheetID)
}

// ListEntries returns the student's diary, from cache unless ?refresh=true.
func (h *DiaryHandler) ListEntries(c *gin.Context) {
	svc := h.session(c)
	if svc == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	forceRefresh := c.Query("refresh") == "true"
	entries, warns, err := svc.LoadEntries(c.Request.Context(), forceRefresh)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.EntriesResponse{Entries: entries}, warns)
}

// SubmitEntry upserts the entry for a date.
func (h *DiaryHandler) SubmitEntry(c *gin.Context) {
	svc := h.session(c)
	if svc == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid diary payload"))
		return
	}

	res, err := svc.SubmitEntry(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if res.Outcome == models.OutcomeCreated {
		status = http.StatusCreated
	}
	response.JSON(c, status, res, nil)
}

// DeleteEntry removes the entry for the date path parameter.
func (h *DiaryHandler) DeleteEntry(c *gin.Context) {
	svc := h.session(c)
	if svc == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := svc.DeleteEntry(c.Request.Context(), c.Param("date")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CheckNotes surfaces new teacher notes and advances the watermark.
func (h *DiaryHandler) CheckNotes(c *gin.Context) {
	svc := h.session(c)
	if svc == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	notes, warns, err := svc.CheckNotes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, dto.NotesResponse{Notes: notes}, warns)
}

// Emotions returns the selectable emotion catalog for the writing wizard.
func (h *DiaryHandler) Emotions(c *gin.Context) {
	response.JSON(c, http.StatusOK, models.EmotionCatalog, nil)
}

// Export streams the diary as CSV or PDF (?format=csv|pdf, default csv).
func (h *DiaryHandler) Export(c *gin.Context) {
	claims := middleware.CurrentStudent(c)
	svc := h.session(c)
	if claims == nil || svc == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", service.FormatCSV)

	entries, _, err := svc.LoadEntries(c.Request.Context(), true)
	if err != nil {
		response.Error(c, err)
		return
	}

	doc, err := h.export.Export(c.Request.Context(), claims.StudentName, format, entries)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	c.Data(http.StatusOK, doc.ContentType, doc.Bytes)
}
