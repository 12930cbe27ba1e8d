package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maeumlog/diary-api/internal/dto"
	"github.com/maeumlog/diary-api/internal/middleware"
	"github.com/maeumlog/diary-api/internal/service"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	auth  *service.AuthService
	diary *service.DiaryManager
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(auth *service.AuthService, diary *service.DiaryManager) *AuthHandler {
	return &AuthHandler{auth: auth, diary: diary}
}

// Login authenticates a student and opens a diary session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	_, res, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout discards the student's diary session and its cache.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentStudent(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	h.diary.Evict(claims.StudentName)
	response.NoContent(c)
}
