package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maeumlog/diary-api/internal/models"
	"github.com/maeumlog/diary-api/internal/service"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
	"github.com/maeumlog/diary-api/pkg/response"
)

// ContextStudentKey is the gin context key storing session claims.
const ContextStudentKey = "currentStudent"

// JWT protects routes by requiring a valid session token.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextStudentKey, claims)
		c.Next()
	}
}

// CurrentStudent returns the session claims stored by JWT, or nil.
func CurrentStudent(c *gin.Context) *models.SessionClaims {
	if v, exists := c.Get(ContextStudentKey); exists {
		if claims, ok := v.(*models.SessionClaims); ok {
			return claims
		}
	}
	return nil
}
