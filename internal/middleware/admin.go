package middleware

import (
	"net/http"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// RequireAdmin checks that the authenticated user has admin level
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserLevel(c) < jwt.AdminLevel {
			common.AbortWithError(c, http.StatusForbidden, common.ErrAdminRequired.Error(), nil)
			return
		}
		c.Next()
	}
}
