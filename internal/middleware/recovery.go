package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns panics into a 500 envelope and logs the stack
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				reqLog := logger.WithRequestID(c.GetString("request_id"))
				reqLog.Error().
					Str("path", c.Request.URL.Path).
					Str("panic", fmt.Sprint(rec)).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				common.AbortWithError(c, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		c.Next()
	}
}
