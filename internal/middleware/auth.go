package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/buildlore/heritage-backend/internal/common"
	"github.com/buildlore/heritage-backend/internal/domain"
	"github.com/buildlore/heritage-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userID"
	ctxNickname = "nickname"
	ctxLevel    = "level"
)

// JWTAuth rejects requests without a valid bearer token
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AbortWithError(c, http.StatusUnauthorized, "Missing authorization header", nil)
			return
		}

		claims, err := verifyBearer(jwtManager, authHeader)
		if err != nil {
			abortInvalidToken(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth identifies the caller when a token is present and lets
// anonymous requests through. A malformed or expired token is still rejected.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, err := verifyBearer(jwtManager, authHeader)
		if err != nil {
			abortInvalidToken(c, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

var errBadHeader = errors.New("invalid authorization header format")

func verifyBearer(jwtManager *jwt.Manager, header string) (*jwt.Claims, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return nil, errBadHeader
	}
	return jwtManager.VerifyToken(parts[1])
}

func abortInvalidToken(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errBadHeader):
		common.AbortWithError(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
	case errors.Is(err, jwt.ErrExpiredToken):
		common.AbortWithError(c, http.StatusUnauthorized, "Token expired", err)
	default:
		common.AbortWithError(c, http.StatusUnauthorized, "Invalid token", err)
	}
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxNickname, claims.Nickname)
	c.Set(ctxLevel, claims.Level)
}

// GetActor returns the authenticated caller, or nil for anonymous requests
func GetActor(c *gin.Context) *domain.Actor {
	userID := GetUserID(c)
	if userID == "" {
		return nil
	}
	return &domain.Actor{ID: userID, IsAdmin: GetUserLevel(c) >= jwt.AdminLevel}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUserLevel extracts user level from context
func GetUserLevel(c *gin.Context) int {
	return c.GetInt(ctxLevel)
}
