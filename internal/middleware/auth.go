package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/trellis/internal/auth"
	apierrors "github.com/zfogg/trellis/internal/errors"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/util"
	"go.uber.org/zap"
)

// ContextUserKey is the gin context key holding the authenticated *models.User
const ContextUserKey = "user"

// AuthMiddleware resolves the bearer token to a user. Requests without a
// valid token, or whose token names a deleted user, are rejected with 401.
func AuthMiddleware(validator auth.TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			util.RespondUnauthorized(c, "no token provided")
			return
		}

		user, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrUserNotFound) {
				util.RespondUnauthorized(c, "invalid token")
				return
			}
			logger.Log.Error("Token validation failed", zap.Error(err))
			util.RespondWithAPIError(c, apierrors.Infrastructure("failed to validate token", err))
			return
		}

		c.Set(util.ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
