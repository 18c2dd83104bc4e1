package middleware

import (
	"bitwise74/docvault-api/internal/auth"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SessionResolver interface {
	CurrentSession(ctx context.Context, token string) (*auth.Session, error)
}

// NewJWTMiddleware resolves the auth_token cookie into a session and sets
// userID and session. Unverified accounts are rejected unless allowUnverified.
func NewJWTMiddleware(r SessionResolver, allowUnverified bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		tokenStr, err := c.Cookie("auth_token")
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success":   false,
				"error":     "No auth_token cookie",
				"requestID": requestID,
			})
			return
		}

		s, err := r.CurrentSession(c.Request.Context(), tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrSessionExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success":   false,
					"error":     "Authorization token expired. Please log in again",
					"requestID": requestID,
				})
			case errors.Is(err, auth.ErrSessionInvalid):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success":   false,
					"error":     "Authorization token invalid",
					"requestID": requestID,
				})
			default:
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
					"success":   false,
					"error":     "Service temporarily unavailable",
					"requestID": requestID,
				})

				zap.L().Error("Failed to resolve session", zap.Error(err), zap.String("requestID", requestID))
			}
			return
		}

		if !s.EmailVerified && !allowUnverified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":   false,
				"error":     "Please verify your account before using the service",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", s.ID)
		c.Set("session", s)
		c.Next()
	}
}
