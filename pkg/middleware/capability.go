package middleware

import (
	"bitwise74/docvault-api/internal/model"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileResolver interface {
	Get(ctx context.Context, id string) (*model.User, error)
}

// RequireCapability lets the request through only when the caller's role
// grants what allowed asks for. Must run after the JWT middleware.
func RequireCapability(r ProfileResolver, allowed func(model.Capabilities) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)
		userID := c.MustGet("userID").(string)

		u, err := r.Get(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":   false,
				"error":     "Access denied",
				"requestID": requestID,
			})

			zap.L().Debug("Failed to load profile for capability check", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		if !u.IsActive || !allowed(u.Role.Capabilities()) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success":   false,
				"error":     "Access denied",
				"requestID": requestID,
			})
			return
		}

		c.Set("profile", u)
		c.Next()
	}
}

func CanManageUsers(c model.Capabilities) bool {
	return c.CanManageUsers
}
