package root

import (
	"bitwise74/docvault-api/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Validate is only reached when the JWT middleware accepted the cookie
func Validate(c *gin.Context) {
	s := c.MustGet("session").(*auth.Session)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"userID":        s.ID,
		"emailVerified": s.EmailVerified,
		"expiresAt":     s.ExpiresAt,
	})
}
