package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func bodyTooLarge(c *gin.Context) gin.H {
	return gin.H{
		"success":   false,
		"error":     "Request body size exceeds limit",
		"requestID": c.GetString("requestID"),
	}
}

// BodySizeLimiter caps request bodies at maxBytes. Declared lengths are
// rejected up front, chunked bodies fail once the handler reads past the cap
// and reports it with c.Error.
func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, bodyTooLarge(c))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		if c.Writer.Written() {
			return
		}

		var tooLarge *http.MaxBytesError
		for _, err := range c.Errors {
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, bodyTooLarge(c))
				return
			}
		}
	}
}
