// Package middleware contains any custom middleware used in the app
package middleware

import (
	"bitwise74/docvault-api/pkg/util"
	"regexp"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// Ids forwarded by a proxy are reused only when they are short and printable
var forwardedIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// NewRequestIDMiddleware tags every request with an id that handlers echo in
// error replies and the access log records. An id set by a fronting proxy is
// kept so both logs line up.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !forwardedIDRegex.MatchString(id) {
			id = util.RandStr(10)
		}

		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
