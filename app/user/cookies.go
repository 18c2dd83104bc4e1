package user

import (
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/auth"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// setSessionCookies writes the session. Non persistent sessions get cookies
// without Max-Age so they end with the browser.
func setSessionCookies(c *gin.Context, d *internal.Deps, s *auth.Session, token string) {
	maxAge := 0
	if s.Persistent {
		maxAge = int(time.Until(s.ExpiresAt).Seconds())
		if maxAge <= 0 {
			maxAge = 60 * 60 * 24 * 30
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("user_id", s.ID, maxAge, "/", "", d.SecureCookies, false)
	c.SetCookie("auth_token", token, maxAge, "/", "", d.SecureCookies, true)
	c.SetCookie("logged_in", "1", maxAge, "/", "", d.SecureCookies, false)
}

func clearSessionCookies(c *gin.Context, d *internal.Deps) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("user_id", "", -1, "/", "", d.SecureCookies, false)
	c.SetCookie("auth_token", "", -1, "/", "", d.SecureCookies, true)
	c.SetCookie("logged_in", "", -1, "/", "", d.SecureCookies, false)
}
