package user

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// Without it the session ends when the browser closes
	RememberMe bool `json:"rememberMe"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Email == "" {
		reply.Fail(c, http.StatusBadRequest, "Email field can't be empty")
		return
	}

	if data.Password == "" {
		reply.Fail(c, http.StatusBadRequest, "Password field can't be empty")
		return
	}

	s, token, err := d.Auth.SignIn(c.Request.Context(), data.Email, data.Password, data.RememberMe)
	if err != nil {
		reply.AuthError(c, err, "sign in")
		return
	}

	setSessionCookies(c, d, s, token)

	reply.OK(c, http.StatusOK, gin.H{
		"userID":     s.ID,
		"verified":   s.EmailVerified,
		"persistent": s.Persistent,
	})
}

func UserLogout(c *gin.Context, d *internal.Deps) {
	s := c.MustGet("session").(*auth.Session)

	if err := d.Auth.SignOut(c.Request.Context(), s); err != nil {
		reply.AuthError(c, err, "sign out")
		return
	}

	clearSessionCookies(c, d)

	reply.OK(c, http.StatusOK, nil)
}
