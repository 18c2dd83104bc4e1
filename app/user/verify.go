package user

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/auth"
	"net/http"

	"github.com/gin-gonic/gin"
)

type verifyBody struct {
	UserID string `json:"user_id" form:"user_id"`
	Token  string `json:"token" form:"token"`
}

// UserVerify accepts the token either as query parameters, the way the
// e-mailed link carries it, or in the body
func UserVerify(c *gin.Context, d *internal.Deps) {
	data := verifyBody{
		UserID: c.Query("user_id"),
		Token:  c.Query("token"),
	}

	if data.Token == "" || data.UserID == "" {
		_ = c.ShouldBind(&data)
	}

	if data.Token == "" {
		reply.Fail(c, http.StatusBadRequest, "No verification token provided")
		return
	}

	if data.UserID == "" {
		reply.Fail(c, http.StatusBadRequest, "No user ID provided")
		return
	}

	if err := d.Auth.Verify(c.Request.Context(), data.UserID, data.Token); err != nil {
		reply.AuthError(c, err, "verify account")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"message": "User validated successfully",
	})
}

func UserResendVerification(c *gin.Context, d *internal.Deps) {
	s := c.MustGet("session").(*auth.Session)

	if err := d.Auth.SendVerificationEmail(c.Request.Context(), s); err != nil {
		reply.AuthError(c, err, "send verification email")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"message": "Verification email sent",
	})
}
