package user

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/auth"
	"bitwise74/docvault-api/pkg/validators"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type forgotBody struct {
	Email string `json:"email"`
}

type changeBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type resetBody struct {
	UserID   string `json:"user_id"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// UserForgotPassword answers the same way whether or not the address is registered
func UserForgotPassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data forgotBody
	if err := c.ShouldBind(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		reply.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := d.Auth.RequestPasswordReset(c.Request.Context(), data.Email); err != nil {
		zap.L().Error("Failed to send password reset email", zap.Error(err), zap.String("requestID", requestID))
	}

	reply.OK(c, http.StatusOK, gin.H{
		"message": "If the address is registered a reset link is on its way",
	})
}

func UserResetPassword(c *gin.Context, d *internal.Deps) {
	var data resetBody
	if err := c.ShouldBind(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if data.UserID == "" || data.Token == "" {
		reply.Fail(c, http.StatusBadRequest, "No reset token provided")
		return
	}

	if res := validators.ValidatePassword(data.Password); !res.IsValid {
		reply.Fail(c, http.StatusBadRequest, res.Err().Error())
		return
	}

	if err := d.Auth.ResetPassword(c.Request.Context(), data.UserID, data.Token, data.Password); err != nil {
		reply.AuthError(c, err, "reset password")
		return
	}

	clearSessionCookies(c, d)

	reply.OK(c, http.StatusOK, gin.H{
		"message": "Password changed, please log in again",
	})
}

// UserChangePassword swaps the password of the signed in user. Other devices
// are signed out, this one gets a fresh session.
func UserChangePassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	s := c.MustGet("session").(*auth.Session)

	var data changeBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.CurrentPassword == "" {
		reply.Fail(c, http.StatusBadRequest, "Current password is required")
		return
	}

	if res := validators.ValidatePassword(data.NewPassword); !res.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     res.Err().Error(),
			"errors":    res.Errors,
			"requestID": requestID,
		})
		return
	}

	fresh, token, err := d.Auth.ChangePassword(c.Request.Context(), s, data.CurrentPassword, data.NewPassword)
	if err != nil {
		reply.AuthError(c, err, "change password")
		return
	}

	setSessionCookies(c, d, fresh, token)

	reply.OK(c, http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}
