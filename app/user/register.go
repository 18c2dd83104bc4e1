package user

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/model"
	"bitwise74/docvault-api/internal/service"
	"bitwise74/docvault-api/pkg/validators"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type registerBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	NationalID  string `json:"nationalId"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Email = validators.NormalizeEmail(data.Email)

	if err := validators.EmailValidator(data.Email); err != nil {
		reply.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if res := validators.ValidatePassword(data.Password); !res.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"error":     res.Err().Error(),
			"errors":    res.Errors,
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		reply.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := service.CheckProfile(data.DisplayName, data.NationalID); err != nil {
		reply.Error(c, err, "validate profile")
		return
	}

	var u *model.User

	s, err := d.Auth.SignUp(c.Request.Context(), data.Email, data.Password,
		d.Profiles.Provision(data.DisplayName, data.NationalID, &u))
	if err != nil {
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrStoreUnavailable) {
			reply.Error(c, err, "create profile")
			return
		}

		reply.AuthError(c, err, "create account")
		return
	}

	// The account is usable without the mail, the user can ask for a resend
	if err := d.Auth.SendVerificationEmail(c.Request.Context(), s); err != nil {
		zap.L().Error("Failed to send verification email", zap.Error(err), zap.String("requestID", requestID))
	}

	c.SetCookie("user_id", s.ID, 60*60*24*30, "/", "", d.SecureCookies, false)

	reply.OK(c, http.StatusCreated, gin.H{
		"userID": s.ID,
		"user":   u,
	})
}
