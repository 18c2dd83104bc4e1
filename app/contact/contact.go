package contact

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactSubmit links the message to the sender when they are signed in
func ContactSubmit(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var form service.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var userID *string
	if token, err := c.Cookie("auth_token"); err == nil {
		if s, err := d.Auth.CurrentSession(c.Request.Context(), token); err == nil {
			userID = &s.ID
		}
	}

	msg, err := d.Contacts.Submit(c.Request.Context(), form, userID)
	if err != nil {
		reply.Error(c, err, "submit contact form")
		return
	}

	reply.OK(c, http.StatusCreated, gin.H{"id": msg.ID})
}
