package user

import (
	"bitwise74/docvault-api/app/reply"
	"bitwise74/docvault-api/internal"
	"bitwise74/docvault-api/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	userID := c.MustGet("userID").(string)

	u, err := d.Profiles.Get(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err, "fetch profile")
		return
	}

	stats, err := d.Documents.Stats(c.Request.Context(), userID)
	if err != nil {
		reply.Error(c, err, "compute stats")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{
		"user":         u,
		"capabilities": u.Role.Capabilities(),
		"stats":        stats,
	})
}

type updateBody struct {
	DisplayName *string `json:"displayName"`
	NationalID  *string `json:"nationalId"`
	Phone       *string `json:"phone"`
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	var data updateBody
	if err := c.ShouldBindJSON(&data); err != nil {
		reply.Fail(c, http.StatusBadRequest, "Invalid request body")

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	u, err := d.Profiles.Update(c.Request.Context(), userID, service.ProfilePatch{
		DisplayName: data.DisplayName,
		NationalID:  data.NationalID,
		Phone:       data.Phone,
	})
	if err != nil {
		reply.Error(c, err, "update profile")
		return
	}

	reply.OK(c, http.StatusOK, gin.H{"user": u})
}
